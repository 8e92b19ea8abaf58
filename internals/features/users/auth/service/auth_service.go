package service

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"famhealth_backend/internals/constants"
	familyModel "famhealth_backend/internals/features/family/family/model"
	authDTO "famhealth_backend/internals/features/users/auth/dto"
	authModel "famhealth_backend/internals/features/users/auth/model"
	userModel "famhealth_backend/internals/features/users/user/model"
	helper "famhealth_backend/internals/helpers"
)

/* ==========================
   REGISTER
========================== */

// Register creates a family and its admin user as one transaction. The
// family starts with zero members; the admin bootstraps the first member
// profile through the initial-member endpoint.
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var emailTaken int64
	if err := db.Model(&userModel.UserModel{}).
		Where("lower(email) = ?", req.Email).
		Count(&emailTaken).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to check email")
	}
	if emailTaken > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "email already registered")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	var user userModel.UserModel
	if err := db.Transaction(func(tx *gorm.DB) error {
		family := familyModel.FamilyModel{Name: req.FamilyName}
		if err := tx.Create(&family).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create family")
		}

		user = userModel.UserModel{
			Email:     req.Email,
			Password:  string(passwordHash),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			FamilyID:  family.ID,
			Role:      constants.RoleAdmin,
		}
		if err := tx.Create(&user).Error; err != nil {
			// unique index on email resolves register races
			return fiber.NewError(fiber.StatusConflict, "email already registered")
		}
		return nil
	}); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "registration failed")
	}

	token, err := IssueAccessToken(&user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to issue token")
	}

	log.Printf("[INFO] family %q registered, admin user %s", req.FamilyName, user.Email)
	return helper.JsonCreated(c, "family registered", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"family_id":  user.FamilyID,
			"role":       user.Role,
		},
	})
}

/* ==========================
   LOGIN
========================== */

// Login verifies credentials and issues a session credential. The error is
// deliberately the same for unknown email and wrong password.
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user userModel.UserModel
	if err := db.Where("lower(email) = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid email or password")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "login failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	var family familyModel.FamilyModel
	if err := db.First(&family, "id = ?", user.FamilyID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "login failed")
	}

	token, err := IssueAccessToken(&user)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to issue token")
	}

	return helper.JsonOK(c, "login successful", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":          user.ID,
			"email":       user.Email,
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"family_id":   user.FamilyID,
			"family_name": family.Name,
			"role":        user.Role,
		},
	})
}

/* ==========================
   PROFILE
========================== */

// Profile returns the caller's account. The auth gate already verified
// the subject exists, so the not-found branch is a race guard only.
func Profile(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return err
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "user not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	return helper.JsonOK(c, "", fiber.Map{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"family_id":  user.FamilyID,
		"role":       user.Role,
	})
}

/* ==========================
   LOGOUT
========================== */

// Logout blacklists the presented token until its natural expiry.
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	tokenString := helper.GetRawAccessToken(c)
	if tokenString == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "missing bearer token")
	}

	entry := authModel.TokenBlacklist{
		Token:     tokenString,
		ExpiredAt: TokenExpiry(tokenString),
	}
	if err := db.Create(&entry).Error; err != nil {
		// already blacklisted is fine
		log.Printf("[WARN] blacklist insert: %v", err)
	}
	return helper.JsonOK(c, "logged out", nil)
}

/* ==========================
   CHANGE PASSWORD
========================== */

func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return err
	}

	var req authDTO.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "current password is incorrect")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := db.Model(&userModel.UserModel{}).
		Where("id = ?", user.ID).
		Update("password", string(newHash)).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update password")
	}

	return helper.JsonUpdated(c, "password changed", nil)
}
