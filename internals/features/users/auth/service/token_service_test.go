package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"famhealth_backend/internals/configs"
	userModel "famhealth_backend/internals/features/users/user/model"
)

func TestIssueAccessTokenClaims(t *testing.T) {
	configs.JWTSecret = "token-test-secret"

	user := &userModel.UserModel{
		ID:       uuid.New(),
		FamilyID: uuid.New(),
		Role:     "admin",
	}

	signed, err := IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method %v", tk.Method)
		}
		return []byte("token-test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse issued token: valid=%v err=%v", token != nil && token.Valid, err)
	}

	if claims["id"] != user.ID.String() {
		t.Errorf("id claim = %v", claims["id"])
	}
	if claims["family_id"] != user.FamilyID.String() {
		t.Errorf("family_id claim = %v", claims["family_id"])
	}
	if claims["role"] != "admin" {
		t.Errorf("role claim = %v", claims["role"])
	}

	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	iat := time.Unix(int64(claims["iat"].(float64)), 0)
	if ttl := exp.Sub(iat); ttl != configs.AccessTokenTTL() {
		t.Errorf("token ttl = %v, want %v", ttl, configs.AccessTokenTTL())
	}
}

func TestIssueAccessTokenWithoutSecret(t *testing.T) {
	old := configs.JWTSecret
	configs.JWTSecret = ""
	defer func() { configs.JWTSecret = old }()

	if _, err := IssueAccessToken(&userModel.UserModel{ID: uuid.New()}); err == nil {
		t.Fatal("expected error with empty secret")
	}
}

func TestTokenExpiry(t *testing.T) {
	configs.JWTSecret = "token-test-secret"

	user := &userModel.UserModel{ID: uuid.New(), FamilyID: uuid.New(), Role: "non_admin"}
	signed, err := IssueAccessToken(user)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	exp := TokenExpiry(signed)
	want := time.Now().Add(configs.AccessTokenTTL())
	if diff := want.Sub(exp); diff > time.Minute || diff < -time.Minute {
		t.Errorf("expiry = %v, want within a minute of %v", exp, want)
	}

	// garbage input degrades to "now", never panics
	if got := TokenExpiry("not-a-token"); time.Since(got) > time.Minute {
		t.Errorf("expiry for garbage token = %v", got)
	}
}
