package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"famhealth_backend/internals/configs"
	familyModel "famhealth_backend/internals/features/family/family/model"
	memberModel "famhealth_backend/internals/features/family/members/model"
	relationModel "famhealth_backend/internals/features/family/relationships/model"
	documentModel "famhealth_backend/internals/features/health/documents/model"
	reportModel "famhealth_backend/internals/features/health/reports/model"
	vitalModel "famhealth_backend/internals/features/health/vitals/model"
	authModel "famhealth_backend/internals/features/users/auth/model"
	userModel "famhealth_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=famhealth&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // needed for PgBouncer transaction pooling
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates/updates the schema for every entity in the system.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&familyModel.FamilyModel{},
		&userModel.UserModel{},
		&memberModel.FamilyMemberModel{},
		&relationModel.FamilyRelationshipModel{},
		&vitalModel.HealthVitalModel{},
		&reportModel.MedicalReportModel{},
		&documentModel.DocumentModel{},
		&authModel.TokenBlacklist{},
	)
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
