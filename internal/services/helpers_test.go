package services

import (
	"path/filepath"
	"testing"

	"github.com/hopefund/backend/internal/config"
	"github.com/hopefund/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDB opens a throwaway sqlite database with the full schema migrated.
// A file in t.TempDir() rather than :memory: so every pooled connection sees
// the same database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", ExpireMinutes: 30}
}

// seedProject inserts an approved project ready to receive donations.
func seedProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:       "Clean Water Wells",
		Description: "Dig wells in drought-affected villages",
		OwnerEmail:  "owner@example.com",
		Category:    "environment",
		GoalAmount:  5000,
		Location:    "Pune",
		Status:      models.ProjectStatusApproved,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return project
}
