package services_test

import (
	"testing"

	"openform/models"
	"openform/services"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory SQLite database. The connection pool is
// pinned to a single connection because each in-memory connection is its own
// database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Form{}, &models.Field{}, &models.Submission{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newFormService(t *testing.T) (*services.FormService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return services.NewFormService(db, services.NewDefinitionCache(nil)), db
}

func newFieldService(t *testing.T) (*services.FieldService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return services.NewFieldService(db, services.NewDefinitionCache(nil)), db
}

func intp(v int) *int { return &v }

func createForm(t *testing.T, db *gorm.DB, title string) *models.Form {
	t.Helper()
	form := &models.Form{Title: title}
	if err := db.Create(form).Error; err != nil {
		t.Fatalf("failed to create form: %v", err)
	}
	return form
}
