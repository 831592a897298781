package tester

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emrgen/pagebuilder/internal/model"
)

// TestDB opens a migrated sqlite database private to the test.
// A single connection keeps writes from concurrent goroutines serialized.
func TestDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pagebuilder.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// CreatePage inserts a page with a unique slug.
func CreatePage(t testing.TB, db *gorm.DB) *model.Page {
	t.Helper()

	id := uuid.New().String()
	page := &model.Page{
		ID:    id,
		Slug:  "page-" + id[:8],
		Title: "Page " + id[:8],
	}
	if err := db.Create(page).Error; err != nil {
		t.Fatalf("create page: %v", err)
	}

	return page
}

func init() {
	logrus.SetLevel(logrus.WarnLevel)
}
