package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDb opens the configured database.
func OpenDb(cnf *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	if cnf.Db.Driver == DriverPostgres {
		return gorm.Open(postgres.Open(cnf.Db.URL), gormConfig)
	}

	if dir := filepath.Dir(cnf.Db.SqlitePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(cnf.Db.SqlitePath), gormConfig)
	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// GetDb opens the configured database and exits when it is unavailable.
func GetDb(cnf *Config) *gorm.DB {
	db, err := OpenDb(cnf)
	if err != nil {
		logrus.Fatalf("failed to open %s database: %v", cnf.Db.Driver, err)
	}

	return db
}
