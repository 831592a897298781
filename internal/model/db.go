package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Page{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&ContentBlock{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&PageVersion{}); err != nil {
		return err
	}

	return nil
}
