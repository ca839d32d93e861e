package database

import (
	"fmt"
	"log"

	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"gorm.io/gorm"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	log.Println("Migration completed")
	return nil
}

// DropAll drops every application table. Used by the migrate tool's -drop flag.
func DropAll(db *gorm.DB) error {
	// Reverse dependency order so children go first
	all := models.AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", all[i], err)
		}
	}
	return nil
}

// CheckConnection verifies the database is reachable
func CheckConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
