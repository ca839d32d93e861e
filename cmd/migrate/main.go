package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Patricemapiye-ctrl/navira-forge/config"
	"github.com/Patricemapiye-ctrl/navira-forge/database"
)

func main() {
	// Command line flags
	var (
		drop = flag.Bool("drop", false, "Drop all tables before migration")
		help = flag.Bool("help", false, "Show help")
	)

	flag.Parse()

	if *help {
		showHelp()
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fmt.Println("🚀 Starting Database Migration Tool")
	fmt.Printf("📊 Database: %s@%s:%s/%s\n",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Check connection
	if err := database.CheckConnection(database.DB); err != nil {
		log.Printf("⚠️  Warning: %v", err)
	}

	// Drop tables if requested
	if *drop {
		fmt.Println("⚠️  Dropping all application tables...")
		if err := database.DropAll(database.DB); err != nil {
			log.Fatalf("❌ Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped")
	}

	// Run AutoMigrate
	fmt.Println("🔄 Running GORM AutoMigrate...")
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("❌ Failed to run migration: %v", err)
	}

	fmt.Println("✅ Migration completed successfully!")
}

func showHelp() {
	fmt.Println(`
Database Migration Tool

Usage:
  go run cmd/migrate/main.go [options]

Options:
  -drop   Drop all tables before migration (DESTRUCTIVE)
  -help   Show this help message

Examples:
  # Migrate only
  go run cmd/migrate/main.go

  # Rebuild from scratch
  go run cmd/migrate/main.go -drop`)
}
