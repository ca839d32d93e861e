package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Patricemapiye-ctrl/navira-forge/config"
	"github.com/Patricemapiye-ctrl/navira-forge/database"
)

func main() {
	// Define flags
	force := flag.Bool("force", false, "Force re-seed even if data exists")
	help := flag.Bool("help", false, "Show help message")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	fmt.Println("🌱 Starting Database Seeding Tool")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	fmt.Printf("📊 Database: %s@%s:%s/%s\n\n", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Check connection
	if err := database.CheckConnection(database.DB); err != nil {
		log.Fatal("Database connection check failed:", err)
	}

	// Run seed
	if *force {
		fmt.Println("⚠️  Force flag enabled. Clearing existing data...")
		if err := database.DropAll(database.DB); err != nil {
			log.Fatal("Failed to clear data:", err)
		}
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Fatal("Failed to re-migrate:", err)
		}
	}

	if err := database.SeedData(database.DB); err != nil {
		log.Fatal("Failed to seed database:", err)
	}

	fmt.Println("✅ Database seeded successfully!")
}

func showHelp() {
	fmt.Println(`
Database Seeding Tool

Usage:
  go run cmd/seed/main.go [options]

Options:
  -force  Drop, re-migrate and re-seed (DESTRUCTIVE)
  -help   Show this help message

Examples:
  # Seed missing data only (idempotent)
  go run cmd/seed/main.go

  # Full reset
  go run cmd/seed/main.go -force`)
}
