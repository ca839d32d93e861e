package database

import (
	"log"

	"github.com/Patricemapiye-ctrl/navira-forge/auth"
	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

// SeedData populates the database with a starter admin account and a small
// hardware catalog. Safe to run repeatedly: existing rows are left alone.
func SeedData(db *gorm.DB) error {
	// Admin account
	var adminCount int64
	if err := db.Model(&models.User{}).Where("email = ?", "admin@navira.local").Count(&adminCount).Error; err != nil {
		return err
	}

	if adminCount == 0 {
		hash, err := auth.HashPassword("admin123")
		if err != nil {
			return err
		}

		admin := models.User{
			Email:        "admin@navira.local",
			PasswordHash: hash,
			FullName:     strPtr("Store Administrator"),
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		if err := db.Create(&models.UserRole{UserID: admin.ID, Role: models.RoleAdmin}).Error; err != nil {
			return err
		}
		log.Println("Seeded admin account admin@navira.local")
	}

	// Starter catalog
	items := []models.InventoryItem{
		{ItemCode: "HW-DRL-001", ItemName: "Cordless Drill 18V", Category: "Power Tools", Description: strPtr("18V brushless cordless drill with two batteries"), Quantity: 25, UnitPrice: 1499.99, ReorderLevel: 5, Supplier: strPtr("Makita SA")},
		{ItemCode: "HW-HAM-002", ItemName: "Claw Hammer 500g", Category: "Hand Tools", Quantity: 60, UnitPrice: 129.50, ReorderLevel: 15, Supplier: strPtr("Lasher Tools")},
		{ItemCode: "HW-SCR-003", ItemName: "Screwdriver Set 12pc", Category: "Hand Tools", Quantity: 40, UnitPrice: 249.00, ReorderLevel: 10, Supplier: strPtr("Stanley")},
		{ItemCode: "HW-PNT-004", ItemName: "Wall Paint White 5L", Category: "Paint", Quantity: 30, UnitPrice: 399.95, ReorderLevel: 8, Supplier: strPtr("Dulux")},
		{ItemCode: "HW-TAP-005", ItemName: "Measuring Tape 5m", Category: "Hand Tools", Quantity: 80, UnitPrice: 59.99, ReorderLevel: 20, Supplier: strPtr("Stanley")},
		{ItemCode: "HW-LAD-006", ItemName: "Aluminium Ladder 3m", Category: "Access Equipment", Quantity: 8, UnitPrice: 1899.00, ReorderLevel: 3, Supplier: strPtr("Gravity")},
	}

	for _, item := range items {
		var count int64
		if err := db.Model(&models.InventoryItem{}).Where("item_code = ?", item.ItemCode).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&item).Error; err != nil {
			return err
		}
	}

	log.Println("Seed data loaded")
	return nil
}
