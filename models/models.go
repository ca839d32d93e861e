package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		// 1. Independent tables (no foreign keys)
		&InventoryItem{},
		&User{},
		&SaleCounter{},

		// 2. Tables with single dependencies
		&UserRole{}, // depends on: User
		&Sale{},     // references users via sold_by/handled_by (soft)

		// 3. Detail tables
		&SaleItem{}, // depends on: Sale, InventoryItem
		&Return{},   // depends on: Sale
	}
}
