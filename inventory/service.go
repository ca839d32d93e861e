// Package inventory is the catalog store: it owns item records and every
// mutation of them outside the sale recorder's decrement. Read-side
// helpers back the storefront, the POS picker, and low-stock alerting.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/Patricemapiye-ctrl/navira-forge/realtime"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the item does not exist.
	ErrNotFound = errors.New("inventory: item not found")

	// ErrDuplicateCode is returned when creating an item whose code is
	// already taken.
	ErrDuplicateCode = errors.New("inventory: item code already exists")

	// ErrNegativeQuantity is returned for writes that would set a
	// negative stock level.
	ErrNegativeQuantity = errors.New("inventory: quantity cannot be negative")
)

// ItemInput carries the writable fields of a catalog item.
type ItemInput struct {
	ItemCode     string   `json:"item_code"`
	ItemName     string   `json:"item_name"`
	Category     string   `json:"category"`
	Description  *string  `json:"description"`
	ImageURL     *string  `json:"image_url"`
	Quantity     int      `json:"quantity"`
	UnitPrice    float64  `json:"unit_price"`
	ReorderLevel int      `json:"reorder_level"`
	Supplier     *string  `json:"supplier"`
}

// Service owns catalog items.
type Service struct {
	db   *gorm.DB
	feed *realtime.Hub
}

// NewService creates the catalog service. feed may be nil.
func NewService(db *gorm.DB, feed *realtime.Hub) *Service {
	return &Service{db: db, feed: feed}
}

// Create inserts a new catalog item.
func (s *Service) Create(ctx context.Context, in ItemInput) (*models.InventoryItem, error) {
	if in.ItemCode == "" || in.ItemName == "" || in.Category == "" {
		return nil, errors.New("inventory: item_code, item_name and category are required")
	}
	if in.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if in.UnitPrice < 0 {
		return nil, errors.New("inventory: unit price cannot be negative")
	}
	if in.ReorderLevel <= 0 {
		in.ReorderLevel = 10
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("item_code = ?", in.ItemCode).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, in.ItemCode)
	}

	item := models.InventoryItem{
		ItemCode:     in.ItemCode,
		ItemName:     in.ItemName,
		Category:     in.Category,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		ReorderLevel: in.ReorderLevel,
		Supplier:     in.Supplier,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(realtime.EventInventoryUpdated, item)
	}
	return &item, nil
}

// Update rewrites the item's catalog fields. Quantity is written as given;
// stock corrections go through here, sale decrements never do.
func (s *Service) Update(ctx context.Context, id uint, in ItemInput) (*models.InventoryItem, error) {
	if in.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	var item models.InventoryItem
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	item.ItemCode = in.ItemCode
	item.ItemName = in.ItemName
	item.Category = in.Category
	item.Description = in.Description
	item.ImageURL = in.ImageURL
	item.Quantity = in.Quantity
	item.UnitPrice = in.UnitPrice
	if in.ReorderLevel > 0 {
		item.ReorderLevel = in.ReorderLevel
	}
	item.Supplier = in.Supplier

	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(realtime.EventInventoryUpdated, item)
	}
	return &item, nil
}

// AddStock credits received stock onto an item atomically.
func (s *Service) AddStock(ctx context.Context, id uint, qty int) error {
	if qty <= 0 {
		return errors.New("inventory: received quantity must be positive")
	}

	res := s.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	if s.feed != nil {
		s.feed.Publish(realtime.EventInventoryUpdated, map[string]interface{}{
			"inventory_id": id,
			"received":     qty,
		})
	}
	return nil
}

// Delete removes an item from the catalog. Historical sale lines keep
// their denormalized name and price.
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns one item by id.
func (s *Service) Get(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns catalog items, optionally filtered by a name/code search
// term and a category.
func (s *Service) List(ctx context.Context, search, category string) ([]models.InventoryItem, error) {
	q := s.db.WithContext(ctx).Model(&models.InventoryItem{}).Order("item_name")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("item_name LIKE ? OR item_code LIKE ?", like, like)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var items []models.InventoryItem
	err := q.Find(&items).Error
	return items, err
}

// Available returns in-stock items ordered by name, for the storefront
// and POS pickers.
func (s *Service) Available(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.WithContext(ctx).
		Where("quantity > 0").
		Order("item_name").
		Find(&items).Error
	return items, err
}

// LowStock returns items at or below their reorder level, most depleted
// first.
func (s *Service) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.WithContext(ctx).
		Where("quantity <= reorder_level").
		Order("quantity ASC").
		Find(&items).Error
	return items, err
}
