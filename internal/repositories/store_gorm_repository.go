package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory/internal/models"

	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

var _ StoreRepository = (*GORMStoreRepository)(nil)

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// FindByID retrieves a single live store by its ID.
func (r *GORMStoreRepository) FindByID(ctx context.Context, id int64) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get store by ID %d: %w", id, err)
	}
	return &store, nil
}

// List returns a page of stores ordered by ID and the total store count.
func (r *GORMStoreRepository) List(ctx context.Context, page Page) ([]models.Store, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	stores := make([]models.Store, 0)
	err := r.db.WithContext(ctx).
		Order("id").
		Offset(page.Skip).
		Limit(page.Take).
		Find(&stores).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, total, nil
}

// Create inserts a new store.
func (r *GORMStoreRepository) Create(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// Save writes every column of an existing store.
func (r *GORMStoreRepository) Save(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Save(store).Error; err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}
	return nil
}

// SoftDelete stamps deleted_at on the store and drops its product links.
func (r *GORMStoreRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&models.StoreProduct{}).Error; err != nil {
			return fmt.Errorf("failed to unlink products from store %d: %w", id, err)
		}
		if err := tx.Delete(&models.Store{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete store: %w", err)
		}
		return nil
	})
}

// AddProduct inserts the association row. The composite primary key rejects a
// second insert of the same pair; that conflict is treated as success.
func (r *GORMStoreRepository) AddProduct(ctx context.Context, storeID, productID int64) error {
	link := models.StoreProduct{StoreID: storeID, ProductID: productID}
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to add product %d to store %d: %w", productID, storeID, err)
	}
	return nil
}

// RemoveProduct deletes the association row, if any.
func (r *GORMStoreRepository) RemoveProduct(ctx context.Context, storeID, productID int64) error {
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Delete(&models.StoreProduct{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove product %d from store %d: %w", productID, storeID, err)
	}
	return nil
}

// SumProductQty aggregates qty over the products linked to a store.
func (r *GORMStoreRepository) SumProductQty(ctx context.Context, storeID int64) (*string, error) {
	var total sql.NullString
	err := r.db.WithContext(ctx).Model(&models.Store{}).
		Select("SUM(product.qty) AS total_qty").
		Joins("LEFT JOIN store_products ON store_products.store_id = store.id").
		Joins("LEFT JOIN product ON product.id = store_products.product_id AND product.deleted_at IS NULL").
		Where("store.id = ?", storeID).
		Group("store.id").
		Row().
		Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to aggregate stock for store %d: %w", storeID, err)
	}
	if !total.Valid {
		return nil, nil
	}
	return &total.String, nil
}
