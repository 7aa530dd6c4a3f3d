package repositories

import (
	"context"

	"inventory/internal/models"
)

// StoreRepository defines the persistence operations on the store table and
// on the store <-> product association.
type StoreRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Store, error)
	List(ctx context.Context, page Page) ([]models.Store, int64, error)
	Create(ctx context.Context, store *models.Store) error
	Save(ctx context.Context, store *models.Store) error
	SoftDelete(ctx context.Context, id int64) error

	// AddProduct links a product to a store. Linking an already linked pair is a no-op.
	AddProduct(ctx context.Context, storeID, productID int64) error
	// RemoveProduct unlinks a product from a store.
	RemoveProduct(ctx context.Context, storeID, productID int64) error
	// SumProductQty returns the raw SUM(qty) over the store's live products,
	// or nil when the aggregate produced no row.
	SumProductQty(ctx context.Context, storeID int64) (*string, error)
}
