package repositories

import (
	"context"

	"inventory/internal/models"
)

// ProductRepository defines the persistence operations on the product table.
// Lookups return (nil, nil) when the row does not exist or is soft-deleted.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, q ListQuery) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	SoftDelete(ctx context.Context, id int64) error
	FindInStore(ctx context.Context, productID, storeID int64) (*models.Product, error)
	ListNotInStore(ctx context.Context, storeID int64, page Page) ([]models.Product, int64, error)
}
