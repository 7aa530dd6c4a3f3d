package repositories

import (
	"context"
	"errors"
	"fmt"

	"inventory/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	joinStoreProductsLeft  = "LEFT JOIN store_products ON store_products.product_id = product.id"
	joinStoreLeft          = "LEFT JOIN store ON store.id = store_products.store_id AND store.deleted_at IS NULL"
	joinStoreProductsInner = "INNER JOIN store_products ON store_products.product_id = product.id"
	joinStoreInner         = "INNER JOIN store ON store.id = store_products.store_id AND store.deleted_at IS NULL"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

var _ ProductRepository = (*GORMProductRepository)(nil)

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// FindByID retrieves a single live product by its ID.
func (r *GORMProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// List runs a filtered, sorted, paginated scan over products joined to their
// stores and returns the page together with the number of matching products.
func (r *GORMProductRepository) List(ctx context.Context, q ListQuery) ([]models.Product, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if q.Join == JoinInner {
			db = db.Joins(joinStoreProductsInner).Joins(joinStoreInner)
		} else {
			db = db.Joins(joinStoreProductsLeft).Joins(joinStoreLeft)
		}
		for _, f := range q.Filters {
			db = db.Where(clause.Eq{Column: f.Column, Value: f.Value})
		}
		return db
	}

	// A product linked to several stores appears once per link in the join,
	// so both the count and the page are distinct on the product row.
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(scope).
		Distinct("product.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products := make([]models.Product, 0)
	err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(scope).
		Distinct("product.*").
		Order(productOrder(q.OrderBy, q.Desc)).
		Offset(q.Page.Skip).
		Limit(q.Page.Take).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func productOrder(column string, desc bool) clause.OrderBy {
	if column == "" {
		column = ColumnProductID
	}
	columns := []clause.OrderByColumn{{Column: clause.Column{Table: "product", Name: column}, Desc: desc}}
	if column != ColumnProductID {
		columns = append(columns, clause.OrderByColumn{Column: clause.Column{Table: "product", Name: ColumnProductID}})
	}
	return clause.OrderBy{Columns: columns}
}

// Create inserts a new product; ID and timestamps are filled in on success.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Save writes every column of an existing product.
func (r *GORMProductRepository) Save(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// SoftDelete stamps deleted_at on the product and drops its store links.
func (r *GORMProductRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.StoreProduct{}).Error; err != nil {
			return fmt.Errorf("failed to unlink product %d from stores: %w", id, err)
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}

// FindInStore returns the product only if it is linked to the given live store.
func (r *GORMProductRepository) FindInStore(ctx context.Context, productID, storeID int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("product.*").
		Joins(joinStoreProductsInner).
		Joins(joinStoreInner).
		Where("product.id = ? AND store.id = ?", productID, storeID).
		Take(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up product %d in store %d: %w", productID, storeID, err)
	}
	return &product, nil
}

// ListNotInStore pages through live products that are not linked to the store.
func (r *GORMProductRepository) ListNotInStore(ctx context.Context, storeID int64, page Page) ([]models.Product, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		linked := r.db.Model(&models.StoreProduct{}).Select("product_id").Where("store_id = ?", storeID)
		return db.Where("product.id NOT IN (?)", linked)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products outside store %d: %w", storeID, err)
	}

	products := make([]models.Product, 0)
	err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(scope).
		Order(productOrder(ColumnProductID, false)).
		Offset(page.Skip).
		Limit(page.Take).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products outside store %d: %w", storeID, err)
	}
	return products, total, nil
}
