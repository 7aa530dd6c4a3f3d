package services_test

import (
	"context"
	"fmt"
	"testing"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/dto"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/pkg/tracing"

	"github.com/go-extras/go-kit/must"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type inventory struct {
	db       *gorm.DB
	products *services.ProductService
	stores   *services.StoreService
}

// setupInventory wires both services over a private in-memory SQLite database.
func setupInventory(t *testing.T) inventory {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db := must.Must(database.Open(config.Database{Driver: config.DriverSQLite, DSN: dsn}))
	require.NoError(t, database.Migrate(db))

	tracer := tracing.NewTracer()
	productRepo := repositories.NewGORMProductRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	products := services.NewProductService(productRepo, storeRepo, nil, tracer)
	stores := services.NewStoreService(storeRepo, products, nil, tracer)
	return inventory{db: db, products: products, stores: stores}
}

func (inv inventory) product(t *testing.T, name string, qty int) *models.Product {
	t.Helper()
	p, err := inv.products.Create(context.Background(), dto.CreateProductDTO{
		Name: name, Category: "General", Price: decimal.RequireFromString("1.5"), Qty: qty,
	})
	require.NoError(t, err)
	return p
}

func (inv inventory) store(t *testing.T, name string) *models.Store {
	t.Helper()
	s, err := inv.stores.Create(context.Background(), dto.StoreDTO{Name: name})
	require.NoError(t, err)
	return s
}

func (inv inventory) links(t *testing.T, storeID, productID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, inv.db.Model(&models.StoreProduct{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).Count(&n).Error)
	return n
}

func TestInventory_FindAllRespectsLimitAndTotal(t *testing.T) {
	ctx := context.Background()
	inv := setupInventory(t)
	for i := 0; i < 7; i++ {
		inv.product(t, fmt.Sprintf("Item %d", i), i)
	}

	for _, window := range []struct{ limit, offset int }{{1, 0}, {3, 0}, {3, 5}, {10, 0}, {2, 9}} {
		page, err := inv.products.FindAll(ctx, dto.ProductListQuery{PaginatedQuery: dto.Page(window.limit, window.offset)})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page.Results), window.limit)
		assert.Equal(t, int64(7), page.Total, "limit=%d offset=%d", window.limit, window.offset)
	}
}

func TestInventory_StoreFilterExcludesUnassignedProducts(t *testing.T) {
	ctx := context.Background()
	inv := setupInventory(t)

	var target *models.Store
	for i := 0; i < 7; i++ {
		target = inv.store(t, fmt.Sprintf("Store %d", i+1))
	}
	require.Equal(t, int64(7), target.ID)

	assigned := inv.product(t, "Assigned", 1)
	inv.product(t, "Nowhere", 1)
	elsewhere := inv.product(t, "Elsewhere", 1)

	_, err := inv.stores.AddProductToStore(ctx, 7, assigned.ID)
	require.NoError(t, err)
	_, err = inv.stores.AddProductToStore(ctx, 3, elsewhere.ID)
	require.NoError(t, err)

	page, err := inv.products.FindAll(ctx, dto.ProductListQuery{FilterBy: dto.FilterByStoreID, FilterValue: "7"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, assigned.ID, page.Results[0].ID)
}

func TestInventory_AddProductToStoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	inv := setupInventory(t)
	store := inv.store(t, "A")
	product := inv.product(t, "P", 4)

	first, err := inv.stores.AddProductToStore(ctx, store.ID, product.ID)
	require.NoError(t, err)
	second, err := inv.stores.AddProductToStore(ctx, store.ID, product.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Qty, second.Qty)
	assert.Equal(t, int64(1), inv.links(t, store.ID, product.ID))
}

func TestInventory_DetachUnassignedLeavesStorageUnchanged(t *testing.T) {
	ctx := context.Background()
	inv := setupInventory(t)
	store := inv.store(t, "A")
	other := inv.product(t, "Other", 2)
	loose := inv.product(t, "Loose", 3)
	_, err := inv.stores.AddProductToStore(ctx, store.ID, other.ID)
	require.NoError(t, err)

	_, err = inv.stores.DeleteProductFromStore(ctx, store.ID, loose.ID)
	assert.ErrorIs(t, err, services.ErrInvalidOperation)

	assert.Equal(t, int64(1), inv.links(t, store.ID, other.ID))
	assert.Equal(t, int64(0), inv.links(t, store.ID, loose.ID))
	total, err := inv.stores.GetAggregatedStockQuantity(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestInventory_AggregatedStockQuantity(t *testing.T) {
	ctx := context.Background()
	inv := setupInventory(t)
	empty := inv.store(t, "Empty")
	full := inv.store(t, "Full")
	for _, qty := range []int{3, 5, 2} {
		p := inv.product(t, fmt.Sprintf("Qty %d", qty), qty)
		_, err := inv.stores.AddProductToStore(ctx, full.ID, p.ID)
		require.NoError(t, err)
	}

	total, err := inv.stores.GetAggregatedStockQuantity(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	total, err = inv.stores.GetAggregatedStockQuantity(ctx, full.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)

	_, err = inv.stores.GetAggregatedStockQuantity(ctx, 404)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestInventory_UpdateWithZeroQtyKeepsStoredQty(t *testing.T) {
	ctx := context.Background()
	inv := setupInventory(t)
	product := inv.product(t, "P", 4)

	updated, err := inv.products.Update(ctx, product.ID, dto.UpdateProductDTO{Qty: 0})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Qty)

	reloaded, err := inv.products.FindOne(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Qty)
}

func TestInventory_DeletedProductLeavesStores(t *testing.T) {
	ctx := context.Background()
	inv := setupInventory(t)
	store := inv.store(t, "A")
	product := inv.product(t, "P", 6)
	_, err := inv.stores.AddProductToStore(ctx, store.ID, product.ID)
	require.NoError(t, err)

	snapshot, err := inv.products.Delete(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, snapshot.ID)

	_, err = inv.products.FindOne(ctx, product.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, int64(0), inv.links(t, store.ID, product.ID))

	total, err := inv.stores.GetAggregatedStockQuantity(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestInventory_AttachDetachRoundTrip(t *testing.T) {
	ctx := context.Background()
	inv := setupInventory(t)

	store, err := inv.stores.Create(ctx, dto.StoreDTO{Name: "A"})
	require.NoError(t, err)
	product, err := inv.products.Create(ctx, dto.CreateProductDTO{
		Name: "P", Category: "C", Price: decimal.RequireFromString("1.5"), Qty: 4,
	})
	require.NoError(t, err)

	_, err = inv.stores.AddProductToStore(ctx, store.ID, product.ID)
	require.NoError(t, err)

	total, err := inv.stores.GetAggregatedStockQuantity(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	_, err = inv.stores.DeleteProductFromStore(ctx, store.ID, product.ID)
	require.NoError(t, err)

	total, err = inv.stores.GetAggregatedStockQuantity(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	_, err = inv.stores.DeleteProductFromStore(ctx, store.ID, product.ID)
	assert.ErrorIs(t, err, services.ErrInvalidOperation)
}

func TestInventory_FindProductsNotInStore(t *testing.T) {
	ctx := context.Background()
	inv := setupInventory(t)
	store := inv.store(t, "A")
	in := inv.product(t, "In", 1)
	out := inv.product(t, "Out", 1)
	_, err := inv.stores.AddProductToStore(ctx, store.ID, in.ID)
	require.NoError(t, err)

	page, err := inv.products.FindProductsNotInStore(ctx, store.ID, dto.PaginatedQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, out.ID, page.Results[0].ID)
}
