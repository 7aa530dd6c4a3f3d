package repositories

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"inventory/internal/models"

	"gorm.io/gorm"
)

type linkKey struct {
	storeID   int64
	productID int64
}

// MemoryDB is an in-process stand-in for the inventory tables. Deleted rows
// keep their tombstone and stay invisible to every read.
type MemoryDB struct {
	mu            sync.RWMutex
	products      map[int64]models.Product
	stores        map[int64]models.Store
	links         map[linkKey]struct{}
	nextProductID int64
	nextStoreID   int64
	now           func() time.Time
}

// NewMemoryDB creates an empty MemoryDB.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		products: make(map[int64]models.Product),
		stores:   make(map[int64]models.Store),
		links:    make(map[linkKey]struct{}),
		now:      time.Now,
	}
}

func (m *MemoryDB) liveProduct(id int64) (models.Product, bool) {
	p, ok := m.products[id]
	return p, ok && !p.DeletedAt.Valid
}

func (m *MemoryDB) liveStore(id int64) (models.Store, bool) {
	s, ok := m.stores[id]
	return s, ok && !s.DeletedAt.Valid
}

func tombstone(t time.Time) gorm.DeletedAt {
	return gorm.DeletedAt{Time: t, Valid: true}
}

func window[T any](items []T, page Page) []T {
	if page.Skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Take > 0 && page.Skip+page.Take < end {
		end = page.Skip + page.Take
	}
	return items[page.Skip:end]
}

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	db *MemoryDB
}

var _ ProductRepository = (*MemoryProductRepository)(nil)

// NewMemoryProductRepository creates a product repository over db.
func NewMemoryProductRepository(db *MemoryDB) *MemoryProductRepository {
	return &MemoryProductRepository{db: db}
}

// FindByID returns a live product by its ID.
func (r *MemoryProductRepository) FindByID(_ context.Context, id int64) (*models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	product, ok := r.db.liveProduct(id)
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// List applies the join, filters, ordering and window of q.
func (r *MemoryProductRepository) List(_ context.Context, q ListQuery) ([]models.Product, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	storeIDs := make([]int64, 0, len(q.Filters))
	for _, f := range q.Filters {
		if f.Column != ColumnStoreID {
			return nil, 0, fmt.Errorf("unsupported filter column %q", f.Column)
		}
		id, ok := f.Value.(int64)
		if !ok {
			return nil, 0, fmt.Errorf("filter %q expects an integer value, got %T", f.Column, f.Value)
		}
		storeIDs = append(storeIDs, id)
	}

	matched := make([]models.Product, 0)
	for id, product := range r.db.products {
		if product.DeletedAt.Valid {
			continue
		}
		if !r.matches(id, q.Join, storeIDs) {
			continue
		}
		matched = append(matched, product)
	}

	less, err := productLess(q.OrderBy)
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if q.Desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	return window(matched, q.Page), int64(len(matched)), nil
}

// matches mirrors the SQL join: an inner join requires at least one live
// store, and every store filter requires a link to that store.
func (r *MemoryProductRepository) matches(productID int64, join JoinType, storeIDs []int64) bool {
	if join == JoinInner && len(storeIDs) == 0 {
		for key := range r.db.links {
			if _, ok := r.db.liveStore(key.storeID); ok && key.productID == productID {
				return true
			}
		}
		return false
	}
	for _, storeID := range storeIDs {
		if _, ok := r.db.liveStore(storeID); !ok {
			return false
		}
		if _, ok := r.db.links[linkKey{storeID: storeID, productID: productID}]; !ok {
			return false
		}
	}
	return true
}

func productLess(column string) (func(a, b models.Product) bool, error) {
	switch column {
	case "", ColumnProductID:
		return func(a, b models.Product) bool { return a.ID < b.ID }, nil
	case ColumnProductName:
		return func(a, b models.Product) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		}, nil
	case ColumnProductCategory:
		return func(a, b models.Product) bool {
			if a.Category != b.Category {
				return a.Category < b.Category
			}
			return a.ID < b.ID
		}, nil
	default:
		return nil, fmt.Errorf("unsupported order column %q", column)
	}
}

// Create assigns an ID and timestamps and stores the product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.nextProductID++
	now := r.db.now()
	product.ID = r.db.nextProductID
	product.CreatedAt = now
	product.UpdatedAt = now
	r.db.products[product.ID] = *product
	return nil
}

// Save replaces a live product.
func (r *MemoryProductRepository) Save(_ context.Context, product *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.liveProduct(product.ID); !ok {
		return fmt.Errorf("product with ID %d not found for update", product.ID)
	}
	product.UpdatedAt = r.db.now()
	r.db.products[product.ID] = *product
	return nil
}

// SoftDelete tombstones the product and drops its store links.
func (r *MemoryProductRepository) SoftDelete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	product, ok := r.db.liveProduct(id)
	if !ok {
		return nil
	}
	product.DeletedAt = tombstone(r.db.now())
	r.db.products[id] = product
	for key := range r.db.links {
		if key.productID == id {
			delete(r.db.links, key)
		}
	}
	return nil
}

// FindInStore returns the product only if it is linked to the live store.
func (r *MemoryProductRepository) FindInStore(_ context.Context, productID, storeID int64) (*models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	product, ok := r.db.liveProduct(productID)
	if !ok {
		return nil, nil
	}
	if _, ok := r.db.liveStore(storeID); !ok {
		return nil, nil
	}
	if _, ok := r.db.links[linkKey{storeID: storeID, productID: productID}]; !ok {
		return nil, nil
	}
	return &product, nil
}

// ListNotInStore pages through live products without a link to the store.
func (r *MemoryProductRepository) ListNotInStore(_ context.Context, storeID int64, page Page) ([]models.Product, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	matched := make([]models.Product, 0)
	for id, product := range r.db.products {
		if product.DeletedAt.Valid {
			continue
		}
		if _, linked := r.db.links[linkKey{storeID: storeID, productID: id}]; linked {
			continue
		}
		matched = append(matched, product)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return window(matched, page), int64(len(matched)), nil
}

// MemoryStoreRepository is an in-memory implementation of StoreRepository.
type MemoryStoreRepository struct {
	db *MemoryDB
}

var _ StoreRepository = (*MemoryStoreRepository)(nil)

// NewMemoryStoreRepository creates a store repository over db.
func NewMemoryStoreRepository(db *MemoryDB) *MemoryStoreRepository {
	return &MemoryStoreRepository{db: db}
}

// FindByID returns a live store by its ID.
func (r *MemoryStoreRepository) FindByID(_ context.Context, id int64) (*models.Store, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	store, ok := r.db.liveStore(id)
	if !ok {
		return nil, nil
	}
	return &store, nil
}

// List returns a page of live stores ordered by ID.
func (r *MemoryStoreRepository) List(_ context.Context, page Page) ([]models.Store, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	stores := make([]models.Store, 0, len(r.db.stores))
	for _, store := range r.db.stores {
		if !store.DeletedAt.Valid {
			stores = append(stores, store)
		}
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].ID < stores[j].ID })

	return window(stores, page), int64(len(stores)), nil
}

// Create assigns an ID and timestamps and stores the store.
func (r *MemoryStoreRepository) Create(_ context.Context, store *models.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.nextStoreID++
	now := r.db.now()
	store.ID = r.db.nextStoreID
	store.CreatedAt = now
	store.UpdatedAt = now
	r.db.stores[store.ID] = *store
	return nil
}

// Save replaces a live store.
func (r *MemoryStoreRepository) Save(_ context.Context, store *models.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.liveStore(store.ID); !ok {
		return fmt.Errorf("store with ID %d not found for update", store.ID)
	}
	store.UpdatedAt = r.db.now()
	r.db.stores[store.ID] = *store
	return nil
}

// SoftDelete tombstones the store and drops its product links.
func (r *MemoryStoreRepository) SoftDelete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	store, ok := r.db.liveStore(id)
	if !ok {
		return nil
	}
	store.DeletedAt = tombstone(r.db.now())
	r.db.stores[id] = store
	for key := range r.db.links {
		if key.storeID == id {
			delete(r.db.links, key)
		}
	}
	return nil
}

// AddProduct links the pair; an existing link is left untouched.
func (r *MemoryStoreRepository) AddProduct(_ context.Context, storeID, productID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.stores[storeID]; !ok {
		return fmt.Errorf("failed to add product %d to store %d: unknown store", productID, storeID)
	}
	if _, ok := r.db.products[productID]; !ok {
		return fmt.Errorf("failed to add product %d to store %d: unknown product", productID, storeID)
	}
	r.db.links[linkKey{storeID: storeID, productID: productID}] = struct{}{}
	return nil
}

// RemoveProduct unlinks the pair.
func (r *MemoryStoreRepository) RemoveProduct(_ context.Context, storeID, productID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.links, linkKey{storeID: storeID, productID: productID})
	return nil
}

// SumProductQty sums qty over the live products linked to a live store and
// renders it the way a SQL driver returns an aggregate: as text, or nil for
// an empty group.
func (r *MemoryStoreRepository) SumProductQty(_ context.Context, storeID int64) (*string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if _, ok := r.db.liveStore(storeID); !ok {
		return nil, nil
	}

	var (
		sum   int64
		found bool
	)
	for key := range r.db.links {
		if key.storeID != storeID {
			continue
		}
		if product, ok := r.db.liveProduct(key.productID); ok {
			sum += int64(product.Qty)
			found = true
		}
	}
	if !found {
		return nil, nil
	}
	total := strconv.FormatInt(sum, 10)
	return &total, nil
}
