package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"inventory/internal/dto"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/pkg/tracing"
)

// ProductLookup is the part of ProductService the store service relies on.
type ProductLookup interface {
	FindOne(ctx context.Context, id int64) (*models.Product, error)
	GetProductInStore(ctx context.Context, productID, storeID int64) (*models.Product, error)
}

var _ ProductLookup = (*ProductService)(nil)

// StoreService handles stores and the products assigned to them.
type StoreService struct {
	repo      repositories.StoreRepository
	products  ProductLookup
	publisher EventPublisher
	tracer    *tracing.Tracer
}

// NewStoreService creates a new StoreService. publisher and tracer may be nil.
func NewStoreService(repo repositories.StoreRepository, products ProductLookup, publisher EventPublisher, tracer *tracing.Tracer) *StoreService {
	return &StoreService{
		repo:      repo,
		products:  products,
		publisher: publisher,
		tracer:    tracer,
	}
}

// FindAll returns a page of stores ordered by id.
func (s *StoreService) FindAll(ctx context.Context, q dto.PaginatedQuery) (page dto.PaginatedResponse[models.Store], err error) {
	ctx, span := s.tracer.Start(ctx, "store.findAll")
	defer func() { s.tracer.End(span, err) }()

	limit, offset := q.Window()
	stores, total, err := s.repo.List(ctx, repositories.Page{Skip: offset, Take: limit})
	if err != nil {
		return page, fmt.Errorf("failed to list stores: %w", err)
	}

	return dto.PaginatedResponse[models.Store]{
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		Results: stores,
	}, nil
}

// FindOne returns a store or an ErrNotFound error.
func (s *StoreService) FindOne(ctx context.Context, id int64) (store *models.Store, err error) {
	ctx, span := s.tracer.Start(ctx, "store.findOne", tracing.StoreID(id))
	defer func() { s.tracer.End(span, err) }()

	store, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find store %d: %w", id, err)
	}
	if store == nil {
		return nil, notFound("store", id)
	}
	return store, nil
}

// Create persists a new store.
func (s *StoreService) Create(ctx context.Context, d dto.StoreDTO) (store *models.Store, err error) {
	ctx, span := s.tracer.Start(ctx, "store.create")
	defer func() { s.tracer.End(span, err) }()

	store = &models.Store{Name: d.Name}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	publish(ctx, s.publisher, EventStoreCreated, store)
	return store, nil
}

// Update overwrites every field of the store with d.
func (s *StoreService) Update(ctx context.Context, id int64, d dto.StoreDTO) (store *models.Store, err error) {
	ctx, span := s.tracer.Start(ctx, "store.update", tracing.StoreID(id))
	defer func() { s.tracer.End(span, err) }()

	store, err = s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	store.Name = d.Name
	if err := s.repo.Save(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to update store %d: %w", id, err)
	}

	publish(ctx, s.publisher, EventStoreUpdated, store)
	return store, nil
}

// Delete soft-deletes a store and returns it as it was before deletion.
func (s *StoreService) Delete(ctx context.Context, id int64) (store *models.Store, err error) {
	ctx, span := s.tracer.Start(ctx, "store.delete", tracing.StoreID(id))
	defer func() { s.tracer.End(span, err) }()

	store, err = s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete store %d: %w", id, err)
	}

	publish(ctx, s.publisher, EventStoreDeleted, store)
	return store, nil
}

// AddProductToStore assigns a product to a store. Assigning a product that
// is already in the store returns it without touching storage.
func (s *StoreService) AddProductToStore(ctx context.Context, storeID, productID int64) (product *models.Product, err error) {
	ctx, span := s.tracer.Start(ctx, "store.addProduct", tracing.StoreID(storeID), tracing.ProductID(productID))
	defer func() { s.tracer.End(span, err) }()

	product, err = s.resolvePair(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.products.GetProductInStore(ctx, productID, storeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// A concurrent add of the same pair is absorbed by the repository.
	if err := s.repo.AddProduct(ctx, storeID, productID); err != nil {
		return nil, fmt.Errorf("failed to add product %d to store %d: %w", productID, storeID, err)
	}

	publish(ctx, s.publisher, EventProductAttached, StoreProductEvent{StoreID: storeID, ProductID: productID})
	return product, nil
}

// DeleteProductFromStore unassigns a product from a store. It fails with
// ErrInvalidOperation when the product is not in the store.
func (s *StoreService) DeleteProductFromStore(ctx context.Context, storeID, productID int64) (product *models.Product, err error) {
	ctx, span := s.tracer.Start(ctx, "store.removeProduct", tracing.StoreID(storeID), tracing.ProductID(productID))
	defer func() { s.tracer.End(span, err) }()

	product, err = s.resolvePair(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.products.GetProductInStore(ctx, productID, storeID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, invalidOperation("product is not assigned to store")
	}

	if err := s.repo.RemoveProduct(ctx, storeID, productID); err != nil {
		return nil, fmt.Errorf("failed to remove product %d from store %d: %w", productID, storeID, err)
	}

	publish(ctx, s.publisher, EventProductDetached, StoreProductEvent{StoreID: storeID, ProductID: productID})
	return product, nil
}

func (s *StoreService) resolvePair(ctx context.Context, storeID, productID int64) (*models.Product, error) {
	if _, err := s.FindOne(ctx, storeID); err != nil {
		return nil, err
	}
	return s.products.FindOne(ctx, productID)
}

// GetAggregatedStockQuantity sums qty over the products assigned to a store.
// A store without products has a total of 0.
func (s *StoreService) GetAggregatedStockQuantity(ctx context.Context, storeID int64) (total int64, err error) {
	ctx, span := s.tracer.Start(ctx, "store.stockQuantity", tracing.StoreID(storeID))
	defer func() { s.tracer.End(span, err) }()

	if _, err := s.FindOne(ctx, storeID); err != nil {
		return 0, err
	}

	raw, err := s.repo.SumProductQty(ctx, storeID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum stock of store %d: %w", storeID, err)
	}
	return parseQuantity(raw), nil
}

// parseQuantity turns a textual SUM result into a number. Missing or
// non-numeric values count as 0.
func parseQuantity(raw *string) int64 {
	if raw == nil {
		return 0
	}
	value, err := strconv.ParseFloat(*raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return int64(value)
}
