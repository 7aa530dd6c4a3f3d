package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"inventory/internal/dto"
	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/pkg/tracing"
)

// filterColumns maps each supported filterBy value to the column it compares.
var filterColumns = map[dto.FilterBy]string{
	dto.FilterByStoreID: repositories.ColumnStoreID,
}

// filterValues converts a raw filterValue for filters that need a typed
// operand. Filters without an entry compare against the raw string.
var filterValues = map[dto.FilterBy]func(string) (interface{}, error){
	dto.FilterByStoreID: func(raw string) (interface{}, error) {
		return strconv.ParseInt(raw, 10, 64)
	},
}

var sortColumns = map[dto.SortBy]string{
	dto.SortByID:       repositories.ColumnProductID,
	dto.SortByName:     repositories.ColumnProductName,
	dto.SortByCategory: repositories.ColumnProductCategory,
}

// StoreFinder resolves stores by id.
type StoreFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Store, error)
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	stores    StoreFinder
	publisher EventPublisher
	tracer    *tracing.Tracer
}

// NewProductService creates a new ProductService. publisher and tracer may be nil.
func NewProductService(repo repositories.ProductRepository, stores StoreFinder, publisher EventPublisher, tracer *tracing.Tracer) *ProductService {
	return &ProductService{
		repo:      repo,
		stores:    stores,
		publisher: publisher,
		tracer:    tracer,
	}
}

// FindAll returns a page of products, optionally filtered by store and sorted.
func (s *ProductService) FindAll(ctx context.Context, q dto.ProductListQuery) (page dto.PaginatedResponse[models.Product], err error) {
	ctx, span := s.tracer.Start(ctx, "product.findAll")
	defer func() { s.tracer.End(span, err) }()

	limit, offset := q.Window()
	listQuery, err := buildProductQuery(q, limit, offset)
	if err != nil {
		return page, err
	}

	products, total, err := s.repo.List(ctx, listQuery)
	if err != nil {
		return page, fmt.Errorf("failed to list products: %w", err)
	}

	return dto.PaginatedResponse[models.Product]{
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		Results: products,
	}, nil
}

func buildProductQuery(q dto.ProductListQuery, limit, offset int) (repositories.ListQuery, error) {
	listQuery := repositories.ListQuery{
		Page:    repositories.Page{Skip: offset, Take: limit},
		Join:    repositories.JoinLeft,
		OrderBy: repositories.ColumnProductID,
	}

	if q.FilterBy != "" {
		column, ok := filterColumns[q.FilterBy]
		if !ok {
			return listQuery, invalidFilter("invalid product filterBy %q", q.FilterBy)
		}
		if q.FilterValue != "" {
			var value interface{} = q.FilterValue
			if convert, ok := filterValues[q.FilterBy]; ok {
				converted, err := convert(q.FilterValue)
				if err != nil {
					return listQuery, invalidFilter("invalid filterValue %q for %s", q.FilterValue, q.FilterBy)
				}
				value = converted
			}
			listQuery.Filters = append(listQuery.Filters, repositories.Filter{Column: column, Value: value})
			if column == repositories.ColumnStoreID {
				listQuery.Join = repositories.JoinInner
			}
		}
	}

	if q.SortBy != "" {
		column, ok := sortColumns[q.SortBy]
		if !ok {
			return listQuery, invalidFilter("invalid product sortBy %q", q.SortBy)
		}
		listQuery.OrderBy = column
	}

	switch dto.SortDirection(strings.ToUpper(string(q.SortDirection))) {
	case "", dto.SortAsc:
	case dto.SortDesc:
		listQuery.Desc = true
	default:
		return listQuery, invalidFilter("invalid sortDirection %q", q.SortDirection)
	}

	return listQuery, nil
}

// FindOne returns a product or an ErrNotFound error.
func (s *ProductService) FindOne(ctx context.Context, id int64) (product *models.Product, err error) {
	ctx, span := s.tracer.Start(ctx, "product.findOne", tracing.ProductID(id))
	defer func() { s.tracer.End(span, err) }()

	product, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}
	if product == nil {
		return nil, notFound("product", id)
	}
	return product, nil
}

// Create persists a new product.
func (s *ProductService) Create(ctx context.Context, d dto.CreateProductDTO) (product *models.Product, err error) {
	ctx, span := s.tracer.Start(ctx, "product.create")
	defer func() { s.tracer.End(span, err) }()

	product = &models.Product{
		Name:     d.Name,
		Category: d.Category,
		Price:    d.Price,
		Qty:      d.Qty,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	publish(ctx, s.publisher, EventProductCreated, product)
	return product, nil
}

// Update merges the non-zero fields of d into the product. Empty strings,
// a nil or zero price and a zero qty leave the stored value untouched.
func (s *ProductService) Update(ctx context.Context, id int64, d dto.UpdateProductDTO) (product *models.Product, err error) {
	ctx, span := s.tracer.Start(ctx, "product.update", tracing.ProductID(id))
	defer func() { s.tracer.End(span, err) }()

	product, err = s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.Name != "" {
		product.Name = d.Name
	}
	if d.Category != "" {
		product.Category = d.Category
	}
	if d.Price != nil && !d.Price.IsZero() {
		product.Price = *d.Price
	}
	if d.Qty != 0 {
		product.Qty = d.Qty
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	publish(ctx, s.publisher, EventProductUpdated, product)
	return product, nil
}

// Delete soft-deletes a product and returns it as it was before deletion.
func (s *ProductService) Delete(ctx context.Context, id int64) (product *models.Product, err error) {
	ctx, span := s.tracer.Start(ctx, "product.delete", tracing.ProductID(id))
	defer func() { s.tracer.End(span, err) }()

	product, err = s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	publish(ctx, s.publisher, EventProductDeleted, product)
	return product, nil
}

// GetProductInStore returns the product if it is assigned to the store and
// nil otherwise. Absence is not an error.
func (s *ProductService) GetProductInStore(ctx context.Context, productID, storeID int64) (product *models.Product, err error) {
	ctx, span := s.tracer.Start(ctx, "product.getInStore", tracing.ProductID(productID), tracing.StoreID(storeID))
	defer func() { s.tracer.End(span, err) }()

	product, err = s.repo.FindInStore(ctx, productID, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product %d in store %d: %w", productID, storeID, err)
	}
	return product, nil
}

// FindProductsNotInStore pages through the products that could still be
// assigned to the store.
func (s *ProductService) FindProductsNotInStore(ctx context.Context, storeID int64, q dto.PaginatedQuery) (page dto.PaginatedResponse[models.Product], err error) {
	ctx, span := s.tracer.Start(ctx, "product.findNotInStore", tracing.StoreID(storeID))
	defer func() { s.tracer.End(span, err) }()

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return page, fmt.Errorf("failed to find store %d: %w", storeID, err)
	}
	if store == nil {
		return page, notFound("store", storeID)
	}

	limit, offset := q.Window()
	products, total, err := s.repo.ListNotInStore(ctx, storeID, repositories.Page{Skip: offset, Take: limit})
	if err != nil {
		return page, fmt.Errorf("failed to list products outside store %d: %w", storeID, err)
	}

	return dto.PaginatedResponse[models.Product]{
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		Results: products,
	}, nil
}
