package dto

import "github.com/shopspring/decimal"

// CreateProductDTO is the body of POST /products.
type CreateProductDTO struct {
	Name     string          `json:"name" validate:"required,max=100,name"`
	Category string          `json:"category" validate:"required,max=100,name"`
	Price    decimal.Decimal `json:"price" validate:"required,dgte=0.01"`
	Qty      int             `json:"qty" validate:"gte=0"`
}

// Validate checks the field constraints of a new product.
func (d CreateProductDTO) Validate() ValidationResult {
	return validateStruct(d)
}

// UpdateProductDTO is the body of PUT /products/:id. Zero values mean
// "leave unchanged"; see services.ProductService.Update.
type UpdateProductDTO struct {
	Name     string           `json:"name" validate:"omitempty,max=100,name"`
	Category string           `json:"category" validate:"omitempty,max=100,name"`
	Price    *decimal.Decimal `json:"price" validate:"omitempty,dgte=0.01"`
	Qty      int              `json:"qty" validate:"gte=0"`
}

// Validate checks the fields that are present in the update.
func (d UpdateProductDTO) Validate() ValidationResult {
	return validateStruct(d)
}

// FilterBy names a supported product list filter.
type FilterBy string

const (
	FilterByStoreID FilterBy = "StoreId"
)

// SortBy names a sortable product column.
type SortBy string

const (
	SortByID       SortBy = "ID"
	SortByName     SortBy = "Name"
	SortByCategory SortBy = "Category"
)

// SortDirection is ASC or DESC.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ProductListQuery carries the query string of GET /products.
type ProductListQuery struct {
	PaginatedQuery
	FilterBy      FilterBy      `query:"filterBy"`
	FilterValue   string        `query:"filterValue"`
	SortBy        SortBy        `query:"sortBy" validate:"omitempty,oneof=ID Name Category"`
	SortDirection SortDirection `query:"sortDirection" validate:"omitempty,oneof=ASC DESC asc desc Asc Desc"`
}

// Validate checks paging and sort parameters. filterBy is checked by the
// product service against its column mapping.
func (q ProductListQuery) Validate() ValidationResult {
	return validateStruct(q)
}
