package models

import "github.com/shopspring/decimal"

func init() {
	// The admin UI treats price as a JSON number.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents an item that can be stocked by any number of stores.
type Product struct {
	Base
	Name     string          `json:"name" gorm:"type:varchar(100);not null"`
	Category string          `json:"category" gorm:"type:varchar(100);not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Qty      int             `json:"qty" gorm:"not null"`
}

// TableName keeps the singular table name used by the inventory schema.
func (Product) TableName() string {
	return "product"
}
