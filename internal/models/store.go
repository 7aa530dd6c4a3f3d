package models

// Store represents a physical or virtual shop.
type Store struct {
	Base
	Name string `json:"name" gorm:"type:varchar(100);not null"`
}

func (Store) TableName() string {
	return "store"
}
