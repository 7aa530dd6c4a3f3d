package models

// StoreProduct is one row of the store <-> product association. The pair is the
// primary key, so a product can be linked to a given store at most once.
// Rows are removed when either side is deleted.
type StoreProduct struct {
	StoreID   int64    `json:"storeId" gorm:"primaryKey;autoIncrement:false;index"`
	ProductID int64    `json:"productId" gorm:"primaryKey;autoIncrement:false;index"`
	Store     *Store   `json:"-" gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Product   *Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (StoreProduct) TableName() string {
	return "store_products"
}
