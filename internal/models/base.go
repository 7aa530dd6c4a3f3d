package models

import (
	"time"

	"gorm.io/gorm"
)

// Base holds the identity and audit columns shared by every inventory table.
type Base struct {
	ID        int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}
