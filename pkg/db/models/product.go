package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one catalog record. Sizes and colors are stored as JSON
// arrays so the model works on both postgres and sqlite.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Barcode   string          `gorm:"column:barcode;uniqueIndex;not null" json:"barcode"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	Design    string          `gorm:"column:design;not null" json:"design"`
	Sizes     []string        `gorm:"column:sizes;serializer:json" json:"sizes"`
	Colors    []string        `gorm:"column:colors;serializer:json" json:"colors"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Date      time.Time       `gorm:"column:date;autoCreateTime" json:"date"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
