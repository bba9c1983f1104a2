package models

import (
	"github.com/shopspring/decimal"
)

// Plate is one line of an order: a dish, how many, and the price agreed
// when it was ordered.
type Plate struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	OrderID       uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID    uint            `json:"plate_id" gorm:"column:plate_id;not null;index"`
	Count         int             `json:"count" gorm:"not null"`
	Comment       string          `json:"comment" gorm:"type:text"`
	CookingStatus CookingStatus   `json:"cooking_status" gorm:"size:20;not null"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

func (Plate) TableName() string {
	return "plates_for_order"
}

func (p *Plate) Total() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Count)))
}
