package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, the way clients already send them.
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null"`
}

func (Category) TableName() string {
	return "category"
}

type MenuItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Photo       string          `json:"photo" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID  *uint           `json:"category" gorm:"column:category;index"`
	IsAvailable bool            `json:"is_available" gorm:"not null"`
}

func (MenuItem) TableName() string {
	return "menu"
}
