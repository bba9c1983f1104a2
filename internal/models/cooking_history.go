package models

import (
	"time"
)

// CookingStatusHistory is one ledger entry: a plate moved to NewStatus at
// ChangeTime. PlateID is the dish (menu item); OrderPlateID is the order
// line the change was made on, when known.
type CookingStatusHistory struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ChangeTime   time.Time `json:"change_time" gorm:"not null;index"`
	NewStatus    string    `json:"new_status" gorm:"size:100;not null"`
	OrderID      *uint     `json:"order_id" gorm:"index"`
	PlateID      uint      `json:"plate_id" gorm:"not null;index"`
	OrderPlateID *uint     `json:"order_plate_id" gorm:"index"`
	ChangeBy     *uint     `json:"change_by" gorm:"index"`
}

func (CookingStatusHistory) TableName() string {
	return "cooking_status_history"
}
