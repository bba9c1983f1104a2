package models

import (
	"time"
)

type Order struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	WaiterID  uint        `json:"waiter" gorm:"column:waiter;not null;index"`
	Status    OrderStatus `json:"status" gorm:"size:20;not null;index"`
	TimeStart time.Time   `json:"timestart" gorm:"column:timestart;not null"`
	EndTime   *time.Time  `json:"endtime" gorm:"column:endtime"`
}

func (Order) TableName() string {
	return "orders"
}
