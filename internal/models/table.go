package models

type Table struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Number      int         `json:"number" gorm:"uniqueIndex;not null"`
	PosX        float64     `json:"pos_x" gorm:"not null"`
	PosY        float64     `json:"pos_y" gorm:"not null"`
	Status      TableStatus `json:"status" gorm:"size:20;not null"`
	IsAvailable bool        `json:"is_available" gorm:"not null"`
}

func (Table) TableName() string {
	return "tables"
}

// TableForOrder links an order to one of the physical tables it occupies.
type TableForOrder struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	OrderID uint `json:"order" gorm:"not null;uniqueIndex:idx_tables_for_order_pair"`
	TableID uint `json:"table" gorm:"not null;uniqueIndex:idx_tables_for_order_pair;index"`
}

func (TableForOrder) TableName() string {
	return "tables_for_order"
}
