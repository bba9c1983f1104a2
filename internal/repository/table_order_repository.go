package repository

import (
	"restaurant_service/internal/models"

	"gorm.io/gorm"
)

type TableForOrderRepository interface {
	Create(link *models.TableForOrder) error
	GetByID(id uint) (*models.TableForOrder, error)
	List(orderID, tableID *uint) ([]models.TableForOrder, error)
	GetByOrderID(orderID uint) ([]models.TableForOrder, error)
	GetByOrderIDs(orderIDs []uint) ([]models.TableForOrder, error)
	Exists(orderID, tableID uint) (bool, error)
	// HasOpenOrder reports whether the table is linked to an order that is
	// neither completed nor cancelled.
	HasOpenOrder(tableID uint) (bool, error)
	Update(link *models.TableForOrder) error
	Delete(id uint) error
	DeleteByOrderID(orderID uint) error
	DeleteByTableID(tableID uint) error
}

type tableForOrderRepository struct {
	db *gorm.DB
}

func NewTableForOrderRepository(db *gorm.DB) TableForOrderRepository {
	return &tableForOrderRepository{db: db}
}

func (r *tableForOrderRepository) Create(link *models.TableForOrder) error {
	return r.db.Create(link).Error
}

func (r *tableForOrderRepository) GetByID(id uint) (*models.TableForOrder, error) {
	var link models.TableForOrder
	err := r.db.First(&link, id).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *tableForOrderRepository) List(orderID, tableID *uint) ([]models.TableForOrder, error) {
	var links []models.TableForOrder
	q := r.db.Model(&models.TableForOrder{})
	if orderID != nil {
		q = q.Where("order_id = ?", *orderID)
	}
	if tableID != nil {
		q = q.Where("table_id = ?", *tableID)
	}
	err := q.Order("id").Find(&links).Error
	return links, err
}

func (r *tableForOrderRepository) GetByOrderID(orderID uint) ([]models.TableForOrder, error) {
	return r.List(&orderID, nil)
}

func (r *tableForOrderRepository) GetByOrderIDs(orderIDs []uint) ([]models.TableForOrder, error) {
	var links []models.TableForOrder
	if len(orderIDs) == 0 {
		return links, nil
	}
	err := r.db.Where("order_id IN ?", orderIDs).Order("id").Find(&links).Error
	return links, err
}

func (r *tableForOrderRepository) Exists(orderID, tableID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.TableForOrder{}).Where("order_id = ? AND table_id = ?", orderID, tableID).Count(&count).Error
	return count > 0, err
}

func (r *tableForOrderRepository) HasOpenOrder(tableID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.TableForOrder{}).
		Joins("JOIN orders ON orders.id = tables_for_order.order_id").
		Where("tables_for_order.table_id = ?", tableID).
		Where("orders.status NOT IN ?", []string{string(models.OrderCompleted), string(models.OrderCancelled)}).
		Count(&count).Error
	return count > 0, err
}

func (r *tableForOrderRepository) Update(link *models.TableForOrder) error {
	return r.db.Save(link).Error
}

func (r *tableForOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.TableForOrder{}, id).Error
}

func (r *tableForOrderRepository) DeleteByOrderID(orderID uint) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.TableForOrder{}).Error
}

func (r *tableForOrderRepository) DeleteByTableID(tableID uint) error {
	return r.db.Where("table_id = ?", tableID).Delete(&models.TableForOrder{}).Error
}
