package repository

import (
	"restaurant_service/internal/models"

	"gorm.io/gorm"
)

type OrderFilter struct {
	Status   *models.OrderStatus
	WaiterID *uint
}

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	List(filter OrderFilter) ([]models.Order, error)
	CountByWaiter(waiterID uint) (int64, error)
	Update(order *models.Order) error
	Delete(id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.Model(&models.Order{})
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.WaiterID != nil {
		q = q.Where("waiter = ?", *filter.WaiterID)
	}
	err := q.Order("timestart DESC").Order("id DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) CountByWaiter(waiterID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("waiter = ?", waiterID).Count(&count).Error
	return count, err
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}
