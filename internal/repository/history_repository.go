package repository

import (
	"time"

	"restaurant_service/internal/models"

	"gorm.io/gorm"
)

type HistoryFilter struct {
	From      *time.Time
	To        *time.Time
	PlateID   *uint
	OrderID   *uint
	ChangeBy  *uint
	NewStatus *string
}

type HistoryRepository interface {
	Create(entry *models.CookingStatusHistory) error
	GetByID(id uint) (*models.CookingStatusHistory, error)
	// List returns entries newest first.
	List(filter HistoryFilter) ([]models.CookingStatusHistory, error)
	LatestForPlate(plateID uint) (*models.CookingStatusHistory, error)
	Update(entry *models.CookingStatusHistory) error
	Delete(id uint) error
	DeleteByOrderID(orderID uint) error
	DeleteByOrderPlateID(orderPlateID uint) error
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(entry *models.CookingStatusHistory) error {
	return r.db.Create(entry).Error
}

func (r *historyRepository) GetByID(id uint) (*models.CookingStatusHistory, error) {
	var entry models.CookingStatusHistory
	err := r.db.First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *historyRepository) List(filter HistoryFilter) ([]models.CookingStatusHistory, error) {
	var entries []models.CookingStatusHistory
	q := r.db.Model(&models.CookingStatusHistory{})
	if filter.From != nil {
		q = q.Where("change_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("change_time < ?", *filter.To)
	}
	if filter.PlateID != nil {
		q = q.Where("plate_id = ?", *filter.PlateID)
	}
	if filter.OrderID != nil {
		q = q.Where("order_id = ?", *filter.OrderID)
	}
	if filter.ChangeBy != nil {
		q = q.Where("change_by = ?", *filter.ChangeBy)
	}
	if filter.NewStatus != nil {
		q = q.Where("new_status = ?", *filter.NewStatus)
	}
	err := q.Order("change_time DESC").Order("id DESC").Find(&entries).Error
	return entries, err
}

func (r *historyRepository) LatestForPlate(plateID uint) (*models.CookingStatusHistory, error) {
	var entry models.CookingStatusHistory
	err := r.db.Where("plate_id = ?", plateID).
		Order("change_time DESC").Order("id DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *historyRepository) Update(entry *models.CookingStatusHistory) error {
	return r.db.Save(entry).Error
}

func (r *historyRepository) Delete(id uint) error {
	return r.db.Delete(&models.CookingStatusHistory{}, id).Error
}

func (r *historyRepository) DeleteByOrderID(orderID uint) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.CookingStatusHistory{}).Error
}

func (r *historyRepository) DeleteByOrderPlateID(orderPlateID uint) error {
	return r.db.Where("order_plate_id = ?", orderPlateID).Delete(&models.CookingStatusHistory{}).Error
}
