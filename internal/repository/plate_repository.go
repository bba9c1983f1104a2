package repository

import (
	"restaurant_service/internal/models"

	"gorm.io/gorm"
)

type PlateRepository interface {
	Create(plate *models.Plate) error
	GetByID(id uint) (*models.Plate, error)
	GetByOrderID(orderID uint) ([]models.Plate, error)
	GetByOrderIDs(orderIDs []uint) ([]models.Plate, error)
	CountByMenuItem(menuItemID uint) (int64, error)
	Update(plate *models.Plate) error
	Delete(id uint) error
	DeleteByOrderID(orderID uint) error
}

type plateRepository struct {
	db *gorm.DB
}

func NewPlateRepository(db *gorm.DB) PlateRepository {
	return &plateRepository{db: db}
}

func (r *plateRepository) Create(plate *models.Plate) error {
	return r.db.Create(plate).Error
}

func (r *plateRepository) GetByID(id uint) (*models.Plate, error) {
	var plate models.Plate
	err := r.db.First(&plate, id).Error
	if err != nil {
		return nil, err
	}
	return &plate, nil
}

func (r *plateRepository) GetByOrderID(orderID uint) ([]models.Plate, error) {
	var plates []models.Plate
	err := r.db.Where("order_id = ?", orderID).Order("id").Find(&plates).Error
	return plates, err
}

func (r *plateRepository) GetByOrderIDs(orderIDs []uint) ([]models.Plate, error) {
	var plates []models.Plate
	if len(orderIDs) == 0 {
		return plates, nil
	}
	err := r.db.Where("order_id IN ?", orderIDs).Order("id").Find(&plates).Error
	return plates, err
}

func (r *plateRepository) CountByMenuItem(menuItemID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Plate{}).Where("plate_id = ?", menuItemID).Count(&count).Error
	return count, err
}

func (r *plateRepository) Update(plate *models.Plate) error {
	return r.db.Save(plate).Error
}

func (r *plateRepository) Delete(id uint) error {
	return r.db.Delete(&models.Plate{}, id).Error
}

func (r *plateRepository) DeleteByOrderID(orderID uint) error {
	return r.db.Where("order_id = ?", orderID).Delete(&models.Plate{}).Error
}
