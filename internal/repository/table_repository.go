package repository

import (
	"restaurant_service/internal/models"

	"gorm.io/gorm"
)

type TableFilter struct {
	Status      *models.TableStatus
	IsAvailable *bool
}

type TableRepository interface {
	Create(table *models.Table) error
	GetByID(id uint) (*models.Table, error)
	GetByIDs(ids []uint) ([]models.Table, error)
	List(filter TableFilter) ([]models.Table, error)
	NumberTaken(number int, excludeID uint) (bool, error)
	Update(table *models.Table) error
	Delete(id uint) error
	// Occupy flips free tables to occupied and reports how many rows it
	// changed. Tables that are not free are left alone.
	Occupy(ids []uint) (int64, error)
	Release(ids []uint) error
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(table *models.Table) error {
	return r.db.Create(table).Error
}

func (r *tableRepository) GetByID(id uint) (*models.Table, error) {
	var table models.Table
	err := r.db.First(&table, id).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepository) GetByIDs(ids []uint) ([]models.Table, error) {
	var tables []models.Table
	if len(ids) == 0 {
		return tables, nil
	}
	err := r.db.Where("id IN ?", ids).Order("number").Find(&tables).Error
	return tables, err
}

func (r *tableRepository) List(filter TableFilter) ([]models.Table, error) {
	var tables []models.Table
	q := r.db.Model(&models.Table{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.IsAvailable != nil {
		q = q.Where("is_available = ?", *filter.IsAvailable)
	}
	err := q.Order("number").Find(&tables).Error
	return tables, err
}

func (r *tableRepository) NumberTaken(number int, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Table{}).Where("number = ? AND id <> ?", number, excludeID).Count(&count).Error
	return count > 0, err
}

func (r *tableRepository) Update(table *models.Table) error {
	return r.db.Save(table).Error
}

func (r *tableRepository) Delete(id uint) error {
	return r.db.Delete(&models.Table{}, id).Error
}

func (r *tableRepository) Occupy(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.Model(&models.Table{}).
		Where("id IN ? AND status = ?", ids, models.TableFree).
		Update("status", models.TableOccupied)
	return res.RowsAffected, res.Error
}

func (r *tableRepository) Release(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Table{}).Where("id IN ?", ids).Update("status", models.TableFree).Error
}
