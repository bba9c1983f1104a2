package services

import (
	"context"

	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"
)

type TableInput struct {
	Number      int
	PosX        float64
	PosY        float64
	Status      string
	IsAvailable *bool
}

type TableUpdate struct {
	Number      *int
	PosX        *float64
	PosY        *float64
	Status      *string
	IsAvailable *bool
}

type TableService interface {
	CreateTable(ctx context.Context, in TableInput) (*models.Table, error)
	GetTable(ctx context.Context, id uint) (*models.Table, error)
	ListTables(ctx context.Context, filter repository.TableFilter) ([]models.Table, error)
	ListTablesByStatus(ctx context.Context, status string) ([]models.Table, error)
	UpdateTable(ctx context.Context, id uint, in TableUpdate) (*models.Table, error)
	ReplaceTable(ctx context.Context, id uint, in TableInput) (*models.Table, error)
	DeleteTable(ctx context.Context, id uint) error
}

type tableService struct {
	store *repository.Store
}

func NewTableService(store *repository.Store) TableService {
	return &tableService{store: store}
}

func parseTableStatus(s string) (models.TableStatus, error) {
	if s == "" {
		return models.TableFree, nil
	}
	st, ok := models.ParseTableStatus(s)
	if !ok {
		return "", invalid("Unknown table status %q", s)
	}
	return st, nil
}

func (s *tableService) CreateTable(ctx context.Context, in TableInput) (*models.Table, error) {
	status, err := parseTableStatus(in.Status)
	if err != nil {
		return nil, err
	}
	table := &models.Table{
		Number:      in.Number,
		PosX:        in.PosX,
		PosY:        in.PosY,
		Status:      status,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := checkTableNumber(tx, table.Number, 0); err != nil {
			return err
		}
		return storage(tx.Tables.Create(table), "create table")
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

func checkTableNumber(tx *repository.Store, number int, excludeID uint) error {
	taken, err := tx.Tables.NumberTaken(number, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return conflict("Table with number %d already exists", number)
	}
	return nil
}

func (s *tableService) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	table, err := s.store.WithContext(ctx).Tables.GetByID(id)
	if err != nil {
		return nil, lookup(err, "Table", id)
	}
	return table, nil
}

func (s *tableService) ListTables(ctx context.Context, filter repository.TableFilter) ([]models.Table, error) {
	return s.store.WithContext(ctx).Tables.List(filter)
}

func (s *tableService) ListTablesByStatus(ctx context.Context, status string) ([]models.Table, error) {
	st, ok := models.ParseTableStatus(status)
	if !ok {
		return nil, invalid("Unknown table status %q", status)
	}
	return s.ListTables(ctx, repository.TableFilter{Status: &st})
}

func (s *tableService) UpdateTable(ctx context.Context, id uint, in TableUpdate) (*models.Table, error) {
	var table *models.Table
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		table, err = tx.Tables.GetByID(id)
		if err != nil {
			return lookup(err, "Table", id)
		}
		if in.Number != nil && *in.Number != table.Number {
			if err := checkTableNumber(tx, *in.Number, id); err != nil {
				return err
			}
			table.Number = *in.Number
		}
		if in.PosX != nil {
			table.PosX = *in.PosX
		}
		if in.PosY != nil {
			table.PosY = *in.PosY
		}
		if in.Status != nil {
			st, ok := models.ParseTableStatus(*in.Status)
			if !ok {
				return invalid("Unknown table status %q", *in.Status)
			}
			table.Status = st
		}
		if in.IsAvailable != nil {
			table.IsAvailable = *in.IsAvailable
		}
		return storage(tx.Tables.Update(table), "update table")
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (s *tableService) ReplaceTable(ctx context.Context, id uint, in TableInput) (*models.Table, error) {
	status, ok := models.ParseTableStatus(in.Status)
	if !ok {
		return nil, invalid("Unknown table status %q", in.Status)
	}
	return s.UpdateTable(ctx, id, TableUpdate{
		Number:      &in.Number,
		PosX:        &in.PosX,
		PosY:        &in.PosY,
		Status:      (*string)(&status),
		IsAvailable: in.IsAvailable,
	})
}

// DeleteTable refuses while an open order sits at the table. Links to
// finished orders go with it.
func (s *tableService) DeleteTable(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Tables.GetByID(id); err != nil {
			return lookup(err, "Table", id)
		}
		busy, err := tx.TableLinks.HasOpenOrder(id)
		if err != nil {
			return err
		}
		if busy {
			return conflict("Table %d is assigned to an open order", id)
		}
		if err := tx.TableLinks.DeleteByTableID(id); err != nil {
			return storage(err, "delete table links")
		}
		return storage(tx.Tables.Delete(id), "delete table")
	})
}
