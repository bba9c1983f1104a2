package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one *gorm.DB, so a service can
// run several of them inside a single transaction.
type Store struct {
	db         *gorm.DB
	Users      UserRepository
	Tables     TableRepository
	Categories CategoryRepository
	Menu       MenuRepository
	Orders     OrderRepository
	Plates     PlateRepository
	TableLinks TableForOrderRepository
	History    HistoryRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Tables:     NewTableRepository(db),
		Categories: NewCategoryRepository(db),
		Menu:       NewMenuRepository(db),
		Orders:     NewOrderRepository(db),
		Plates:     NewPlateRepository(db),
		TableLinks: NewTableForOrderRepository(db),
		History:    NewHistoryRepository(db),
	}
}

// WithContext returns a store whose queries are bound to ctx.
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx))
}

// Transaction runs fn against a store backed by one transaction. Returning
// an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) DB() *gorm.DB {
	return s.db
}
