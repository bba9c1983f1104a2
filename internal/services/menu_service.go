package services

import (
	"context"
	"strings"

	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"

	"github.com/shopspring/decimal"
)

// MenuItemView is a menu item with its category name resolved at read
// time.
type MenuItemView struct {
	models.MenuItem
	CategoryName *string `json:"category_name"`
}

type MenuItemInput struct {
	Name        string
	Description string
	Photo       string
	Price       decimal.Decimal
	CategoryID  *uint
	IsAvailable *bool
}

type MenuItemUpdate struct {
	Name        *string
	Description *string
	Photo       *string
	Price       *decimal.Decimal
	CategoryID  *uint
	IsAvailable *bool
}

type MenuService interface {
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	RenameCategory(ctx context.Context, id uint, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	CreateMenuItem(ctx context.Context, in MenuItemInput) (*MenuItemView, error)
	GetMenuItem(ctx context.Context, id uint) (*MenuItemView, error)
	ListMenuItems(ctx context.Context, filter repository.MenuFilter) ([]MenuItemView, error)
	UpdateMenuItem(ctx context.Context, id uint, in MenuItemUpdate) (*MenuItemView, error)
	DeleteMenuItem(ctx context.Context, id uint) error
}

type menuService struct {
	store *repository.Store
}

func NewMenuService(store *repository.Store) MenuService {
	return &menuService{store: store}
}

func (s *menuService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Category name must not be empty")
	}
	category := &models.Category{Name: name}
	if err := s.store.WithContext(ctx).Categories.Create(category); err != nil {
		return nil, storage(err, "create category")
	}
	return category, nil
}

func (s *menuService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.store.WithContext(ctx).Categories.GetByID(id)
	if err != nil {
		return nil, lookup(err, "Category", id)
	}
	return category, nil
}

func (s *menuService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.WithContext(ctx).Categories.GetAll()
}

func (s *menuService) RenameCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Category name must not be empty")
	}
	var category *models.Category
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		category, err = tx.Categories.GetByID(id)
		if err != nil {
			return lookup(err, "Category", id)
		}
		category.Name = name
		return storage(tx.Categories.Update(category), "update category")
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory leaves the category's dishes on the menu without a
// category.
func (s *menuService) DeleteCategory(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Categories.GetByID(id); err != nil {
			return lookup(err, "Category", id)
		}
		if err := tx.Menu.DetachCategory(id); err != nil {
			return storage(err, "detach menu items")
		}
		return storage(tx.Categories.Delete(id), "delete category")
	})
}

func checkCategory(tx *repository.Store, id *uint) error {
	if id == nil {
		return nil
	}
	_, err := tx.Categories.GetByID(*id)
	return lookup(err, "Category", *id)
}

func checkPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return invalid("Price must not be negative")
	}
	return nil
}

func (s *menuService) CreateMenuItem(ctx context.Context, in MenuItemInput) (*MenuItemView, error) {
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Photo:       in.Photo,
		Price:       in.Price.Round(2),
		CategoryID:  in.CategoryID,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
	}

	var view *MenuItemView
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := checkCategory(tx, item.CategoryID); err != nil {
			return err
		}
		if err := tx.Menu.Create(item); err != nil {
			return storage(err, "create menu item")
		}
		views, err := menuViews(tx, []models.MenuItem{*item})
		if err != nil {
			return err
		}
		view = &views[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *menuService) GetMenuItem(ctx context.Context, id uint) (*MenuItemView, error) {
	store := s.store.WithContext(ctx)
	item, err := store.Menu.GetByID(id)
	if err != nil {
		return nil, lookup(err, "Menu item", id)
	}
	views, err := menuViews(store, []models.MenuItem{*item})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *menuService) ListMenuItems(ctx context.Context, filter repository.MenuFilter) ([]MenuItemView, error) {
	store := s.store.WithContext(ctx)
	items, err := store.Menu.List(filter)
	if err != nil {
		return nil, err
	}
	return menuViews(store, items)
}

func (s *menuService) UpdateMenuItem(ctx context.Context, id uint, in MenuItemUpdate) (*MenuItemView, error) {
	var view *MenuItemView
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		item, err := tx.Menu.GetByID(id)
		if err != nil {
			return lookup(err, "Menu item", id)
		}
		if in.Name != nil {
			item.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.Photo != nil {
			item.Photo = *in.Photo
		}
		if in.Price != nil {
			if err := checkPrice(*in.Price); err != nil {
				return err
			}
			item.Price = in.Price.Round(2)
		}
		if in.CategoryID != nil {
			if err := checkCategory(tx, in.CategoryID); err != nil {
				return err
			}
			item.CategoryID = in.CategoryID
		}
		if in.IsAvailable != nil {
			item.IsAvailable = *in.IsAvailable
		}
		if err := tx.Menu.Update(item); err != nil {
			return storage(err, "update menu item")
		}
		views, err := menuViews(tx, []models.MenuItem{*item})
		if err != nil {
			return err
		}
		view = &views[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// DeleteMenuItem refuses while any order line still points at the dish.
func (s *menuService) DeleteMenuItem(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Menu.GetByID(id); err != nil {
			return lookup(err, "Menu item", id)
		}
		used, err := tx.Plates.CountByMenuItem(id)
		if err != nil {
			return err
		}
		if used > 0 {
			return conflict("Menu item %d is used in %d order lines", id, used)
		}
		return storage(tx.Menu.Delete(id), "delete menu item")
	})
}

func menuViews(store *repository.Store, items []models.MenuItem) ([]MenuItemView, error) {
	var ids []uint
	for _, item := range items {
		if item.CategoryID != nil {
			ids = append(ids, *item.CategoryID)
		}
	}
	categories, err := store.Categories.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	views := make([]MenuItemView, len(items))
	for i, item := range items {
		views[i] = MenuItemView{MenuItem: item}
		if item.CategoryID != nil {
			if name, ok := names[*item.CategoryID]; ok {
				views[i].CategoryName = &name
			}
		}
	}
	return views, nil
}
