package services

import (
	"testing"

	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"

	"github.com/shopspring/decimal"
)

func TestMenuItem_ReportsCurrentCategoryName(t *testing.T) {
	env := newTestEnv(t)
	cat, err := env.menu.CreateCategory(env.ctx, "Soups")
	if err != nil {
		t.Fatal(err)
	}
	item, err := env.menu.CreateMenuItem(env.ctx, MenuItemInput{
		Name: "Borscht", Price: decimal.RequireFromString("5.5"), CategoryID: &cat.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if item.CategoryName == nil || *item.CategoryName != "Soups" {
		t.Fatalf("category name = %v", item.CategoryName)
	}

	if _, err := env.menu.RenameCategory(env.ctx, cat.ID, "Hot soups"); err != nil {
		t.Fatal(err)
	}
	got, err := env.menu.GetMenuItem(env.ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CategoryName == nil || *got.CategoryName != "Hot soups" {
		t.Errorf("category name after rename = %v", got.CategoryName)
	}
}

func TestMenuItem_Validation(t *testing.T) {
	env := newTestEnv(t)
	missing := uint(42)

	_, err := env.menu.CreateMenuItem(env.ctx, MenuItemInput{Name: "X", Price: decimal.NewFromInt(1), CategoryID: &missing})
	assertKind(t, err, ErrNotFound)
	_, err = env.menu.CreateMenuItem(env.ctx, MenuItemInput{Name: "X", Price: decimal.NewFromInt(-1)})
	assertKind(t, err, ErrValidation)

	item := env.dish(t, "Tea", "1")
	_, err = env.menu.UpdateMenuItem(env.ctx, item.ID, MenuItemUpdate{CategoryID: &missing})
	assertKind(t, err, ErrNotFound)
	_, err = env.menu.UpdateMenuItem(env.ctx, 999, MenuItemUpdate{Name: strPtr("Y")})
	assertKind(t, err, ErrNotFound)

	off := false
	updated, err := env.menu.UpdateMenuItem(env.ctx, item.ID, MenuItemUpdate{IsAvailable: &off, Name: strPtr("Green tea")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.IsAvailable || updated.Name != "Green tea" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestMenu_ListFiltersAndDeletes(t *testing.T) {
	env := newTestEnv(t)
	drinks, _ := env.menu.CreateCategory(env.ctx, "Drinks")
	off := false
	env.menu.CreateMenuItem(env.ctx, MenuItemInput{Name: "Water", Price: decimal.NewFromInt(1), CategoryID: &drinks.ID})
	env.menu.CreateMenuItem(env.ctx, MenuItemInput{Name: "Juice", Price: decimal.NewFromInt(2), CategoryID: &drinks.ID, IsAvailable: &off})
	env.menu.CreateMenuItem(env.ctx, MenuItemInput{Name: "Bread", Price: decimal.NewFromInt(1)})

	all, _ := env.menu.ListMenuItems(env.ctx, repository.MenuFilter{})
	if len(all) != 3 || all[0].Name != "Bread" || all[2].Name != "Water" {
		t.Errorf("menu not ordered by name: %+v", all)
	}
	inDrinks, _ := env.menu.ListMenuItems(env.ctx, repository.MenuFilter{CategoryID: &drinks.ID})
	if len(inDrinks) != 2 {
		t.Errorf("drinks = %d, want 2", len(inDrinks))
	}
	on := true
	available, _ := env.menu.ListMenuItems(env.ctx, repository.MenuFilter{CategoryID: &drinks.ID, IsAvailable: &on})
	if len(available) != 1 || available[0].Name != "Water" {
		t.Errorf("available drinks = %+v", available)
	}

	if err := env.menu.DeleteCategory(env.ctx, drinks.ID); err != nil {
		t.Fatal(err)
	}
	all, _ = env.menu.ListMenuItems(env.ctx, repository.MenuFilter{})
	for _, item := range all {
		if item.CategoryID != nil || item.CategoryName != nil {
			t.Errorf("%s still in a deleted category", item.Name)
		}
	}
}

func TestDeleteMenuItem_InUse(t *testing.T) {
	env := newTestEnv(t)
	waiter := env.user(t, "w1", models.RoleWaiter)
	dish := env.dish(t, "Tea", "1")
	if _, err := env.orders.CreateOrder(env.ctx, waiter, OrderInput{Plates: []PlateInput{{MenuItemID: dish.ID}}}); err != nil {
		t.Fatal(err)
	}
	assertKind(t, env.menu.DeleteMenuItem(env.ctx, dish.ID), ErrConflict)
}

func TestTables(t *testing.T) {
	env := newTestEnv(t)
	t7 := env.table(t, 7)
	env.table(t, 2)

	_, err := env.tables.CreateTable(env.ctx, TableInput{Number: 7})
	assertKind(t, err, ErrConflict)
	_, err = env.tables.CreateTable(env.ctx, TableInput{Number: 8, Status: "broken"})
	assertKind(t, err, ErrValidation)

	list, _ := env.tables.ListTables(env.ctx, repository.TableFilter{})
	if len(list) != 2 || list[0].Number != 2 {
		t.Errorf("tables not ordered by number: %+v", list)
	}

	_, err = env.tables.UpdateTable(env.ctx, t7.ID, TableUpdate{Number: intPtr(2)})
	assertKind(t, err, ErrConflict)
	full, err := env.tables.ReplaceTable(env.ctx, t7.ID, TableInput{Number: 17, PosX: 1.5, PosY: 2, Status: "reserved"})
	if err != nil {
		t.Fatal(err)
	}
	if full.Number != 17 || full.Status != models.TableReserved || !full.IsAvailable {
		t.Errorf("replaced table = %+v", full)
	}

	reserved, err := env.tables.ListTablesByStatus(env.ctx, "reserved")
	if err != nil || len(reserved) != 1 {
		t.Errorf("reserved tables = %+v, %v", reserved, err)
	}
	_, err = env.tables.ListTablesByStatus(env.ctx, "dirty")
	assertKind(t, err, ErrValidation)
}

func TestDeleteTable_BusyWithOpenOrder(t *testing.T) {
	env := newTestEnv(t)
	waiter := env.user(t, "w1", models.RoleWaiter)
	tbl := env.table(t, 1)
	order, _ := env.orders.CreateOrder(env.ctx, waiter, OrderInput{TableIDs: []uint{tbl.ID}})

	assertKind(t, env.tables.DeleteTable(env.ctx, tbl.ID), ErrConflict)

	if _, err := env.orders.CompleteOrder(env.ctx, order.ID); err != nil {
		t.Fatal(err)
	}
	if err := env.tables.DeleteTable(env.ctx, tbl.ID); err != nil {
		t.Fatalf("delete table after order completed: %v", err)
	}
	view, _ := env.orders.GetOrder(env.ctx, order.ID)
	if len(view.TableNumbers) != 0 {
		t.Errorf("order still shows tables %v", view.TableNumbers)
	}
}
