package services

import (
	"testing"
	"time"

	"restaurant_service/internal/models"
)

func TestLatestForPlate_ByChangeTimeNotInsertion(t *testing.T) {
	env := newTestEnv(t)
	dish := env.dish(t, "Soup", "3")
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	// inserted out of time order
	for _, e := range []struct {
		offset time.Duration
		status string
	}{
		{2 * time.Hour, "ready"},
		{0, "waiting"},
		{3 * time.Hour, "served"},
		{time.Hour, "preparing"},
	} {
		entry := &models.CookingStatusHistory{ChangeTime: base.Add(e.offset), NewStatus: e.status, PlateID: dish.ID}
		if err := env.store.History.Create(entry); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := env.history.LatestForPlate(env.ctx, dish.ID)
	if err != nil {
		t.Fatal(err)
	}
	if latest.NewStatus != "served" {
		t.Errorf("latest = %s, want served", latest.NewStatus)
	}
	if latest.PlateName == nil || *latest.PlateName != "Soup" {
		t.Errorf("plate name = %v", latest.PlateName)
	}

	list, _ := env.history.List(env.ctx, HistoryQuery{PlateID: &dish.ID})
	for i := 1; i < len(list); i++ {
		if list[i].ChangeTime.After(list[i-1].ChangeTime) {
			t.Fatalf("list not newest first at %d", i)
		}
	}

	_, err = env.history.LatestForPlate(env.ctx, 999)
	assertKind(t, err, ErrNotFound)
}

func TestHistory_CreateAndFilters(t *testing.T) {
	env := newTestEnv(t)
	cook := env.user(t, "c1", models.RoleCook)
	dish := env.dish(t, "Soup", "3")
	order, _ := env.orders.CreateOrder(env.ctx, cook, OrderInput{})

	entry, err := env.history.Create(env.ctx, cook, HistoryInput{NewStatus: "ordered", PlateID: dish.ID, OrderID: &order.ID})
	if err != nil {
		t.Fatal(err)
	}
	if entry.NewStatus != "waiting" || entry.ChangeBy == nil || *entry.ChangeBy != cook.UserID {
		t.Errorf("entry = %+v", entry)
	}
	if entry.UserName == nil || *entry.UserName != "User c1" {
		t.Errorf("user name = %v", entry.UserName)
	}
	if entry.OrderNumber == nil || *entry.OrderNumber != "Order #1" {
		t.Errorf("order number = %v", entry.OrderNumber)
	}

	_, err = env.history.Create(env.ctx, cook, HistoryInput{NewStatus: "ready", PlateID: 999})
	assertKind(t, err, ErrNotFound)
	_, err = env.history.Create(env.ctx, cook, HistoryInput{NewStatus: "ready", PlateID: dish.ID, OrderID: uintPtr(999)})
	assertKind(t, err, ErrNotFound)
	_, err = env.history.Create(env.ctx, cook, HistoryInput{NewStatus: "eaten", PlateID: dish.ID})
	assertKind(t, err, ErrValidation)

	env.clock.Advance(48 * time.Hour)
	env.history.Create(env.ctx, cook, HistoryInput{NewStatus: "ready", PlateID: dish.ID})

	day := env.clock.t.Format("2006-01-02")
	got, err := env.history.List(env.ctx, HistoryQuery{StartDate: day, EndDate: day})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].NewStatus != "ready" {
		t.Errorf("entries on %s = %+v", day, got)
	}
	got, _ = env.history.List(env.ctx, HistoryQuery{NewStatus: strPtr("ordered")})
	if len(got) != 1 {
		t.Errorf("entries with status ordered = %d, want 1", len(got))
	}
	got, _ = env.history.List(env.ctx, HistoryQuery{ChangeBy: &cook.UserID})
	if len(got) != 2 {
		t.Errorf("entries by cook = %d, want 2", len(got))
	}

	_, err = env.history.List(env.ctx, HistoryQuery{StartDate: "10/05/2024"})
	assertKind(t, err, ErrValidation)
	_, err = env.history.List(env.ctx, HistoryQuery{StartDate: "2024-05-12", EndDate: "2024-05-10"})
	assertKind(t, err, ErrValidation)
}

func TestHistory_UpdateKeepsChangeTime(t *testing.T) {
	env := newTestEnv(t)
	cook := env.user(t, "c1", models.RoleCook)
	dish := env.dish(t, "Soup", "3")
	entry, _ := env.history.Create(env.ctx, cook, HistoryInput{NewStatus: "waiting", PlateID: dish.ID})

	env.clock.Advance(time.Hour)
	updated, err := env.history.Update(env.ctx, entry.ID, HistoryUpdate{NewStatus: strPtr("preparing")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.NewStatus != "preparing" || !updated.ChangeTime.Equal(entry.ChangeTime) {
		t.Errorf("updated = %+v", updated)
	}
	_, err = env.history.Update(env.ctx, entry.ID, HistoryUpdate{ChangeBy: uintPtr(999)})
	assertKind(t, err, ErrNotFound)

	if err := env.history.Delete(env.ctx, entry.ID); err != nil {
		t.Fatal(err)
	}
	_, err = env.history.Get(env.ctx, entry.ID)
	assertKind(t, err, ErrNotFound)
}
