package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant_service/internal/auth"
	"restaurant_service/internal/events"
	"restaurant_service/internal/logger"
	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"
	"restaurant_service/internal/testutil"

	"github.com/shopspring/decimal"
)

type testEnv struct {
	ctx     context.Context
	store   *repository.Store
	events  *events.Recorder
	clock   *fakeClock
	auth    AuthService
	users   UserService
	tables  TableService
	menu    MenuService
	orders  *orderService
	links   TableOrderService
	history *historyService
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewStore(testutil.NewDB(t))
	rec := &events.Recorder{}
	clock := &fakeClock{t: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}

	issuer, err := auth.NewIssuer("test-secret", "HS256", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	orders := NewOrderService(store, rec, logger.Discard()).(*orderService)
	orders.now = clock.Now
	history := NewHistoryService(store).(*historyService)
	history.now = clock.Now

	return &testEnv{
		ctx:     context.Background(),
		store:   store,
		events:  rec,
		clock:   clock,
		auth:    NewAuthService(store, issuer, nil),
		users:   NewUserService(store),
		tables:  NewTableService(store),
		menu:    NewMenuService(store),
		orders:  orders,
		links:   NewTableOrderService(store),
		history: history,
	}
}

func (e *testEnv) user(t *testing.T, login string, role models.UserRole) Actor {
	t.Helper()
	u, err := e.users.CreateUser(e.ctx, UserInput{Name: "User " + login, Login: login, Password: "secret1", Role: string(role)})
	if err != nil {
		t.Fatalf("create user %s: %v", login, err)
	}
	return Actor{UserID: u.ID, Role: role}
}

func (e *testEnv) table(t *testing.T, number int) *models.Table {
	t.Helper()
	tbl, err := e.tables.CreateTable(e.ctx, TableInput{Number: number})
	if err != nil {
		t.Fatalf("create table %d: %v", number, err)
	}
	return tbl
}

func (e *testEnv) dish(t *testing.T, name, price string) *MenuItemView {
	t.Helper()
	item, err := e.menu.CreateMenuItem(e.ctx, MenuItemInput{Name: name, Price: decimal.RequireFromString(price)})
	if err != nil {
		t.Fatalf("create dish %s: %v", name, err)
	}
	return item
}

func (e *testEnv) tableStatus(t *testing.T, id uint) models.TableStatus {
	t.Helper()
	tbl, err := e.tables.GetTable(e.ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	return tbl.Status
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v, want %v", err, kind)
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func uintPtr(v uint) *uint { return &v }

var errTest = errors.New("broker unavailable")
