package services

import (
	"testing"

	"restaurant_service/internal/models"
)

func TestTableLinks(t *testing.T) {
	env := newTestEnv(t)
	waiter := env.user(t, "w1", models.RoleWaiter)
	t1, t2, t3 := env.table(t, 1), env.table(t, 2), env.table(t, 3)
	order, _ := env.orders.CreateOrder(env.ctx, waiter, OrderInput{TableIDs: []uint{t1.ID}})

	link, err := env.links.CreateLink(env.ctx, order.ID, t2.ID)
	if err != nil {
		t.Fatal(err)
	}
	if st := env.tableStatus(t, t2.ID); st != models.TableOccupied {
		t.Errorf("linked table status = %s", st)
	}
	_, err = env.links.CreateLink(env.ctx, order.ID, t2.ID)
	assertKind(t, err, ErrConflict)
	_, err = env.links.CreateLink(env.ctx, order.ID, 999)
	assertKind(t, err, ErrNotFound)
	_, err = env.links.CreateLink(env.ctx, 999, t3.ID)
	assertKind(t, err, ErrNotFound)

	moved, err := env.links.UpdateLink(env.ctx, link.ID, nil, &t3.ID)
	if err != nil {
		t.Fatal(err)
	}
	if moved.TableID != t3.ID {
		t.Errorf("link table = %d", moved.TableID)
	}
	if env.tableStatus(t, t2.ID) != models.TableFree || env.tableStatus(t, t3.ID) != models.TableOccupied {
		t.Error("occupancy did not follow the moved link")
	}
	_, err = env.links.UpdateLink(env.ctx, link.ID, nil, &t1.ID)
	assertKind(t, err, ErrConflict)

	byOrder, _ := env.links.ListLinks(env.ctx, &order.ID, nil)
	if len(byOrder) != 2 {
		t.Errorf("links for order = %d, want 2", len(byOrder))
	}
	byTable, _ := env.links.ListLinks(env.ctx, nil, &t3.ID)
	if len(byTable) != 1 || byTable[0].ID != link.ID {
		t.Errorf("links for table = %+v", byTable)
	}

	if err := env.links.DeleteLink(env.ctx, link.ID); err != nil {
		t.Fatal(err)
	}
	if st := env.tableStatus(t, t3.ID); st != models.TableFree {
		t.Errorf("table status after unlink = %s", st)
	}
	assertKind(t, env.links.DeleteLink(env.ctx, link.ID), ErrNotFound)
}

func TestUpdateLink_OrderMoveFollowsOccupancy(t *testing.T) {
	env := newTestEnv(t)
	waiter := env.user(t, "w1", models.RoleWaiter)
	t1, t2 := env.table(t, 1), env.table(t, 2)

	open, _ := env.orders.CreateOrder(env.ctx, waiter, OrderInput{})
	done, _ := env.orders.CreateOrder(env.ctx, waiter, OrderInput{TableIDs: []uint{t2.ID}})
	if _, err := env.orders.CompleteOrder(env.ctx, done.ID); err != nil {
		t.Fatal(err)
	}
	openLink, err := env.links.CreateLink(env.ctx, open.ID, t1.ID)
	if err != nil {
		t.Fatal(err)
	}
	doneLinks, _ := env.links.ListLinks(env.ctx, &done.ID, nil)
	if len(doneLinks) != 1 || env.tableStatus(t, t2.ID) != models.TableFree {
		t.Fatalf("setup: links=%+v t2=%s", doneLinks, env.tableStatus(t, t2.ID))
	}

	// open order's table handed to a completed order: nobody is seated there
	if _, err := env.links.UpdateLink(env.ctx, openLink.ID, &done.ID, nil); err != nil {
		t.Fatal(err)
	}
	if st := env.tableStatus(t, t1.ID); st != models.TableFree {
		t.Errorf("table moved onto completed order = %s, want free", st)
	}

	// completed order's table handed to an open order
	if _, err := env.links.UpdateLink(env.ctx, doneLinks[0].ID, &open.ID, nil); err != nil {
		t.Fatal(err)
	}
	if st := env.tableStatus(t, t2.ID); st != models.TableOccupied {
		t.Errorf("table moved onto open order = %s, want occupied", st)
	}

	// same table, both orders open: stays occupied
	other, _ := env.orders.CreateOrder(env.ctx, waiter, OrderInput{})
	if _, err := env.links.UpdateLink(env.ctx, doneLinks[0].ID, &other.ID, nil); err != nil {
		t.Fatal(err)
	}
	if st := env.tableStatus(t, t2.ID); st != models.TableOccupied {
		t.Errorf("table passed between open orders = %s, want occupied", st)
	}
}

func TestCreateLink_ClosedOrderOrBusyTable(t *testing.T) {
	env := newTestEnv(t)
	waiter := env.user(t, "w1", models.RoleWaiter)
	t1, t2 := env.table(t, 1), env.table(t, 2)
	open, _ := env.orders.CreateOrder(env.ctx, waiter, OrderInput{TableIDs: []uint{t1.ID}})
	other, _ := env.orders.CreateOrder(env.ctx, waiter, OrderInput{})

	_, err := env.links.CreateLink(env.ctx, other.ID, t1.ID)
	assertKind(t, err, ErrConflict)

	env.orders.CompleteOrder(env.ctx, open.ID)
	_, err = env.links.CreateLink(env.ctx, open.ID, t2.ID)
	assertKind(t, err, ErrValidation)
}
