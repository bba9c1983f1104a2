package services

import (
	"context"

	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"
)

// TableOrderService manages the order-to-table links directly. Occupancy
// follows the links of open orders.
type TableOrderService interface {
	ListLinks(ctx context.Context, orderID, tableID *uint) ([]models.TableForOrder, error)
	CreateLink(ctx context.Context, orderID, tableID uint) (*models.TableForOrder, error)
	UpdateLink(ctx context.Context, id uint, orderID, tableID *uint) (*models.TableForOrder, error)
	DeleteLink(ctx context.Context, id uint) error
}

type tableOrderService struct {
	store *repository.Store
}

func NewTableOrderService(store *repository.Store) TableOrderService {
	return &tableOrderService{store: store}
}

func (s *tableOrderService) ListLinks(ctx context.Context, orderID, tableID *uint) ([]models.TableForOrder, error) {
	return s.store.WithContext(ctx).TableLinks.List(orderID, tableID)
}

func (s *tableOrderService) CreateLink(ctx context.Context, orderID, tableID uint) (*models.TableForOrder, error) {
	link := &models.TableForOrder{OrderID: orderID, TableID: tableID}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := tx.Orders.GetByID(orderID)
		if err != nil {
			return lookup(err, "Order", orderID)
		}
		if order.Status.IsTerminal() {
			return invalid("Order %d is %s", orderID, order.Status)
		}
		if err := checkPair(tx, orderID, tableID); err != nil {
			return err
		}
		if err := checkTablesFree(tx, []uint{tableID}); err != nil {
			return err
		}
		if err := occupyTables(tx, []uint{tableID}); err != nil {
			return err
		}
		return storage(tx.TableLinks.Create(link), "link table")
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func checkPair(tx *repository.Store, orderID, tableID uint) error {
	exists, err := tx.TableLinks.Exists(orderID, tableID)
	if err != nil {
		return err
	}
	if exists {
		return conflict("Table %d is already linked to order %d", tableID, orderID)
	}
	return nil
}

// UpdateLink re-points a link. A table ends up occupied exactly when an
// open order holds it: the new table must be free if the link brings an
// open order onto it, and the old one is freed once no open order is left
// on it.
func (s *tableOrderService) UpdateLink(ctx context.Context, id uint, orderID, tableID *uint) (*models.TableForOrder, error) {
	var link *models.TableForOrder
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		link, err = tx.TableLinks.GetByID(id)
		if err != nil {
			return lookup(err, "Table link", id)
		}
		oldOrder, err := tx.Orders.GetByID(link.OrderID)
		if err != nil {
			return lookup(err, "Order", link.OrderID)
		}

		newOrderID, newTableID := link.OrderID, link.TableID
		if orderID != nil {
			newOrderID = *orderID
		}
		if tableID != nil {
			newTableID = *tableID
		}
		if newOrderID == link.OrderID && newTableID == link.TableID {
			return nil
		}

		newOrder, err := tx.Orders.GetByID(newOrderID)
		if err != nil {
			return lookup(err, "Order", newOrderID)
		}
		if _, err := tx.Tables.GetByID(newTableID); err != nil {
			return lookup(err, "Table", newTableID)
		}
		if err := checkPair(tx, newOrderID, newTableID); err != nil {
			return err
		}

		oldOpen, newOpen := !oldOrder.Status.IsTerminal(), !newOrder.Status.IsTerminal()
		tableChanged := newTableID != link.TableID
		oldTableID := link.TableID

		if newOpen && (tableChanged || !oldOpen) {
			if err := checkTablesFree(tx, []uint{newTableID}); err != nil {
				return err
			}
			if err := occupyTables(tx, []uint{newTableID}); err != nil {
				return err
			}
		}

		link.OrderID, link.TableID = newOrderID, newTableID
		if err := tx.TableLinks.Update(link); err != nil {
			return storage(err, "update table link")
		}

		if oldOpen && (tableChanged || !newOpen) {
			busy, err := tx.TableLinks.HasOpenOrder(oldTableID)
			if err != nil {
				return err
			}
			if !busy {
				if err := tx.Tables.Release([]uint{oldTableID}); err != nil {
					return storage(err, "release table")
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (s *tableOrderService) DeleteLink(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		link, err := tx.TableLinks.GetByID(id)
		if err != nil {
			return lookup(err, "Table link", id)
		}
		order, err := tx.Orders.GetByID(link.OrderID)
		if err != nil && !isNotFound(err) {
			return err
		}
		if order != nil && !order.Status.IsTerminal() {
			if err := tx.Tables.Release([]uint{link.TableID}); err != nil {
				return storage(err, "release table")
			}
		}
		return storage(tx.TableLinks.Delete(id), "delete table link")
	})
}
