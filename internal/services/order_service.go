package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"restaurant_service/internal/events"
	"restaurant_service/internal/logger"
	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"

	"github.com/shopspring/decimal"
)

type PlateView struct {
	ID            uint                 `json:"id"`
	OrderID       uint                 `json:"order_id"`
	PlateID       uint                 `json:"plate_id"`
	Count         int                  `json:"count"`
	Comment       string               `json:"comment"`
	CookingStatus models.CookingStatus `json:"cooking_status"`
	Price         decimal.Decimal      `json:"price"`
	PlateName     *string              `json:"plate_name"`
}

// OrderView is an order joined with its waiter, tables and plates.
type OrderView struct {
	ID           uint               `json:"id"`
	Waiter       uint               `json:"waiter"`
	Status       models.OrderStatus `json:"status"`
	TimeStart    time.Time          `json:"timestart"`
	EndTime      *time.Time         `json:"endtime"`
	WaiterName   *string            `json:"waiter_name"`
	TableNumbers []int              `json:"table_numbers"`
	Plates       []PlateView        `json:"plates"`
	Total        decimal.Decimal    `json:"total"`
}

type PlateInput struct {
	MenuItemID    uint
	Count         *int
	Comment       string
	CookingStatus string
	Price         *decimal.Decimal
}

type PlateUpdate struct {
	Count         *int
	Comment       *string
	CookingStatus *string
	Price         *decimal.Decimal
}

type OrderInput struct {
	WaiterID  *uint
	Status    string
	TimeStart *time.Time
	TableIDs  []uint
	Plates    []PlateInput
}

type OrderUpdate struct {
	Status  *string
	EndTime *time.Time
}

type OrderService interface {
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]OrderView, error)
	GetOrder(ctx context.Context, id uint) (*OrderView, error)
	CreateOrder(ctx context.Context, actor Actor, in OrderInput) (*OrderView, error)
	UpdateOrder(ctx context.Context, id uint, in OrderUpdate) (*OrderView, error)
	CompleteOrder(ctx context.Context, id uint) (*OrderView, error)
	CancelOrder(ctx context.Context, id uint) (*OrderView, error)
	DeleteOrder(ctx context.Context, id uint) error

	AddPlate(ctx context.Context, actor Actor, orderID uint, in PlateInput) (*PlateView, error)
	UpdatePlate(ctx context.Context, actor Actor, plateID uint, in PlateUpdate) (*PlateView, error)
	RemovePlate(ctx context.Context, plateID uint) error
	SetPlateStatus(ctx context.Context, actor Actor, plateID uint, status string) (*PlateView, error)
}

type orderService struct {
	store     *repository.Store
	publisher events.Publisher
	log       *logger.Logger
	now       Clock
}

func NewOrderService(store *repository.Store, publisher events.Publisher, log *logger.Logger) OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &orderService{store: store, publisher: publisher, log: log, now: systemClock}
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]OrderView, error) {
	store := s.store.WithContext(ctx)
	orders, err := store.Orders.List(filter)
	if err != nil {
		return nil, err
	}
	return orderViews(store, orders)
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*OrderView, error) {
	return orderView(s.store.WithContext(ctx), id)
}

func (s *orderService) CreateOrder(ctx context.Context, actor Actor, in OrderInput) (*OrderView, error) {
	status := models.OrderActive
	if in.Status != "" {
		st, ok := models.ParseOrderStatus(in.Status)
		if !ok {
			return nil, invalid("Unknown order status %q", in.Status)
		}
		if st.IsTerminal() {
			return nil, invalid("A new order cannot start as %s", st)
		}
		status = st
	}
	waiterID := actor.UserID
	if in.WaiterID != nil {
		waiterID = *in.WaiterID
	}
	plates, err := preparePlates(in.Plates)
	if err != nil {
		return nil, err
	}
	tableIDs := uniqueIDs(in.TableIDs)
	now := s.now()
	start := now
	if in.TimeStart != nil {
		start = in.TimeStart.UTC()
	}

	var view *OrderView
	var created []events.Event
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.GetByID(waiterID); err != nil {
			return lookup(err, "Waiter", waiterID)
		}
		if err := checkTablesFree(tx, tableIDs); err != nil {
			return err
		}
		prices, err := dishPrices(tx, plates)
		if err != nil {
			return err
		}

		order := &models.Order{WaiterID: waiterID, Status: status, TimeStart: start}
		if err := tx.Orders.Create(order); err != nil {
			return storage(err, "create order")
		}
		if err := occupyTables(tx, tableIDs); err != nil {
			return err
		}
		for _, tableID := range tableIDs {
			if err := tx.TableLinks.Create(&models.TableForOrder{OrderID: order.ID, TableID: tableID}); err != nil {
				return storage(err, "link table")
			}
		}
		for i := range plates {
			p := &plates[i]
			p.OrderID = order.ID
			if in.Plates[i].Price == nil {
				p.Price = prices[p.MenuItemID]
			}
			if err := tx.Plates.Create(p); err != nil {
				return storage(err, "add plate")
			}
			if _, err := recordPlateStatus(tx, p, actor.UserID, now); err != nil {
				return err
			}
		}

		created = append(created, events.Event{
			Type: events.OrderCreated, OrderID: order.ID, Status: string(status),
			ChangedBy: actor.UserID, TableIDs: tableIDs, Time: now,
		})
		view, err = orderView(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, created...)
	return view, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id uint, in OrderUpdate) (*OrderView, error) {
	var target *models.OrderStatus
	if in.Status != nil {
		st, ok := models.ParseOrderStatus(*in.Status)
		if !ok {
			return nil, invalid("Unknown order status %q", *in.Status)
		}
		target = &st
	}
	return s.changeOrder(ctx, id, target, in.EndTime)
}

func (s *orderService) CompleteOrder(ctx context.Context, id uint) (*OrderView, error) {
	st := models.OrderCompleted
	return s.changeOrder(ctx, id, &st, nil)
}

func (s *orderService) CancelOrder(ctx context.Context, id uint) (*OrderView, error) {
	st := models.OrderCancelled
	return s.changeOrder(ctx, id, &st, nil)
}

// changeOrder applies a status move through the order transition table.
// Entering a terminal status stamps the end time and frees the tables.
func (s *orderService) changeOrder(ctx context.Context, id uint, to *models.OrderStatus, endTime *time.Time) (*OrderView, error) {
	now := s.now()
	var view *OrderView
	var published []events.Event
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := tx.Orders.GetByID(id)
		if err != nil {
			return lookup(err, "Order", id)
		}
		if endTime != nil {
			t := endTime.UTC()
			order.EndTime = &t
		}
		if to != nil && *to != order.Status {
			if !order.Status.CanTransition(*to) {
				return invalid("Order %d cannot move from %s to %s", id, order.Status, *to)
			}
			order.Status = *to
			if to.IsTerminal() {
				if order.EndTime == nil {
					order.EndTime = &now
				}
				tableIDs, err := releaseOrderTables(tx, id)
				if err != nil {
					return err
				}
				published = append(published, events.Event{
					Type: terminalEvent(*to), OrderID: id, Status: string(*to),
					TableIDs: tableIDs, Time: now,
				})
			}
		} else if to != nil && order.Status.IsTerminal() {
			return invalid("Order %d is already %s", id, order.Status)
		}
		if err := tx.Orders.Update(order); err != nil {
			return storage(err, "update order")
		}
		view, err = orderView(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, published...)
	return view, nil
}

func terminalEvent(st models.OrderStatus) string {
	if st == models.OrderCancelled {
		return events.OrderCancelled
	}
	return events.OrderCompleted
}

// DeleteOrder removes the order with its plates, table links and ledger
// entries. Tables of an open order are freed first.
func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	var tableIDs []uint
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		order, err := tx.Orders.GetByID(id)
		if err != nil {
			return lookup(err, "Order", id)
		}
		if !order.Status.IsTerminal() {
			if tableIDs, err = releaseOrderTables(tx, id); err != nil {
				return err
			}
		}
		plates, err := tx.Plates.GetByOrderID(id)
		if err != nil {
			return err
		}
		for _, p := range plates {
			if err := tx.History.DeleteByOrderPlateID(p.ID); err != nil {
				return storage(err, "delete plate history")
			}
		}
		if err := tx.History.DeleteByOrderID(id); err != nil {
			return storage(err, "delete order history")
		}
		if err := tx.Plates.DeleteByOrderID(id); err != nil {
			return storage(err, "delete plates")
		}
		if err := tx.TableLinks.DeleteByOrderID(id); err != nil {
			return storage(err, "delete table links")
		}
		return storage(tx.Orders.Delete(id), "delete order")
	})
	if err != nil {
		return err
	}
	s.publish(ctx, events.Event{Type: events.OrderDeleted, OrderID: id, TableIDs: tableIDs, Time: s.now()})
	return nil
}

func (s *orderService) AddPlate(ctx context.Context, actor Actor, orderID uint, in PlateInput) (*PlateView, error) {
	prepared, err := preparePlates([]PlateInput{in})
	if err != nil {
		return nil, err
	}
	plate := &prepared[0]
	plate.OrderID = orderID
	now := s.now()

	var view *PlateView
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := openOrder(tx, orderID); err != nil {
			return err
		}
		prices, err := dishPrices(tx, prepared)
		if err != nil {
			return err
		}
		if in.Price == nil {
			plate.Price = prices[plate.MenuItemID]
		}
		if err := tx.Plates.Create(plate); err != nil {
			return storage(err, "add plate")
		}
		if _, err := recordPlateStatus(tx, plate, actor.UserID, now); err != nil {
			return err
		}
		view, err = plateView(tx, plate)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *orderService) UpdatePlate(ctx context.Context, actor Actor, plateID uint, in PlateUpdate) (*PlateView, error) {
	now := s.now()
	var view *PlateView
	var published []events.Event
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		plate, err := tx.Plates.GetByID(plateID)
		if err != nil {
			return lookup(err, "Plate", plateID)
		}
		if _, err := openOrder(tx, plate.OrderID); err != nil {
			return err
		}
		if in.Count != nil {
			if *in.Count < 1 {
				return invalid("Count must be at least 1")
			}
			plate.Count = *in.Count
		}
		if in.Comment != nil {
			plate.Comment = *in.Comment
		}
		if in.Price != nil {
			if err := checkPrice(*in.Price); err != nil {
				return err
			}
			plate.Price = in.Price.Round(2)
		}
		statusChanged := false
		if in.CookingStatus != nil {
			to, ok := models.ParseCookingStatus(*in.CookingStatus)
			if !ok {
				return invalid("Unknown cooking status %q", *in.CookingStatus)
			}
			if to != plate.CookingStatus {
				if !plate.CookingStatus.CanTransition(to) {
					return invalid("Plate %d cannot move from %s to %s", plateID, plate.CookingStatus, to)
				}
				plate.CookingStatus = to
				statusChanged = true
			}
		}
		if err := tx.Plates.Update(plate); err != nil {
			return storage(err, "update plate")
		}
		if statusChanged {
			entry, err := recordPlateStatus(tx, plate, actor.UserID, now)
			if err != nil {
				return err
			}
			published = append(published, plateEvent(plate, actor.UserID, entry.ChangeTime))
		}
		view, err = plateView(tx, plate)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, published...)
	return view, nil
}

func (s *orderService) RemovePlate(ctx context.Context, plateID uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		plate, err := tx.Plates.GetByID(plateID)
		if err != nil {
			return lookup(err, "Plate", plateID)
		}
		if _, err := openOrder(tx, plate.OrderID); err != nil {
			return err
		}
		if err := tx.History.DeleteByOrderPlateID(plateID); err != nil {
			return storage(err, "delete plate history")
		}
		return storage(tx.Plates.Delete(plateID), "delete plate")
	})
}

func (s *orderService) SetPlateStatus(ctx context.Context, actor Actor, plateID uint, status string) (*PlateView, error) {
	to, ok := models.ParseCookingStatus(status)
	if !ok {
		return nil, invalid("Unknown cooking status %q, expected one of %v", status, models.CookingStatusNames())
	}
	now := s.now()

	var view *PlateView
	var published events.Event
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		plate, err := tx.Plates.GetByID(plateID)
		if err != nil {
			return lookup(err, "Plate", plateID)
		}
		if !plate.CookingStatus.CanTransition(to) {
			return invalid("Plate %d cannot move from %s to %s", plateID, plate.CookingStatus, to)
		}
		plate.CookingStatus = to
		if err := tx.Plates.Update(plate); err != nil {
			return storage(err, "update plate status")
		}
		entry, err := recordPlateStatus(tx, plate, actor.UserID, now)
		if err != nil {
			return err
		}
		published = plateEvent(plate, actor.UserID, entry.ChangeTime)
		view, err = plateView(tx, plate)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, published)
	return view, nil
}

func plateEvent(plate *models.Plate, by uint, at time.Time) events.Event {
	return events.Event{
		Type:      events.PlateStatusChanged,
		OrderID:   plate.OrderID,
		PlateID:   plate.ID,
		DishID:    plate.MenuItemID,
		Status:    string(plate.CookingStatus),
		ChangedBy: by,
		Time:      at,
	}
}

// publish runs after commit. A broker failure never fails the request.
func (s *orderService) publish(ctx context.Context, evs ...events.Event) {
	for _, e := range evs {
		if err := s.publisher.Publish(ctx, e); err != nil {
			s.log.Error("event_publish", logger.RequestID(ctx), "failed to publish kitchen event", err,
				slog.String("routing_key", e.Type), slog.Uint64("order_id", uint64(e.OrderID)))
		}
	}
}

func openOrder(tx *repository.Store, id uint) (*models.Order, error) {
	order, err := tx.Orders.GetByID(id)
	if err != nil {
		return nil, lookup(err, "Order", id)
	}
	if !order.Status.AcceptsPlates() {
		return nil, invalid("Order %d is %s and cannot be changed", id, order.Status)
	}
	return order, nil
}

func preparePlates(in []PlateInput) ([]models.Plate, error) {
	plates := make([]models.Plate, len(in))
	for i, p := range in {
		if p.MenuItemID == 0 {
			return nil, invalid("plate_id is required")
		}
		count := 1
		if p.Count != nil {
			count = *p.Count
		}
		if count < 1 {
			return nil, invalid("Count must be at least 1")
		}
		status := models.CookingWaiting
		if p.CookingStatus != "" {
			st, ok := models.ParseCookingStatus(p.CookingStatus)
			if !ok {
				return nil, invalid("Unknown cooking status %q", p.CookingStatus)
			}
			status = st
		}
		plates[i] = models.Plate{
			MenuItemID:    p.MenuItemID,
			Count:         count,
			Comment:       p.Comment,
			CookingStatus: status,
		}
		if p.Price != nil {
			if err := checkPrice(*p.Price); err != nil {
				return nil, err
			}
			plates[i].Price = p.Price.Round(2)
		}
	}
	return plates, nil
}

// dishPrices checks every dish exists and returns the menu price of each.
func dishPrices(tx *repository.Store, plates []models.Plate) (map[uint]decimal.Decimal, error) {
	ids := make([]uint, 0, len(plates))
	for _, p := range plates {
		ids = append(ids, p.MenuItemID)
	}
	ids = uniqueIDs(ids)
	items, err := tx.Menu.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	prices := make(map[uint]decimal.Decimal, len(items))
	for _, item := range items {
		prices[item.ID] = item.Price
	}
	for _, id := range ids {
		if _, ok := prices[id]; !ok {
			return nil, notFound("Menu item %d not found", id)
		}
	}
	return prices, nil
}

func checkTablesFree(tx *repository.Store, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	tables, err := tx.Tables.GetByIDs(ids)
	if err != nil {
		return err
	}
	byID := make(map[uint]models.Table, len(tables))
	for _, t := range tables {
		byID[t.ID] = t
	}
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return notFound("Table %d not found", id)
		}
		if t.Status != models.TableFree {
			return conflict("Table %d is not free", t.Number)
		}
	}
	return nil
}

// occupyTables flips every table from free to occupied in one conditional
// update. Fewer affected rows means another order got there first.
func occupyTables(tx *repository.Store, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := tx.Tables.Occupy(ids)
	if err != nil {
		return storage(err, "occupy tables")
	}
	if n != int64(len(ids)) {
		return conflict("One or more tables are no longer free")
	}
	return nil
}

func releaseOrderTables(tx *repository.Store, orderID uint) ([]uint, error) {
	links, err := tx.TableLinks.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.TableID)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := tx.Tables.Release(ids); err != nil {
		return nil, storage(err, "release tables")
	}
	return ids, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func orderView(store *repository.Store, id uint) (*OrderView, error) {
	order, err := store.Orders.GetByID(id)
	if err != nil {
		return nil, lookup(err, "Order", id)
	}
	views, err := orderViews(store, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// orderViews resolves waiters, tables and dishes for a batch of orders with
// one query per related table.
func orderViews(store *repository.Store, orders []models.Order) ([]OrderView, error) {
	orderIDs := make([]uint, len(orders))
	waiterIDs := make([]uint, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
		waiterIDs[i] = o.WaiterID
	}

	waiters, err := store.Users.GetByIDs(uniqueIDs(waiterIDs))
	if err != nil {
		return nil, err
	}
	waiterNames := make(map[uint]string, len(waiters))
	for _, w := range waiters {
		waiterNames[w.ID] = w.Name
	}

	links, err := store.TableLinks.GetByOrderIDs(orderIDs)
	if err != nil {
		return nil, err
	}
	tableIDs := make([]uint, 0, len(links))
	for _, l := range links {
		tableIDs = append(tableIDs, l.TableID)
	}
	tables, err := store.Tables.GetByIDs(uniqueIDs(tableIDs))
	if err != nil {
		return nil, err
	}
	tableNumbers := make(map[uint]int, len(tables))
	for _, t := range tables {
		tableNumbers[t.ID] = t.Number
	}
	numbersByOrder := make(map[uint][]int)
	for _, l := range links {
		if n, ok := tableNumbers[l.TableID]; ok {
			numbersByOrder[l.OrderID] = append(numbersByOrder[l.OrderID], n)
		}
	}

	plates, err := store.Plates.GetByOrderIDs(orderIDs)
	if err != nil {
		return nil, err
	}
	pvs, err := plateViews(store, plates)
	if err != nil {
		return nil, err
	}
	platesByOrder := make(map[uint][]PlateView)
	totals := make(map[uint]decimal.Decimal)
	for i, pv := range pvs {
		platesByOrder[pv.OrderID] = append(platesByOrder[pv.OrderID], pv)
		totals[pv.OrderID] = totals[pv.OrderID].Add(plates[i].Total())
	}

	views := make([]OrderView, len(orders))
	for i, o := range orders {
		numbers := numbersByOrder[o.ID]
		sort.Ints(numbers)
		if numbers == nil {
			numbers = []int{}
		}
		ps := platesByOrder[o.ID]
		if ps == nil {
			ps = []PlateView{}
		}
		views[i] = OrderView{
			ID:           o.ID,
			Waiter:       o.WaiterID,
			Status:       o.Status,
			TimeStart:    o.TimeStart,
			EndTime:      o.EndTime,
			TableNumbers: numbers,
			Plates:       ps,
			Total:        totals[o.ID],
		}
		if name, ok := waiterNames[o.WaiterID]; ok {
			views[i].WaiterName = &name
		}
	}
	return views, nil
}

func plateView(store *repository.Store, plate *models.Plate) (*PlateView, error) {
	views, err := plateViews(store, []models.Plate{*plate})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func plateViews(store *repository.Store, plates []models.Plate) ([]PlateView, error) {
	dishIDs := make([]uint, 0, len(plates))
	for _, p := range plates {
		dishIDs = append(dishIDs, p.MenuItemID)
	}
	items, err := store.Menu.GetByIDs(uniqueIDs(dishIDs))
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}

	views := make([]PlateView, len(plates))
	for i, p := range plates {
		views[i] = PlateView{
			ID:            p.ID,
			OrderID:       p.OrderID,
			PlateID:       p.MenuItemID,
			Count:         p.Count,
			Comment:       p.Comment,
			CookingStatus: p.CookingStatus,
			Price:         p.Price,
		}
		if name, ok := names[p.MenuItemID]; ok {
			views[i].PlateName = &name
		}
	}
	return views, nil
}
