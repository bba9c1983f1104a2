package services

import (
	"context"
	"fmt"
	"time"

	"restaurant_service/internal/models"
	"restaurant_service/internal/repository"
)

const dateLayout = "2006-01-02"

// HistoryView is a ledger entry with the dish, user and order labels
// resolved.
type HistoryView struct {
	models.CookingStatusHistory
	PlateName   *string `json:"plate_name"`
	UserName    *string `json:"user_name"`
	OrderNumber *string `json:"order_number"`
}

// HistoryQuery filters the ledger. Dates are YYYY-MM-DD in UTC and both
// ends are inclusive.
type HistoryQuery struct {
	StartDate string
	EndDate   string
	PlateID   *uint
	OrderID   *uint
	ChangeBy  *uint
	NewStatus *string
}

type HistoryInput struct {
	NewStatus string
	OrderID   *uint
	PlateID   uint
	ChangeBy  *uint
}

type HistoryUpdate struct {
	NewStatus *string
	OrderID   *uint
	PlateID   *uint
	ChangeBy  *uint
}

type HistoryService interface {
	List(ctx context.Context, q HistoryQuery) ([]HistoryView, error)
	Get(ctx context.Context, id uint) (*HistoryView, error)
	Create(ctx context.Context, actor Actor, in HistoryInput) (*HistoryView, error)
	Update(ctx context.Context, id uint, in HistoryUpdate) (*HistoryView, error)
	Delete(ctx context.Context, id uint) error
	LatestForPlate(ctx context.Context, plateID uint) (*HistoryView, error)
}

type historyService struct {
	store *repository.Store
	now   Clock
}

func NewHistoryService(store *repository.Store) HistoryService {
	return &historyService{store: store, now: systemClock}
}

func (q HistoryQuery) filter() (repository.HistoryFilter, error) {
	f := repository.HistoryFilter{
		PlateID:   q.PlateID,
		OrderID:   q.OrderID,
		ChangeBy:  q.ChangeBy,
		NewStatus: q.NewStatus,
	}
	if q.StartDate != "" {
		from, err := time.Parse(dateLayout, q.StartDate)
		if err != nil {
			return f, invalid("start_date must be YYYY-MM-DD")
		}
		f.From = &from
	}
	if q.EndDate != "" {
		end, err := time.Parse(dateLayout, q.EndDate)
		if err != nil {
			return f, invalid("end_date must be YYYY-MM-DD")
		}
		to := end.AddDate(0, 0, 1)
		f.To = &to
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, invalid("start_date must not be after end_date")
	}
	if q.NewStatus != nil {
		if st, ok := models.ParseCookingStatus(*q.NewStatus); ok {
			s := string(st)
			f.NewStatus = &s
		}
	}
	return f, nil
}

func (s *historyService) List(ctx context.Context, q HistoryQuery) ([]HistoryView, error) {
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	store := s.store.WithContext(ctx)
	entries, err := store.History.List(f)
	if err != nil {
		return nil, err
	}
	return historyViews(store, entries)
}

func (s *historyService) Get(ctx context.Context, id uint) (*HistoryView, error) {
	store := s.store.WithContext(ctx)
	entry, err := store.History.GetByID(id)
	if err != nil {
		return nil, lookup(err, "History entry", id)
	}
	return historyView(store, entry)
}

func (s *historyService) Create(ctx context.Context, actor Actor, in HistoryInput) (*HistoryView, error) {
	status, ok := models.ParseCookingStatus(in.NewStatus)
	if !ok {
		return nil, invalid("Unknown cooking status %q", in.NewStatus)
	}
	changeBy := in.ChangeBy
	if changeBy == nil && actor.UserID != 0 {
		by := actor.UserID
		changeBy = &by
	}
	entry := &models.CookingStatusHistory{
		NewStatus: string(status),
		OrderID:   in.OrderID,
		PlateID:   in.PlateID,
		ChangeBy:  changeBy,
	}

	var view *HistoryView
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := checkHistoryRefs(tx, entry); err != nil {
			return err
		}
		at, err := nextChangeTime(tx, entry.PlateID, s.now())
		if err != nil {
			return err
		}
		entry.ChangeTime = at
		if err := tx.History.Create(entry); err != nil {
			return storage(err, "create history entry")
		}
		view, err = historyView(tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Update corrects an entry. The change time is not editable.
func (s *historyService) Update(ctx context.Context, id uint, in HistoryUpdate) (*HistoryView, error) {
	var view *HistoryView
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		entry, err := tx.History.GetByID(id)
		if err != nil {
			return lookup(err, "History entry", id)
		}
		if in.NewStatus != nil {
			st, ok := models.ParseCookingStatus(*in.NewStatus)
			if !ok {
				return invalid("Unknown cooking status %q", *in.NewStatus)
			}
			entry.NewStatus = string(st)
		}
		if in.OrderID != nil {
			entry.OrderID = in.OrderID
		}
		if in.PlateID != nil {
			entry.PlateID = *in.PlateID
		}
		if in.ChangeBy != nil {
			entry.ChangeBy = in.ChangeBy
		}
		if err := checkHistoryRefs(tx, entry); err != nil {
			return err
		}
		if err := tx.History.Update(entry); err != nil {
			return storage(err, "update history entry")
		}
		view, err = historyView(tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *historyService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.History.GetByID(id); err != nil {
			return lookup(err, "History entry", id)
		}
		return storage(tx.History.Delete(id), "delete history entry")
	})
}

func (s *historyService) LatestForPlate(ctx context.Context, plateID uint) (*HistoryView, error) {
	store := s.store.WithContext(ctx)
	entry, err := store.History.LatestForPlate(plateID)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("No status history for plate %d", plateID)
		}
		return nil, err
	}
	return historyView(store, entry)
}

func checkHistoryRefs(tx *repository.Store, entry *models.CookingStatusHistory) error {
	if _, err := tx.Menu.GetByID(entry.PlateID); err != nil {
		return lookup(err, "Menu item", entry.PlateID)
	}
	if entry.OrderID != nil {
		if _, err := tx.Orders.GetByID(*entry.OrderID); err != nil {
			return lookup(err, "Order", *entry.OrderID)
		}
	}
	if entry.ChangeBy != nil {
		if _, err := tx.Users.GetByID(*entry.ChangeBy); err != nil {
			return lookup(err, "User", *entry.ChangeBy)
		}
	}
	return nil
}

func historyView(store *repository.Store, entry *models.CookingStatusHistory) (*HistoryView, error) {
	views, err := historyViews(store, []models.CookingStatusHistory{*entry})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func historyViews(store *repository.Store, entries []models.CookingStatusHistory) ([]HistoryView, error) {
	var dishIDs, userIDs []uint
	for _, e := range entries {
		dishIDs = append(dishIDs, e.PlateID)
		if e.ChangeBy != nil {
			userIDs = append(userIDs, *e.ChangeBy)
		}
	}
	items, err := store.Menu.GetByIDs(uniqueIDs(dishIDs))
	if err != nil {
		return nil, err
	}
	dishNames := make(map[uint]string, len(items))
	for _, item := range items {
		dishNames[item.ID] = item.Name
	}
	users, err := store.Users.GetByIDs(uniqueIDs(userIDs))
	if err != nil {
		return nil, err
	}
	userNames := make(map[uint]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Name
	}

	views := make([]HistoryView, len(entries))
	for i, e := range entries {
		views[i] = HistoryView{CookingStatusHistory: e}
		if name, ok := dishNames[e.PlateID]; ok {
			views[i].PlateName = &name
		}
		if e.ChangeBy != nil {
			if name, ok := userNames[*e.ChangeBy]; ok {
				views[i].UserName = &name
			}
		}
		if e.OrderID != nil {
			number := fmt.Sprintf("Order #%d", *e.OrderID)
			views[i].OrderNumber = &number
		}
	}
	return views, nil
}
