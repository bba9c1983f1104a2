package models

import "strings"

type OrderStatus string

const (
	OrderActive     OrderStatus = "active"
	OrderWaiting    OrderStatus = "waiting"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{OrderActive, OrderWaiting, OrderInProgress, OrderCompleted, OrderCancelled}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range OrderStatuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// AcceptsPlates reports whether plates may be added, edited or removed.
func (s OrderStatus) AcceptsPlates() bool {
	return s == OrderActive || s == OrderWaiting
}

// CanTransition is the single source of truth for order status moves.
// Open statuses move freely among themselves and into a terminal status;
// terminal statuses never move again.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s == to || s.IsTerminal() {
		return false
	}
	_, ok := ParseOrderStatus(string(to))
	return ok
}

type CookingStatus string

const (
	CookingWaiting   CookingStatus = "waiting"
	CookingPreparing CookingStatus = "preparing"
	CookingReady     CookingStatus = "ready"
	CookingServed    CookingStatus = "served"
)

var CookingStatuses = []CookingStatus{CookingWaiting, CookingPreparing, CookingReady, CookingServed}

var cookingRank = map[CookingStatus]int{
	CookingWaiting:   0,
	CookingPreparing: 1,
	CookingReady:     2,
	CookingServed:    3,
}

// ParseCookingStatus accepts the kitchen vocabulary. "ordered" is the older
// name for waiting and is normalized to it.
func ParseCookingStatus(s string) (CookingStatus, bool) {
	st := strings.ToLower(strings.TrimSpace(s))
	if st == "ordered" {
		return CookingWaiting, true
	}
	cs := CookingStatus(st)
	if _, ok := cookingRank[cs]; ok {
		return cs, true
	}
	return "", false
}

// CanTransition allows forward moves only; steps may be skipped.
func (s CookingStatus) CanTransition(to CookingStatus) bool {
	from, ok := cookingRank[s]
	if !ok {
		// rows written before the vocabulary was closed
		_, ok = cookingRank[to]
		return ok
	}
	next, ok := cookingRank[to]
	return ok && next > from
}

type TableStatus string

const (
	TableFree     TableStatus = "free"
	TableOccupied TableStatus = "occupied"
	TableReserved TableStatus = "reserved"
)

func ParseTableStatus(s string) (TableStatus, bool) {
	switch st := TableStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case TableFree, TableOccupied, TableReserved:
		return st, true
	}
	return "", false
}

func CookingStatusNames() []string {
	out := make([]string, len(CookingStatuses))
	for i, s := range CookingStatuses {
		out[i] = string(s)
	}
	return out
}
