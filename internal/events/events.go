// Package events publishes kitchen and order lifecycle notifications.
package events

import (
	"context"
	"sync"
	"time"
)

const Exchange = "kitchen_events"

// Routing keys on the kitchen exchange.
const (
	PlateStatusChanged = "plate.status_changed"
	OrderCreated       = "order.created"
	OrderCompleted     = "order.completed"
	OrderCancelled     = "order.cancelled"
	OrderDeleted       = "order.deleted"
)

type Event struct {
	Type      string    `json:"type"`
	OrderID   uint      `json:"order_id"`
	PlateID   uint      `json:"plate_id,omitempty"`
	DishID    uint      `json:"dish_id,omitempty"`
	Status    string    `json:"status,omitempty"`
	ChangedBy uint      `json:"changed_by,omitempty"`
	TableIDs  []uint    `json:"table_ids,omitempty"`
	Time      time.Time `json:"time"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

// Recorder keeps published events in memory. Tests use it in place of a
// broker.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types lists the routing keys published so far, in order.
func (r *Recorder) Types() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}
