package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restaurant_service/internal/logger"

	"github.com/gorilla/websocket"
)

func TestHub_BroadcastsToClients(t *testing.T) {
	hub := NewHub(logger.Discard())
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn)
	}))
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	want := Event{Type: PlateStatusChanged, OrderID: 4, PlateID: 9, Status: "ready"}
	if err := hub.Publish(context.Background(), want); err != nil {
		t.Fatal(err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	if err := client.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Type != want.Type || got.PlateID != 9 || got.Status != "ready" {
		t.Errorf("got %+v", got)
	}

	client.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not dropped after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_DropsClientWithFullQueue(t *testing.T) {
	hub := NewHub(logger.Discard())
	stalled := &client{send: make(chan []byte, 1)}
	hub.clients[stalled] = struct{}{}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			hub.Publish(context.Background(), Event{Type: OrderCreated, OrderID: uint(i)})
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a stalled client")
	}

	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d, want the stalled client dropped", hub.Clients())
	}
	if _, ok := <-stalled.send; !ok {
		t.Error("queued event lost before the queue was closed")
	}
	if _, ok := <-stalled.send; ok {
		t.Error("send queue left open after drop")
	}
}

func TestFanout(t *testing.T) {
	ok := &Recorder{}
	broken := &Recorder{Err: errors.New("broker down")}
	f := Fanout{broken, ok}

	err := f.Publish(context.Background(), Event{Type: OrderCreated, OrderID: 1})
	if err == nil || !strings.Contains(err.Error(), "broker down") {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(ok.Events()) != 1 {
		t.Error("healthy publisher skipped after a failure")
	}
}
