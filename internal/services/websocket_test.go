package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub()
	go hub.Run(ctx)
	return hub
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestHub_BroadcastOnlyToFollowers(t *testing.T) {
	hub := startHub(t)

	a := &Client{TrackingID: "PCL-A", Send: make(chan []byte, 1), Hub: hub}
	b := &Client{TrackingID: "PCL-B", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(a)
	hub.Register(b)
	waitFor(t, func() bool { return hub.Subscribers("PCL-A") == 1 && hub.Subscribers("PCL-B") == 1 })

	hub.BroadcastToTracking("PCL-A", []byte("hello"))

	select {
	case msg := <-a.Send:
		if string(msg) != "hello" {
			t.Errorf("unexpected message %q", msg)
		}
	default:
		t.Fatal("follower did not receive the message")
	}

	select {
	case msg := <-b.Send:
		t.Errorf("non-follower received %q", msg)
	default:
	}
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := startHub(t)

	slow := &Client{TrackingID: "PCL-A", Send: make(chan []byte), Hub: hub}
	hub.Register(slow)
	waitFor(t, func() bool { return hub.Subscribers("PCL-A") == 1 })

	hub.BroadcastToTracking("PCL-A", []byte("x"))

	if n := hub.Subscribers("PCL-A"); n != 0 {
		t.Errorf("expected slow subscriber to be dropped, %d left", n)
	}
	if _, ok := <-slow.Send; ok {
		t.Error("expected the send channel to be closed")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)

	c := &Client{TrackingID: "PCL-A", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(c)
	waitFor(t, func() bool { return hub.Subscribers("PCL-A") == 1 })

	hub.Unregister(c)
	waitFor(t, func() bool { return hub.Subscribers("PCL-A") == 0 })
}

func TestServeTracking_StreamsEvents(t *testing.T) {
	hub := startHub(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeTracking(hub, w, r, "PCL-42")
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.Subscribers("PCL-42") == 1 })

	publisher := NewLocalPublisher(hub)
	event := NewParcelEvent(EventTrackingUpdated, "p1", "PCL-42", map[string]string{"status": "in_transit"})
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var msg struct {
		Type string      `json:"type"`
		Data ParcelEvent `json:"data"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("invalid message: %v", err)
	}
	if msg.Type != EventTrackingUpdated || msg.Data.TrackingID != "PCL-42" || msg.Data.ParcelID != "p1" {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestLocalPublisher_IgnoresEventsWithoutTrackingID(t *testing.T) {
	hub := startHub(t)
	c := &Client{TrackingID: "", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(c)
	waitFor(t, func() bool { return hub.Subscribers("") == 1 })

	_ = NewLocalPublisher(hub).Publish(context.Background(), NewParcelEvent(EventPaymentRecorded, "p1", "", nil))

	select {
	case <-c.Send:
		t.Error("event without tracking id should not be delivered")
	default:
	}
}
