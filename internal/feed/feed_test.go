package feed

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func startHub(t *testing.T, cfg HubConfig) (*Hub, string, func()) {
	t.Helper()
	hub := NewHub(cfg)
	srv := httptest.NewServer(hub)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return hub, url, func() {
		hub.Close()
		srv.Close()
	}
}

func dialClient(t *testing.T, url string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url, DefaultClientConfig())
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	return c
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("hub has %d clients, want %d", hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) LikeEvent {
	t.Helper()
	select {
	case ev, ok := <-c.Events():
		if !ok {
			t.Fatal("events channel closed unexpectedly")
		}
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return LikeEvent{}
}

func TestLikeEvent_Validate(t *testing.T) {
	ok := NewLikeEvent("alice", 3)
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() fresh event: %v", err)
	}

	tests := []struct {
		name string
		ev   LikeEvent
	}{
		{"bad id", LikeEvent{ID: "not-a-uuid", Count: 1}},
		{"zero count", LikeEvent{ID: ok.ID, Count: 0}},
		{"too many", LikeEvent{ID: ok.ID, Count: MaxCountPerEvent + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ev.Validate(); !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("Validate() = %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestHubBroadcastsToClients(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, url, stop := startHub(t, DefaultHubConfig())
	defer stop()

	a := dialClient(t, url)
	defer a.Close()
	b := dialClient(t, url)
	defer b.Close()
	waitClients(t, hub, 2)

	ev := NewLikeEvent("bob", 2)
	if err := hub.Publish(ev); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	for _, c := range []*Client{a, b} {
		got := receive(t, c)
		if got.ID != ev.ID || got.User != "bob" || got.Count != 2 {
			t.Errorf("received %+v, want %+v", got, ev)
		}
		if !got.SentAt.Equal(ev.SentAt) {
			t.Errorf("SentAt = %v, want %v", got.SentAt, ev.SentAt)
		}
	}

	if published, _ := hub.Stats(); published != 1 {
		t.Errorf("published = %d, want 1", published)
	}
}

func TestClientDropsDuplicateIDs(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, url, stop := startHub(t, DefaultHubConfig())
	defer stop()

	c := dialClient(t, url)
	defer c.Close()
	waitClients(t, hub, 1)

	first := NewLikeEvent("carol", 1)
	second := NewLikeEvent("dave", 1)
	for _, ev := range []LikeEvent{first, first, second} {
		if err := hub.Publish(ev); err != nil {
			t.Fatalf("Publish() error: %v", err)
		}
	}

	if got := receive(t, c); got.ID != first.ID {
		t.Errorf("first event ID = %s, want %s", got.ID, first.ID)
	}
	if got := receive(t, c); got.ID != second.ID {
		t.Errorf("second event ID = %s, want %s (duplicate should be skipped)", got.ID, second.ID)
	}

	received, dupes, _ := c.Stats()
	if received != 2 || dupes != 1 {
		t.Errorf("Stats() = received %d dupes %d, want 2 and 1", received, dupes)
	}
}

func TestHubRejectsInvalidAndClosed(t *testing.T) {
	hub := NewHub(DefaultHubConfig())
	if err := hub.Publish(LikeEvent{ID: "x", Count: 1}); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Publish(invalid) = %v, want ErrInvalidEvent", err)
	}
	hub.Close()
	if err := hub.Publish(NewLikeEvent("eve", 1)); !errors.Is(err, ErrHubClosed) {
		t.Errorf("Publish after Close = %v, want ErrHubClosed", err)
	}
}

func TestClientCloseEndsEvents(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, url, stop := startHub(t, DefaultHubConfig())
	defer stop()

	c := dialClient(t, url)
	waitClients(t, hub, 1)

	c.Close()
	// 重复关闭是安全的
	c.Close()

	select {
	case _, ok := <-c.Events():
		if ok {
			t.Error("expected closed channel after Close")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("events channel not closed after Close")
	}
	if c.Err() != nil {
		t.Errorf("Err() after Close = %v, want nil", c.Err())
	}

	waitClients(t, hub, 0)
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub, url, stop := startHub(t, DefaultHubConfig())
	c := dialClient(t, url)
	defer c.Close()
	waitClients(t, hub, 1)

	stop()

	select {
	case _, ok := <-c.Events():
		if ok {
			t.Error("expected closed channel after hub shutdown")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("client did not notice hub shutdown")
	}
	if c.Err() == nil {
		t.Error("Err() should report the dropped connection")
	}
}

func TestHubMaxConn(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := DefaultHubConfig()
	cfg.MaxConn = 1
	hub, url, stop := startHub(t, cfg)
	defer stop()

	a := dialClient(t, url)
	defer a.Close()
	waitClients(t, hub, 1)

	b := dialClient(t, url)
	defer b.Close()

	select {
	case _, ok := <-b.Events():
		if ok {
			t.Error("second viewer should be disconnected")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("second viewer was not rejected")
	}
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}
}

func TestMarkSeenWindow(t *testing.T) {
	c := &Client{seen: map[string]struct{}{}, seenRing: make([]string, 2)}
	if c.markSeen("a") || c.markSeen("b") {
		t.Fatal("fresh ids reported as seen")
	}
	if !c.markSeen("a") {
		t.Error("a should be seen")
	}
	// 窗口为 2，加入 c 后 a 被淘汰
	c.markSeen("c")
	if c.markSeen("a") {
		t.Error("a should have been evicted")
	}
}
