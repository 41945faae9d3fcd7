package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// ClientConfig tunes a Client.
type ClientConfig struct {
	// Buffer is the capacity of the Events channel.
	Buffer int
	// DedupeWindow is how many recent event IDs are remembered.
	DedupeWindow int
}

// DefaultClientConfig returns the settings used by the viewers.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{Buffer: 128, DedupeWindow: 1024}
}

// Client receives like events from a hub.
type Client struct {
	conn   *websocket.Conn
	events chan LikeEvent
	done   chan struct{}
	wg     sync.WaitGroup

	closeOnce sync.Once

	// 仅由读协程访问
	seen     map[string]struct{}
	seenRing []string
	seenNext int

	mu       sync.Mutex
	received uint64
	dupes    uint64
	invalid  uint64
	err      error
}

// Dial connects to the hub at url (ws:// or wss://) and starts reading.
func Dial(ctx context.Context, url string, cfg ClientConfig) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial like feed %s: %w", url, err)
	}
	return newClient(conn, cfg), nil
}

func newClient(conn *websocket.Conn, cfg ClientConfig) *Client {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 1
	}
	if cfg.DedupeWindow <= 0 {
		cfg.DedupeWindow = 1
	}
	c := &Client{
		conn:     conn,
		events:   make(chan LikeEvent, cfg.Buffer),
		done:     make(chan struct{}),
		seen:     make(map[string]struct{}, cfg.DedupeWindow),
		seenRing: make([]string, cfg.DedupeWindow),
	}
	c.wg.Add(1)
	go c.readLoop()
	return c
}

// Events returns the channel of de-duplicated events. It is closed when the
// connection ends or Close is called.
func (c *Client) Events() <-chan LikeEvent {
	return c.events
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	defer close(c.events)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.setErr(err)
				log.Printf("[FeedClient] Connection ended: %v", err)
			}
			return
		}

		var ev LikeEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			c.count(&c.invalid)
			continue
		}
		if err := ev.Validate(); err != nil {
			c.count(&c.invalid)
			continue
		}
		if c.markSeen(ev.ID) {
			c.count(&c.dupes)
			continue
		}

		select {
		case c.events <- ev:
			c.count(&c.received)
		case <-c.done:
			return
		}
	}
}

// markSeen records id and reports whether it was already present.
func (c *Client) markSeen(id string) bool {
	if _, ok := c.seen[id]; ok {
		return true
	}
	if old := c.seenRing[c.seenNext]; old != "" {
		delete(c.seen, old)
	}
	c.seenRing[c.seenNext] = id
	c.seenNext = (c.seenNext + 1) % len(c.seenRing)
	c.seen[id] = struct{}{}
	return false
}

func (c *Client) count(n *uint64) {
	c.mu.Lock()
	*n++
	c.mu.Unlock()
}

func (c *Client) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Err returns the error that ended the connection, or nil after Close.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Stats returns delivered, duplicate and invalid message counts.
func (c *Client) Stats() (received, dupes, invalid uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.received, c.dupes, c.invalid
}

// Close stops the read goroutine and waits for it to exit.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = c.conn.Close()
	})
	c.wg.Wait()
	return err
}
