package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// HubConfig tunes a Hub.
type HubConfig struct {
	// MaxConn limits concurrent viewers; 0 means unlimited.
	MaxConn int
	// PendingWriteNum is the per-viewer outgoing buffer. Slow viewers miss events.
	PendingWriteNum int
	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration
}

// DefaultHubConfig returns the settings used by cmd/likefeed.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		MaxConn:         256,
		PendingWriteNum: 64,
		WriteTimeout:    5 * time.Second,
	}
}

type hubConn struct {
	conn      *websocket.Conn
	writeChan chan []byte
}

// Hub is an http.Handler that upgrades requests to WebSocket and broadcasts
// published events to all of them.
type Hub struct {
	cfg      HubConfig
	upgrader websocket.Upgrader

	mu     sync.Mutex
	wg     sync.WaitGroup
	conns  map[*websocket.Conn]*hubConn
	closed bool

	published uint64
	dropped   uint64
}

// NewHub creates a hub.
func NewHub(cfg HubConfig) *Hub {
	if cfg.PendingWriteNum <= 0 {
		cfg.PendingWriteNum = 1
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	return &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			// 点赞流是公开的只读广播
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]*hubConn),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已经写回了错误响应
		log.Printf("[Hub] Warning: upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	if h.closed || (h.cfg.MaxConn > 0 && len(h.conns) >= h.cfg.MaxConn) {
		h.mu.Unlock()
		log.Printf("[Hub] Warning: rejecting viewer %s", r.RemoteAddr)
		conn.Close()
		return
	}
	hc := &hubConn{conn: conn, writeChan: make(chan []byte, h.cfg.PendingWriteNum)}
	h.conns[conn] = hc
	h.wg.Add(1)
	h.mu.Unlock()
	defer h.wg.Done()

	log.Printf("[Hub] Viewer connected: %s", r.RemoteAddr)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for b := range hc.writeChan {
			conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				// 写失败后关闭连接，读循环随之退出
				conn.Close()
				break
			}
		}
		// 排空剩余消息，避免 Publish 阻塞
		for range hc.writeChan {
		}
	}()

	// 观众只读；读循环用于感知断开和处理控制帧
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	<-writerDone
	conn.Close()
	log.Printf("[Hub] Viewer disconnected: %s", r.RemoteAddr)
}

// remove unregisters conn and closes its write channel exactly once.
func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hc, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		close(hc.writeChan)
	}
}

// Publish validates ev and queues it for every connected viewer.
// Viewers whose buffer is full skip this event.
func (h *Hub) Publish(ev LikeEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal like event: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	for _, hc := range h.conns {
		select {
		case hc.writeChan <- b:
		default:
			h.dropped++
		}
	}
	h.published++
	return nil
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Stats returns the number of published events and per-viewer drops.
func (h *Hub) Stats() (published, dropped uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.published, h.dropped
}

// Close disconnects every viewer and waits for their handlers to return.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for conn := range h.conns {
		conn.Close()
	}
	h.mu.Unlock()

	h.wg.Wait()
}
