package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/mini-village/internal/engine"
)

// Stream message types.
const (
	MsgEvent  = "EVENT"
	MsgStatus = "STATUS"
	MsgAgents = "AGENTS"
)

// StreamMsg is one frame sent to observers.
type StreamMsg struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// hub fans messages out to connected observers. Slow observers drop frames.
type hub struct {
	mu     sync.Mutex
	subs   map[int]chan []byte
	nextID int
	limit  int
	closed bool
	done   chan struct{}
}

func newHub(limit int) *hub {
	return &hub{
		subs:  make(map[int]chan []byte),
		limit: limit,
		done:  make(chan struct{}),
	}
}

func (h *hub) subscribe() (int, <-chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || len(h.subs) >= h.limit {
		return 0, nil, false
	}
	h.nextID++
	ch := make(chan []byte, 64)
	h.subs[h.nextID] = ch
	return h.nextID, ch, true
}

func (h *hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *hub) broadcast(msg StreamMsg) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("encode stream message", "type", msg.Type, "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- b:
		default:
		}
	}
}

// publishEvent runs under the simulation lock and never blocks.
func (h *hub) publishEvent(e engine.Event) {
	h.broadcast(StreamMsg{Type: MsgEvent, Payload: e})
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// broadcastLoop pushes status and agent summaries while anyone is watching.
func (s *Server) broadcastLoop() {
	interval := s.StreamInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.hub.done:
			return
		case <-ticker.C:
			if s.hub.count() == 0 {
				continue
			}
			s.hub.broadcast(StreamMsg{Type: MsgStatus, Payload: s.status()})
			s.hub.broadcast(StreamMsg{Type: MsgAgents, Payload: s.Sim.Summaries()})
		}
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id, ch, ok := s.hub.subscribe()
	if !ok {
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}
	defer s.hub.unsubscribe(id)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	slog.Info("stream client connected", "sub_id", id, "ip", clientIP(r))

	// Catch-up before live frames.
	if err := writeFrame(conn, StreamMsg{Type: MsgStatus, Payload: s.status()}); err != nil {
		return
	}
	for _, e := range s.Sim.RecentEvents(50) {
		if err := writeFrame(conn, StreamMsg{Type: MsgEvent, Payload: e}); err != nil {
			return
		}
	}

	// Reader: observers send nothing meaningful; detect disconnects.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()
	for {
		select {
		case b, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-heartbeat.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-gone:
			slog.Info("stream client disconnected", "sub_id", id)
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, msg StreamMsg) error {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(msg)
}
