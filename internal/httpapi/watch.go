package httpapi

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/csec-tutor/study-server/internal/syllabus"
)

// Notification tells a watcher that something changed for a user+subject.
// Clients re-request the schedule on receipt; the server never pushes
// regenerated schedules over the socket.
type Notification struct {
	UserID  string `json:"user_id"`
	Subject string `json:"subject"`
	Topic   string `json:"topic,omitempty"`
	Event   string `json:"event"`
}

// Hub fans progress-change notifications out to websocket watchers.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Notification]struct{} // user:subject -> subscribers
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[chan Notification]struct{}),
	}
}

// Subscribe registers a watcher for a user+subject. The returned function
// removes the subscription and must be called when the watcher is done.
func (h *Hub) Subscribe(userID, subjectKey string) (<-chan Notification, func()) {
	ch := make(chan Notification, 8)
	key := userID + ":" + subjectKey

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan Notification]struct{})
	}
	h.subs[key][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[key]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, key)
			}
		}
	}
	return ch, cancel
}

// Notify delivers a notification to every watcher of its user+subject.
// Slow watchers are skipped rather than blocked on.
func (h *Hub) Notify(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[n.UserID+":"+n.Subject] {
		select {
		case ch <- n:
		default:
		}
	}
}

func (s *Server) handleScheduleWatch(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	subject := r.URL.Query().Get("subject")
	if userID == "" || subject == "" {
		writeError(w, http.StatusBadRequest, "user_id and subject are required")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	ch, cancel := s.hub.Subscribe(userID, syllabus.NormalizeKey(subject))
	defer cancel()

	// Drain client frames so pings are answered and closure is noticed.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		case <-readDone:
			return
		case n := <-ch:
			if err := wsjson.Write(ctx, conn, n); err != nil {
				slog.Debug("websocket write failed", "user_id", userID, "error", err)
				return
			}
		}
	}
}
