package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// initialEvent is the full projection sent when a subscriber connects.
func initialEvent(sessionID string, snap domain.Snapshot) (Event, error) {
	data, err := json.Marshal(domain.Diff(sessionID, nil, &snap))
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return Event{Type: EventSnapshot, Data: data}, nil
}

// handleSessionEvents streams session events as Server-Sent Events.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondStatus(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	var watch map[string]bool
	if v := r.URL.Query().Get("watch"); v != "" {
		watch = make(map[string]bool)
		for _, t := range strings.Split(v, ",") {
			watch[strings.TrimSpace(t)] = true
		}
	}

	events, cancel := s.streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if watch == nil || watch[EventSnapshot] {
		if ev, err := initialEvent(id, sess.Snapshot()); err == nil {
			writeSSE(w, ev)
		}
	}
	flusher.Flush()
	s.logger.Info("SSE client connected", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", id)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if watch != nil && !watch[ev.Type] {
				continue
			}
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
}

// handleSessionWS streams session events over a websocket. Incoming messages are ignored;
// reading only detects the client going away.
func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Failed to upgrade to websocket", "session_id", id, "err", err)
		return
	}
	defer conn.Close()

	events, cancel := s.streams.Subscribe(id)
	defer cancel()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	go func() {
		defer stop()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Debug("websocket read error", "session_id", id, "err", err)
				}
				return
			}
		}
	}()

	s.logger.Info("Websocket client connected", "session_id", id)
	if ev, err := initialEvent(id, sess.Snapshot()); err == nil {
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Websocket client disconnected", "session_id", id)
			return
		case ev, ok := <-events:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debug("websocket write failed", "session_id", id, "err", err)
				return
			}
		}
	}
}

// handleCatalogEvents streams catalog reload notifications.
func (s *Server) handleCatalogEvents(w http.ResponseWriter, r *http.Request) {
	watcher, ok := s.catalog.(Watcher)
	if !ok {
		s.respondStatus(w, http.StatusNotImplemented, "catalog does not support watching")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondStatus(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	reloads, err := watcher.Watch(r.Context())
	if err != nil {
		s.respondStatus(w, http.StatusNotImplemented, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case path, ok := <-reloads:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", path)
			flusher.Flush()
		}
	}
}
