package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/workshop/internal/logging"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
	"github.com/aretw0/workshop/pkg/sound"
)

// Event types pushed to stream subscribers.
const (
	EventSnapshot = "snapshot"
	EventCue      = "cue"
)

// Event is one message on a session stream.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type cueData struct {
	Cue domain.Cue `json:"cue"`
}

// StreamManager fans session events out to SSE and websocket subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{} // SessionID -> Set of Channels

	lastMu sync.Mutex
	last   map[string]domain.Snapshot

	logger *slog.Logger
}

// NewStreamManager creates an empty StreamManager. A nil logger discards output.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan Event]struct{}),
		last:        make(map[string]domain.Snapshot),
		logger:      logger,
	}
}

// Subscribe registers a subscriber for a session. The returned function unsubscribes;
// the channel is closed when either it runs or the session is forgotten.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Event, 16)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan Event]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		subs, ok := sm.subscribers[sessionID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(sm.subscribers, sessionID)
		}
	}
}

// Broadcast delivers ev to every subscriber of the session without blocking.
func (sm *StreamManager) Broadcast(sessionID string, ev Event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- ev:
		default:
			sm.logger.Warn("Stream client buffer full, dropping event", "session_id", sessionID, "type", ev.Type)
		}
	}
}

// Publish broadcasts the difference between snap and the previous projection of
// the session. Its signature matches session.Listener.
func (sm *StreamManager) Publish(sessionID string, snap domain.Snapshot) {
	sm.lastMu.Lock()
	var prev *domain.Snapshot
	if old, ok := sm.last[sessionID]; ok {
		prev = &old
	}
	sm.last[sessionID] = snap.Clone()
	sm.lastMu.Unlock()

	diff := domain.Diff(sessionID, prev, &snap)
	if diff == nil {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		sm.logger.Error("Failed to encode snapshot diff", "session_id", sessionID, "err", err)
		return
	}
	sm.Broadcast(sessionID, Event{Type: EventSnapshot, Data: data})
}

// SinkFactory returns a cue sink factory for session.WithSinkFactory. Each cue is
// broadcast to the session's subscribers, unless mute is set, and then handed to next.
func (sm *StreamManager) SinkFactory(mute *sound.Mute, next ports.CueSink) func(sessionID string) ports.CueSink {
	return func(sessionID string) ports.CueSink {
		return &streamSink{sm: sm, sessionID: sessionID, mute: mute, next: next}
	}
}

// Forget closes every subscriber of the session and drops its last projection.
func (sm *StreamManager) Forget(sessionID string) {
	sm.mu.Lock()
	for ch := range sm.subscribers[sessionID] {
		close(ch)
	}
	delete(sm.subscribers, sessionID)
	sm.mu.Unlock()

	sm.lastMu.Lock()
	delete(sm.last, sessionID)
	sm.lastMu.Unlock()
}

type streamSink struct {
	sm        *StreamManager
	sessionID string
	mute      *sound.Mute
	next      ports.CueSink
}

func (s *streamSink) Play(cue domain.Cue) {
	if s.mute == nil || !s.mute.Muted() {
		data, _ := json.Marshal(cueData{Cue: cue})
		s.sm.Broadcast(s.sessionID, Event{Type: EventCue, Data: data})
	}
	if s.next != nil {
		s.next.Play(cue)
	}
}
