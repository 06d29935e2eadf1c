package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/ports"
	"github.com/aretw0/workshop/pkg/session"
	"github.com/go-chi/chi/v5"
)

type sessionResponse struct {
	session.Info
	Snapshot domain.Snapshot `json:"snapshot"`
}

type snapshotResponse struct {
	Snapshot domain.Snapshot `json:"snapshot"`
}

type dropResponse struct {
	domain.DropResult
	Snapshot domain.Snapshot `json:"snapshot"`
}

type checkResponse struct {
	domain.CheckResult
	Snapshot domain.Snapshot `json:"snapshot"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.sessions.List())
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ExerciseID string `json:"exercise_id"`
	}
	if err := s.decode(w, r, &body); err != nil {
		return
	}
	if body.ExerciseID == "" {
		s.respondStatus(w, http.StatusBadRequest, "exercise_id is required")
		return
	}

	id, sess, err := s.sessions.Open(r.Context(), body.ExerciseID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	info, err := s.sessions.Info(id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+id)
	s.respondJSON(w, http.StatusCreated, sessionResponse{Info: info, Snapshot: sess.Snapshot()})
}

// lookup resolves the session named in the URL, answering 404 when it is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, ports.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.respondError(w, err)
		return "", nil, false
	}
	return id, sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	info, err := s.sessions.Info(id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sessionResponse{Info: info, Snapshot: sess.Snapshot()})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.sessions.Close(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	s.streams.Forget(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body struct {
		Item domain.ItemID `json:"item"`
	}
	if err := s.decode(w, r, &body); err != nil {
		return
	}

	env, ok := sess.Drag(r.Context(), body.Item)
	if !ok {
		s.respondStatus(w, http.StatusConflict, "item "+strconv.Quote(string(body.Item))+" cannot be dragged")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]domain.Envelope{"payload": env})
}

// handleDrop applies a drag payload. The payload may be the envelope object itself
// or its JSON text, as browsers carry it in a string data transfer.
func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body struct {
		Payload json.RawMessage `json:"payload"`
		Target  domain.Location `json:"target"`
	}
	if err := s.decode(w, r, &body); err != nil {
		return
	}

	raw := []byte(body.Payload)
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		raw = []byte(text)
	}

	res := sess.DropRaw(r.Context(), raw, body.Target)
	s.respondJSON(w, http.StatusOK, dropResponse{DropResult: res, Snapshot: sess.Snapshot()})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	res := sess.Check(r.Context())
	s.respondJSON(w, http.StatusOK, checkResponse{CheckResult: res, Snapshot: sess.Snapshot()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.Reset(r.Context())
	s.respondJSON(w, http.StatusOK, snapshotResponse{Snapshot: sess.Snapshot()})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.Next(r.Context())
	s.respondJSON(w, http.StatusOK, snapshotResponse{Snapshot: sess.Snapshot()})
}
