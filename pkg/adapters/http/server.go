package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/workshop"
	"github.com/aretw0/workshop/internal/logging"
	"github.com/aretw0/workshop/pkg/domain"
	"github.com/aretw0/workshop/pkg/session"
	"github.com/aretw0/workshop/pkg/sound"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize bounds request bodies. Commands and drag payloads are tiny.
const maxBodySize = 64 << 10

// Catalog lists the exercises offered by the server. *workshop.Workshop satisfies it.
type Catalog interface {
	Exercises(ctx context.Context) ([]domain.Exercise, error)
	Exercise(ctx context.Context, id string) (domain.Exercise, error)
}

// Watcher is implemented by catalogs that can signal content reloads.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// Config holds the dependencies of a Server.
type Config struct {
	Catalog  Catalog
	Sessions *session.Manager
	// Streams must be the StreamManager wired into Sessions. Without it the
	// event endpoints only ever send the initial snapshot.
	Streams *StreamManager
	// Mute backs the /sound endpoints. Nil reports sound as muted and rejects changes.
	Mute *sound.Mute
	// Metrics, when set, is exposed on /metrics.
	Metrics     prometheus.Gatherer
	CORSOrigins []string
	Logger      *slog.Logger
}

// Server serves the workshop JSON API.
type Server struct {
	catalog  Catalog
	sessions *session.Manager
	streams  *StreamManager
	mute     *sound.Mute
	logger   *slog.Logger
	router   *chi.Mux

	apiVersion string
}

// NewServer builds the router. It fails when the embedded API document is invalid.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Catalog == nil || cfg.Sessions == nil {
		return nil, errors.New("http server requires a catalog and a session manager")
	}
	spec, err := LoadSpec()
	if err != nil {
		return nil, err
	}

	s := &Server{
		catalog:    cfg.Catalog,
		sessions:   cfg.Sessions,
		streams:    cfg.Streams,
		mute:       cfg.Mute,
		logger:     cfg.Logger,
		apiVersion: spec.Info.Version,
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.streams == nil {
		s.streams = NewStreamManager(s.logger)
	}
	s.setupRouter(cfg)
	return s, nil
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter(cfg Config) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/info", s.handleInfo)
	r.Get("/openapi.yaml", s.handleSpec)
	r.Get("/events", s.handleCatalogEvents)
	if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/exercises", func(r chi.Router) {
		r.Get("/", s.handleListExercises)
		r.Get("/{exerciseID}", s.handleGetExercise)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Post("/", s.handleOpenSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleCloseSession)
			r.Post("/drag", s.handleDrag)
			r.Post("/drop", s.handleDrop)
			r.Post("/check", s.handleCheck)
			r.Post("/reset", s.handleReset)
			r.Post("/next", s.handleNext)
			r.Get("/events", s.handleSessionEvents)
			r.Get("/ws", s.handleSessionWS)
		})
	})

	r.Get("/sound", s.handleGetSound)
	r.Put("/sound", s.handleSetSound)

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"app":         "workshop-http",
		"version":     workshop.Version,
		"api_version": s.apiVersion,
	})
}

func (s *Server) handleSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(rawSpec)
}

// ExerciseSummary describes an exercise without revealing its answers.
type ExerciseSummary struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	Order        int                 `json:"order"`
	Layout       domain.Layout       `json:"layout"`
	Verification domain.Verification `json:"verification"`
	Problems     int                 `json:"problems"`
}

func summarize(ex domain.Exercise) ExerciseSummary {
	return ExerciseSummary{
		ID:           ex.ID,
		Title:        ex.Title,
		Description:  ex.Description,
		Order:        ex.Order,
		Layout:       ex.Rules.Layout,
		Verification: ex.Rules.Verification,
		Problems:     len(ex.Problems),
	}
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exs, err := s.catalog.Exercises(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	out := make([]ExerciseSummary, 0, len(exs))
	for _, ex := range exs {
		out = append(out, summarize(ex))
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := s.catalog.Exercise(r.Context(), chi.URLParam(r, "exerciseID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, summarize(ex))
}

type soundState struct {
	Muted *bool `json:"muted"`
}

func (s *Server) handleGetSound(w http.ResponseWriter, r *http.Request) {
	muted := s.mute == nil || s.mute.Muted()
	s.respondJSON(w, http.StatusOK, soundState{Muted: &muted})
}

func (s *Server) handleSetSound(w http.ResponseWriter, r *http.Request) {
	if s.mute == nil {
		s.respondStatus(w, http.StatusNotImplemented, "sound is not available")
		return
	}
	var body soundState
	if err := s.decode(w, r, &body); err != nil {
		return
	}
	if body.Muted == nil {
		s.respondStatus(w, http.StatusBadRequest, "muted is required")
		return
	}
	s.mute.Set(*body.Muted)
	s.logger.Info("Sound toggled", "muted", *body.Muted)
	s.handleGetSound(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode response", "err", err)
	}
}

func (s *Server) respondStatus(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, errorResponse{Error: msg})
}

// respondError maps domain errors to status codes.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrExerciseNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedPayload):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	s.respondStatus(w, status, err.Error())
}

// decode reads a bounded JSON body into v and answers 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		s.respondStatus(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return err
	}
	return nil
}
