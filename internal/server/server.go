// Package server exposes the node catalog and the validation engine over a
// small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-nodeconfig/internal/config"
	"github.com/goliatone/go-nodeconfig/internal/metrics"
	"github.com/goliatone/go-nodeconfig/pkg/catalog"
	"github.com/goliatone/go-nodeconfig/pkg/engine"
	"github.com/goliatone/go-nodeconfig/pkg/report"
	"github.com/goliatone/go-nodeconfig/pkg/schema"
	"github.com/goliatone/go-nodeconfig/pkg/visibility"
)

// Catalog is the subset of the registry the server needs.
type Catalog interface {
	All() []catalog.NodeKind
	Get(id string) (catalog.NodeKind, bool)
	Compiled(id string) (*engine.Compiled, error)
}

// Server holds the handler dependencies.
type Server struct {
	Catalog Catalog
	Metrics *metrics.Metrics
	Log     *zap.SugaredLogger

	// MaxBodyBytes caps request bodies. Zero disables the limit.
	MaxBodyBytes int64
}

// ValuesRequest is the body accepted by the validate and visible routes.
type ValuesRequest struct {
	Values schema.Values  `json:"values"`
	Extras map[string]any `json:"extras,omitempty"`
}

// VisibleResponse lists the keys of the fields currently shown.
type VisibleResponse struct {
	Fields []string `json:"fields"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler for s.
func NewHandler(s *Server) http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop().Sugar()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Route("/kinds", func(r chi.Router) {
		r.Get("/", s.ListKinds)
		r.Get("/{kind}", s.GetKind)
		r.Post("/{kind}/validate", s.Validate)
		r.Post("/{kind}/visible", s.Visible)
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}
	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListKinds handles GET /kinds.
func (s *Server) ListKinds(w http.ResponseWriter, _ *http.Request) {
	kinds := s.Catalog.All()
	out := make([]catalog.Summary, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, kind.Summary())
	}
	writeJSON(w, http.StatusOK, out)
}

// GetKind handles GET /kinds/{kind}.
func (s *Server) GetKind(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "kind")
	kind, ok := s.Catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown node kind %q", id))
		return
	}
	writeJSON(w, http.StatusOK, kind)
}

// Validate handles POST /kinds/{kind}/validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "kind")
	compiled, ok := s.compiled(w, id)
	if !ok {
		return
	}
	body, ok := s.decode(w, r)
	if !ok {
		return
	}

	start := time.Now()
	eval := compiled.Evaluate(visibility.Context{Values: body.Values, Extras: body.Extras})
	s.Metrics.Observe(id, eval.Issues, time.Since(start))

	result := eval.Result()
	s.Log.Debugw("validated",
		"kind", id,
		"valid", result.Valid(),
		"errors", len(result),
		"request_id", middleware.GetReqID(r.Context()),
	)
	writeJSON(w, http.StatusOK, report.NewPayload(result))
}

// Visible handles POST /kinds/{kind}/visible.
func (s *Server) Visible(w http.ResponseWriter, r *http.Request) {
	compiled, ok := s.compiled(w, chi.URLParam(r, "kind"))
	if !ok {
		return
	}
	body, ok := s.decode(w, r)
	if !ok {
		return
	}

	eval := compiled.Evaluate(visibility.Context{Values: body.Values, Extras: body.Extras})
	keys := make([]string, 0, len(eval.Visible))
	for _, def := range eval.Visible {
		keys = append(keys, def.Key)
	}
	writeJSON(w, http.StatusOK, VisibleResponse{Fields: keys})
}

func (s *Server) compiled(w http.ResponseWriter, id string) (*engine.Compiled, bool) {
	compiled, err := s.Catalog.Compiled(id)
	if errors.Is(err, catalog.ErrUnknownKind) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown node kind %q", id))
		return nil, false
	}
	if err != nil {
		s.Log.Errorw("compiled schema lookup failed", "kind", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return compiled, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (ValuesRequest, bool) {
	if s.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)
	}
	var body ValuesRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return body, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return body, false
	}
	return body, true
}

// Run serves handler according to cfg until ctx is cancelled, then shuts the
// listener down within cfg.ShutdownTimeout.
func Run(ctx context.Context, cfg config.HTTP, handler http.Handler, log *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)

	case <-ctx.Done():
		log.Infow("http server shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("server: graceful shutdown: %w", err)
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
