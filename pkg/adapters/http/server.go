// Package http exposes a ports.Driver over HTTP and provides the matching client,
// so chains can run in one process against a document held by another.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rodrigues2k/fluent-selenium"
	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
)

// LocatorRequest is the body of find requests.
type LocatorRequest struct {
	Using string `json:"using"`
	Value string `json:"value"`
}

// KeysRequest is the body of POST /element/{id}/value.
type KeysRequest struct {
	Text []string `json:"text"`
}

// ValueResponse wraps every successful read.
type ValueResponse struct {
	Value any `json:"value"`
}

// SessionHeader scopes element handles to one client, so DELETE /elements
// releases only that client's handles.
const SessionHeader = "X-Fluent-Session"

// Default bounds of the handle table.
const (
	DefaultMaxHandles = 10000
	DefaultHandleTTL  = 10 * time.Minute
)

// Server serves one driver. Element handles are uuids held in a bounded table:
// the least recently used handle is evicted when the table is full, and idle
// handles expire. Evicted, expired and released handles report a stale element.
type Server struct {
	driver     ports.Driver
	logger     *slog.Logger
	runner     bool
	chainOpts  []fluent.Option
	maxHandles int
	handleTTL  time.Duration

	handles *expirable.LRU[string, handle]
}

type handle struct {
	session string
	elem    ports.Element
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithHandleLimit bounds the number of live element handles.
func WithHandleLimit(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxHandles = n
		}
	}
}

// WithHandleTTL sets how long an unused handle is kept.
func WithHandleTTL(ttl time.Duration) ServerOption {
	return func(s *Server) {
		if ttl > 0 {
			s.handleTTL = ttl
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a server for driver.
func NewServer(driver ports.Driver, opts ...ServerOption) *Server {
	s := &Server{
		driver:     driver,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxHandles: DefaultMaxHandles,
		handleTTL:  DefaultHandleTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handles = expirable.NewLRU[string, handle](s.maxHandles, nil, s.handleTTL)
	return s
}

// NewHandler creates the HTTP handler for driver.
func NewHandler(driver ports.Driver, opts ...ServerOption) http.Handler {
	return NewServer(driver, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.runner {
		r.Post("/run", s.Run)
	}

	r.Post("/element", s.find(false))
	r.Post("/elements", s.find(true))
	r.Delete("/elements", s.Release)

	r.Route("/element/{id}", func(r chi.Router) {
		r.Post("/element", s.find(false))
		r.Post("/elements", s.find(true))

		r.Post("/click", s.act(func(req *http.Request, e ports.Element) error { return e.Click(req.Context()) }))
		r.Post("/clear", s.act(func(req *http.Request, e ports.Element) error { return e.Clear(req.Context()) }))
		r.Post("/submit", s.act(func(req *http.Request, e ports.Element) error { return e.Submit(req.Context()) }))
		r.Post("/value", s.act(func(req *http.Request, e ports.Element) error {
			var body KeysRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalidArgument)
			}
			return e.SendKeys(req.Context(), body.Text...)
		}))

		r.Get("/name", s.read(func(req *http.Request, e ports.Element) (any, error) { return e.TagName(req.Context()) }))
		r.Get("/text", s.read(func(req *http.Request, e ports.Element) (any, error) { return e.Text(req.Context()) }))
		r.Get("/selected", s.read(func(req *http.Request, e ports.Element) (any, error) { return e.IsSelected(req.Context()) }))
		r.Get("/enabled", s.read(func(req *http.Request, e ports.Element) (any, error) { return e.IsEnabled(req.Context()) }))
		r.Get("/displayed", s.read(func(req *http.Request, e ports.Element) (any, error) { return e.IsDisplayed(req.Context()) }))
		r.Get("/location", s.read(func(req *http.Request, e ports.Element) (any, error) { return e.Location(req.Context()) }))
		r.Get("/size", s.read(func(req *http.Request, e ports.Element) (any, error) { return e.Size(req.Context()) }))
		r.Get("/attribute/{name}", s.read(func(req *http.Request, e ports.Element) (any, error) {
			return e.Attribute(req.Context(), chi.URLParam(req, "name"))
		}))
		r.Get("/css/{name}", s.read(func(req *http.Request, e ports.Element) (any, error) {
			return e.CSSValue(req.Context(), chi.URLParam(req, "name"))
		}))
	})
	return r
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{
		"app":     "fluent-http",
		"version": strings.TrimSpace(fluent.Version),
		"handles": s.handles.Len(),
	})
}

// Release handles DELETE /elements and forgets the handles of the calling session.
func (s *Server) Release(w http.ResponseWriter, r *http.Request) {
	session := r.Header.Get(SessionHeader)
	n := 0
	for _, id := range s.handles.Keys() {
		if h, ok := s.handles.Peek(id); ok && h.session == session {
			s.handles.Remove(id)
			n++
		}
	}
	s.logger.Debug("Released element handles", "session", session, "count", n)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) find(many bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body LocatorRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.fail(w, r, fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalidArgument))
			return
		}
		locator, err := by.Parse(body.Using, body.Value)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		sc, err := s.searchContext(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		if !many {
			found, err := sc.FindElement(r.Context(), locator)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			s.respond(w, http.StatusOK, ValueResponse{Value: s.register(r, found)})
			return
		}

		found, err := sc.FindElements(r.Context(), locator)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		ids := make([]string, len(found))
		for i, e := range found {
			ids[i] = s.register(r, e)
		}
		s.respond(w, http.StatusOK, ValueResponse{Value: ids})
	}
}

func (s *Server) act(fn func(*http.Request, ports.Element) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := s.element(r)
		if err == nil {
			err = fn(r, e)
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) read(fn func(*http.Request, ports.Element) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := s.element(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		v, err := fn(r, e)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.respond(w, http.StatusOK, ValueResponse{Value: v})
	}
}

func (s *Server) searchContext(r *http.Request) (ports.SearchContext, error) {
	if chi.URLParam(r, "id") == "" {
		return s.driver, nil
	}
	return s.element(r)
}

func (s *Server) element(r *http.Request) (ports.Element, error) {
	id := chi.URLParam(r, "id")
	h, ok := s.handles.Get(id)
	if !ok {
		return nil, fmt.Errorf("element handle %q was released or expired: %w", id, domain.ErrStaleElement)
	}
	return h.elem, nil
}

func (s *Server) register(r *http.Request, e ports.Element) string {
	id := uuid.NewString()
	s.handles.Add(id, handle{session: r.Header.Get(SessionHeader), elem: e})
	return id
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	body, status := encodeError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("Request rejected", "path", r.URL.Path, "code", body.Error, "error", err)
	}
	s.respond(w, status, body)
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}
