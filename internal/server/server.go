// Package server exposes board enumeration and the inventory over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/EmuxEvans/mbed-ls/internal/boards"
	"github.com/EmuxEvans/mbed-ls/internal/cache"
	"github.com/EmuxEvans/mbed-ls/internal/inventory"
	"github.com/EmuxEvans/mbed-ls/internal/version"
)

const boardsKey = "boards"

// Enumerator is satisfied by *boards.Detector
type Enumerator interface {
	Enumerate(ctx context.Context) ([]boards.Board, error)
}

type Options struct {
	Enumerator Enumerator
	// Inventory is optional; the /api/inventory routes are only mounted when set
	Inventory   *inventory.DB
	CacheTTL    time.Duration
	CORSOrigins []string
	Logger      zerolog.Logger
	// Registry defaults to a fresh prometheus registry
	Registry *prometheus.Registry
}

type Server struct {
	opts    Options
	cache   *cache.Cache
	metrics *metrics
	logger  zerolog.Logger
}

func New(opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	return &Server{
		opts:    opts,
		cache:   cache.New(),
		metrics: newMetrics(opts.Registry),
		logger:  opts.Logger.With().Str("component", "server").Logger(),
	}
}

// Router builds the HTTP handler tree
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(zerologMiddleware(&s.logger))

	if len(s.opts.CORSOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		})
		r.Use(c.Handler)
	}

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "version": version.Version})
	})

	r.Get("/api/boards", func(w http.ResponseWriter, r *http.Request) {
		list, err := s.boards(r.Context(), r.URL.Query().Get("refresh") == "1")
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	if s.opts.Inventory != nil {
		r.Route("/api/inventory", func(r chi.Router) {
			r.Get("/boards", func(w http.ResponseWriter, r *http.Request) {
				list, err := s.opts.Inventory.GetAllBoards(r.URL.Query().Get("present") == "1")
				if err != nil {
					writeError(w, err)
					return
				}
				writeJSON(w, http.StatusOK, nonNil(list))
			})
			r.Get("/boards/{targetID}/events", func(w http.ResponseWriter, r *http.Request) {
				events, err := s.opts.Inventory.GetBoardEvents(chi.URLParam(r, "targetID"), limitParam(r))
				if err != nil {
					writeError(w, err)
					return
				}
				writeJSON(w, http.StatusOK, nonNil(events))
			})
			r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
				events, err := s.opts.Inventory.GetRecentEvents(limitParam(r))
				if err != nil {
					writeError(w, err)
					return
				}
				writeJSON(w, http.StatusOK, nonNil(events))
			})
			r.Post("/sync", func(w http.ResponseWriter, r *http.Request) {
				res, err := s.Sync(r.Context())
				if err != nil {
					writeError(w, err)
					return
				}
				writeJSON(w, http.StatusOK, res)
			})
		})
	}

	r.Handle("/metrics", s.metrics.handler())
	return r
}

// boards returns the cached enumeration when it is younger than CacheTTL
func (s *Server) boards(ctx context.Context, refresh bool) ([]boards.Board, error) {
	if !refresh && s.opts.CacheTTL > 0 {
		if v, ok := s.cache.Get(boardsKey).([]boards.Board); ok {
			return v, nil
		}
	}

	start := time.Now()
	list, err := s.opts.Enumerator.Enumerate(ctx)
	s.metrics.observe(time.Since(start), len(list), err)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []boards.Board{}
	}
	if s.opts.CacheTTL > 0 {
		s.cache.Set(boardsKey, list, s.opts.CacheTTL)
	}
	return list, nil
}

// Sync enumerates afresh and records the result in the inventory
func (s *Server) Sync(ctx context.Context) (*inventory.SyncResult, error) {
	if s.opts.Inventory == nil {
		return nil, errors.New("inventory not configured")
	}
	list, err := s.boards(ctx, true)
	if err != nil {
		return nil, err
	}
	return s.opts.Inventory.Sync(list)
}

func limitParam(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return n
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, boards.ErrToolingUnavailable) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
