// Package httpapi exposes the schedule generator and progress store to the
// calendar UI over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/csec-tutor/study-server/internal/analytics"
	"github.com/csec-tutor/study-server/internal/platform/cache"
	"github.com/csec-tutor/study-server/internal/platform/database"
	"github.com/csec-tutor/study-server/internal/progress"
	"github.com/csec-tutor/study-server/internal/schedule"
	"github.com/csec-tutor/study-server/internal/syllabus"
)

const defaultScheduleTTL = 15 * time.Minute

// ServerConfig holds dependencies for the HTTP API.
type ServerConfig struct {
	Generator   *schedule.Generator
	Catalog     *syllabus.Loader
	Store       progress.Store
	Cache       *cache.Cache // optional; no caching when nil
	DB          *database.DB // optional; used by readiness checks
	Events      analytics.Logger
	ScheduleTTL time.Duration
}

// Server handles the HTTP API.
type Server struct {
	gen         *schedule.Generator
	catalog     *syllabus.Loader
	store       progress.Store
	cache       *cache.Cache
	db          *database.DB
	events      analytics.Logger
	hub         *Hub
	scheduleTTL time.Duration
}

// NewServer creates the API server.
func NewServer(cfg ServerConfig) *Server {
	store := cfg.Store
	if store == nil {
		store = progress.NewMemoryStore()
	}
	events := cfg.Events
	if events == nil {
		events = analytics.NopLogger{}
	}
	ttl := cfg.ScheduleTTL
	if ttl == 0 {
		ttl = defaultScheduleTTL
	}
	return &Server{
		gen:         cfg.Generator,
		catalog:     cfg.Catalog,
		store:       store,
		cache:       cfg.Cache,
		db:          cfg.DB,
		events:      events,
		hub:         NewHub(),
		scheduleTTL: ttl,
	}
}

// Routes returns the HTTP router.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.HandleFunc("POST /v1/schedule", s.handleSchedule)
	mux.HandleFunc("POST /v1/schedule/export", s.handleScheduleExport)
	mux.HandleFunc("GET /v1/schedule/watch", s.handleScheduleWatch)
	mux.HandleFunc("GET /v1/progress", s.handleProgressGet)
	mux.HandleFunc("PUT /v1/progress", s.handleProgressPut)
	return mux
}
