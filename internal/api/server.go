// Package api exposes the observation log, statistics, and viewing
// forecasts over a JSON HTTP API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/meteorlog/internal/catalog"
	"github.com/lox/meteorlog/internal/journal"
	"github.com/lox/meteorlog/internal/notify"
)

type Server struct {
	journal *journal.Journal
	catalog *catalog.Catalog
	planner *notify.Planner
	port    string
	loc     *time.Location
}

func NewServer(j *journal.Journal, c *catalog.Catalog, p *notify.Planner, port string, loc *time.Location) *Server {
	return &Server{
		journal: j,
		catalog: c,
		planner: p,
		port:    port,
		loc:     loc,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/observations", s.handleListObservations)
	mux.HandleFunc("POST /api/observations", s.handleCreateObservation)
	mux.HandleFunc("GET /api/observations/{id}", s.handleGetObservation)
	mux.HandleFunc("PUT /api/observations/{id}", s.handleUpdateObservation)
	mux.HandleFunc("DELETE /api/observations/{id}", s.handleDeleteObservation)

	mux.HandleFunc("GET /api/stats", s.handleStats)

	mux.HandleFunc("GET /api/showers", s.handleListShowers)
	mux.HandleFunc("GET /api/showers/{id}", s.handleGetShower)
	mux.HandleFunc("GET /api/showers/{id}/conditions", s.handleConditions)

	mux.HandleFunc("GET /api/notifications/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/notifications/settings", s.handlePutSettings)
	mux.HandleFunc("GET /api/notifications/plan", s.handlePlan)

	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
