// Package httpapi serves the catalog, verses, audio and prayer data as a
// JSON API for web clients.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	requestTimeout    = 30 * time.Second
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server wraps the chi router and the http.Server.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *zap.Logger

	catalog CatalogService
	verses  VerseService
	prayer  PrayerService
	checks  []Check
}

// NewServer builds the router with its middleware chain and routes.
func NewServer(addr string, logger *zap.Logger, services Services) *Server {
	s := &Server{
		logger:  logger,
		catalog: services.Catalog,
		verses:  services.Verses,
		prayer:  services.Prayer,
		checks:  services.Checks,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(chimw.CleanPath)

	r.Get("/health", s.liveness)
	r.Get("/ready", s.readiness)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/surahs", s.listSurahs)
		api.Route("/surahs/{number}", func(sr chi.Router) {
			sr.Get("/", s.getSurah)
			sr.Get("/verses", s.getVerses)
			sr.Get("/audio", s.getSurahAudio)
		})
		api.Get("/reciters", s.listReciters)
		api.Get("/prayer-times", s.getPrayerTimes)
		api.Get("/qibla", s.getQibla)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorEnvelope{Error: "route not found", Code: "not_found"})
	})

	s.router = r
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server is shut down. A graceful shutdown
// returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting up to timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
