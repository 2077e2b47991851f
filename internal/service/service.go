// Package service serves the companion health endpoint used by the browser
// extension side of the mod to check that the backend is up.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"
)

// DefaultName is reported by /health when no name is configured
const DefaultName = "iyf-tv-mod"

const shutdownTimeout = 5 * time.Second

// Health is the body of a /health response
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// NewRouter builds the HTTP handler
func NewRouter(name string) http.Handler {
	if name == "" {
		name = DefaultName
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowedHeaders:     []string{"*"},
		AllowCredentials:   true,
		OptionsPassthrough: true,
	}))
	r.Use(preflight)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(Health{Status: "ok", Service: name}); err != nil {
			log.Printf("Service: failed to write health response: %v", err)
		}
	})
	return r
}

// preflight answers CORS preflight requests with 204 once the cors
// middleware has accepted them. Rejected preflights fall through to the
// router.
func preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions &&
			r.Header.Get("Access-Control-Request-Method") != "" &&
			w.Header().Get("Access-Control-Allow-Methods") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Server is the health service
type Server struct {
	srv *http.Server
}

// New creates a server listening on addr
func New(addr, name string) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewRouter(name),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Service: listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Printf("Service: shutting down")
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	})

	return g.Wait()
}
