// Package restapi implements the thin REST facade spec.md §6 names as an
// external collaborator: it re-exports QueryEngine's public contract over
// HTTP using go-chi/chi, the router the teacher repo's own server uses.
package restapi

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ficengine/internal/platform/config"
	"ficengine/internal/platform/restapi/handler"
)

// Server wraps a chi router bound to a single HTTP address.
type Server struct {
	httpAddr string
	engine   *chi.Mux
}

// NewServer builds a Server listening on cfg.RESTPort, routing every
// request to h.
func NewServer(cfg config.Config, h *handler.Handler) *Server {
	srv := &Server{
		httpAddr: fmt.Sprintf(":%d", cfg.RESTPort),
		engine:   chi.NewRouter(),
	}
	srv.engine.Use(middleware.Logger)
	srv.registerRoutes(h)
	return srv
}

// Run blocks serving HTTP until the listener fails.
func (s *Server) Run() error {
	log.Println("ficengine REST facade listening on:", s.httpAddr)
	return http.ListenAndServe(s.httpAddr, s.engine)
}

func (s *Server) registerRoutes(h *handler.Handler) {
	s.engine.Get("/api/v1/tables", h.ListTables)
	s.engine.Get("/api/v1/tables/{table}/schema", h.Schema)
	s.engine.Get("/api/v1/tables/{table}/records", h.Select)
	s.engine.Post("/api/v1/tables/{table}/records", h.Insert)
	s.engine.Get("/api/v1/tables/{table}/records/{id}", h.Get)
	s.engine.Put("/api/v1/tables/{table}/records/{id}", h.Update)
	s.engine.Delete("/api/v1/tables/{table}/records/{id}", h.Delete)
}
