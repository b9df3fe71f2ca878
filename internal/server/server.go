package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/soar/padstate/internal/hub"
	"github.com/soar/padstate/internal/logger"
)

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	events      http.Handler
	static      *static
	addr        string
	log         logger.Logger
	httpServer  *http.Server
}

// New prepares the server. events serves the transition feed on /events.
func New(h *hub.Hub, b *hub.Broadcaster, events http.Handler, frontendFS fs.FS, addr string, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Discard{}
	}
	st, err := newStatic(frontendFS)
	if err != nil {
		return nil, fmt.Errorf("load frontend: %w", err)
	}
	return &Server{
		hub:         h,
		broadcaster: b,
		events:      events,
		static:      st,
		addr:        addr,
		log:         log,
	}, nil
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/ws", &stateHandler{hub: s.hub, broadcaster: s.broadcaster, log: s.log})
	if s.events != nil {
		mux.Handle("/events", s.events)
	}
	mux.Handle("/", s.static)
	return mux
}

func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	s.log.Info("HTTP server listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.log.Info("shutting down HTTP server...")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
