package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/mww/draft_scout/config"
	"github.com/mww/draft_scout/controller"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/unrolled/render"
)

type Server struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewServer builds the HTTP server. gatherer backs /metrics and may be nil.
func NewServer(cfg *config.Config, ctrl controller.C, gatherer prometheus.Gatherer) (*Server, error) {
	render := newRender()
	router := getRouter(ctrl, render, gatherer, cfg.RequestTimeout)

	s := &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: router,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	return s, nil
}

func (s *Server) ListenAndServe(shutdown chan bool, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()

		// Wait for the shutdown signal and safely close the server.
		<-shutdown

		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			log.Fatalf("fatal error shutting down server: %v", err)
		}
	}()

	log.Printf("web server is listening on %s", s.server.Addr)
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatalf("fatal error with server: %v", err)
	}
}

func newRender() *render.Render {
	return render.New(render.Options{
		UnEscapeHTML: true,
	})
}
