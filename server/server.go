package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"tavern/server/middleware"
)

const shutdownTimeout = 10 * time.Second

// Server contains the http server and configuration.
type Server struct {
	server *http.Server
	conf   Config
}

// New creates a new instance of Server serving handler behind the CORS and
// logger middleware. observer may be nil.
func New(config Config, handler http.Handler, observer middleware.Observer) *Server {
	mds := []middleware.Interceptor{
		middleware.NewLogger(observer),
		middleware.NewCORS(),
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           middleware.Set(handler, mds...),
	}
	return &Server{
		server: srv,
		conf:   config,
	}
}

// Handler returns the handler with the middleware applied.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		errs <- s.start()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down server on port %d", s.conf.Port)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errs
}

func (s *Server) start() error {
	var err error
	if s.conf.TLS() {
		log.Printf("Starting server port on %d, with TLS", s.conf.Port)
		err = s.server.ListenAndServeTLS(s.conf.CertFile, s.conf.KeyFile)
	} else {
		log.Printf("Starting server port on %d, without TLS", s.conf.Port)
		err = s.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
