package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"igrelay/pkg/config"
	"igrelay/pkg/logger"
)

// Server is a minimal liveness responder: any request on any path gets
// a fixed 200 text reply. Platform health checkers only care that the
// process answers.
type Server struct {
	server *http.Server
	logger logger.Logger
}

// NewServer creates a liveness server bound to the configured address
func NewServer(cfg *config.HealthConfig, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		logger: log,
	}
}

// Start begins serving in the calling goroutine. It returns nil after a
// graceful shutdown.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("liveness endpoint listening")

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server, waiting for in-flight requests up to the
// context deadline
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
