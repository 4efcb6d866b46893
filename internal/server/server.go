package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/datatalk/datatalk/internal/config"
	"github.com/datatalk/datatalk/internal/service"
)

type Server struct {
	cfg       *config.Config
	http      *http.Server
	analytics *service.AnalyticsService
	catalog   *service.Catalog // nil when BigQuery is unavailable
}

func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg}

	router, err := s.setupRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 320 * time.Second, // must outlast the 300s chat call
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.http.Shutdown(shutdownCtx)
		s.closeClients()
		return err
	case err := <-errCh:
		s.closeClients()
		return err
	}
}

func (s *Server) closeClients() {
	if s.analytics != nil {
		if err := s.analytics.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing analytics clients")
		}
	}
	if s.catalog != nil {
		if err := s.catalog.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing BigQuery client")
		}
	}
}
