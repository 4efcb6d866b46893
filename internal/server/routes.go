package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/datatalk/datatalk/internal/agent"
	"github.com/datatalk/datatalk/internal/handler"
	"github.com/datatalk/datatalk/internal/middleware"
	"github.com/datatalk/datatalk/internal/service"
)

func (s *Server) setupRoutes(ctx context.Context) (http.Handler, error) {
	cfg := s.cfg

	// ─── Remote services ────────────────────────────────────────────────────────
	analytics, err := service.NewAnalyticsService(ctx, cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("analytics clients: %w", err)
	}
	s.analytics = analytics

	if cfg.ProjectID != "" {
		catalog, catErr := service.NewCatalog(ctx, cfg.ProjectID, cfg.CredentialsPath)
		if catErr != nil {
			log.Warn().Err(catErr).Msg("BigQuery catalog unavailable, table discovery will use fallbacks")
		} else {
			s.catalog = catalog
		}
	} else {
		log.Warn().Msg("GOOGLE_CLOUD_PROJECT_ID not set - table discovery will use fallbacks")
	}

	// ─── Chatbot ────────────────────────────────────────────────────────────────
	settings := agent.Settings{
		ProjectID: cfg.ProjectID,
		Location:  cfg.Location,
		DatasetID: cfg.DatasetID,
		TableID:   cfg.TableID,
		AgentID:   cfg.AgentID,
	}
	var catalog agent.TableCatalog
	if s.catalog != nil {
		catalog = s.catalog
	}
	bot := agent.NewChatbot(settings, agent.NewResolver(analytics), analytics, catalog)

	log.Info().
		Str("project", cfg.ProjectID).
		Str("location", cfg.Location).
		Str("dataset", cfg.DatasetID).
		Bool("catalog_enabled", s.catalog != nil).
		Msg("service configuration")

	// ─── Handlers ───────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler()
	initH := handler.NewInitializeHandler(bot)
	chatH := handler.NewChatHandler(bot)

	// ─── Router ─────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	// RequestID first so recovery and logging can tag their entries with it.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthH.Health)
		r.Post("/initialize", initH.Initialize)
		r.Post("/chat", chatH.Chat)
	})

	return r, nil
}
