package server

import (
	"net/http"
	"time"

	"github.com/gearbox-ai/gearbox/internal/agent"
	"github.com/gearbox-ai/gearbox/internal/handler"
	"github.com/gearbox-ai/gearbox/internal/middleware"
	"github.com/gearbox-ai/gearbox/internal/security"
	"github.com/gearbox-ai/gearbox/internal/service"
	"github.com/gearbox-ai/gearbox/internal/tools"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) setupRoutes() (http.Handler, error) {
	cfg := s.cfg

	// ─── Tools ──────────────────────────────────────────────────────────────────
	registry := tools.Builtin()

	// ─── Security ───────────────────────────────────────────────────────────────
	piiKeywords := cfg.PIIKeywords
	if !cfg.EnablePIIDetection {
		piiKeywords = nil
	}
	piiDetector := security.NewPIIDetector(piiKeywords)
	promptVal := security.NewPromptValidator()
	usageTracker := security.NewUsageTracker(cfg.MaxTokensPerRequest)
	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)

	// ─── Agent ──────────────────────────────────────────────────────────────────
	var pipeline *agent.ChatHandler
	if cfg.HasToken() {
		ag := agent.New(cfg.GitHubToken, cfg.Model, cfg.ModelBaseURL)
		router := service.NewToolRouter()
		pipeline = agent.NewChatHandler(ag, registry, router, piiDetector, promptVal, usageTracker, auditLogger)
	} else {
		log.Warn().Msg("GITHUB_TOKEN not set - chat endpoint disabled")
	}

	// Startup summary
	log.Info().
		Bool("model_configured", pipeline != nil).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Bool("pii_detection", cfg.EnablePIIDetection).
		Strs("tools", registry.Names()).
		Msg("service configuration")

	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - all API requests will be rejected")
	}

	// ─── Handlers ───────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(pipeline != nil, registry)
	toolsH := handler.NewToolsHandler(registry)
	chatH := handler.NewChatHandler(pipeline, cfg.AgentTimeout)

	// ─── Router ─────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	// Core middleware. RequestID runs first so logging and panic recovery
	// can tag their events; Recovery sits inside Logging so a panic still
	// produces a request log line with status 500.
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	// Auth + rate limiting for API routes
	apiMiddleware := []func(http.Handler) http.Handler{
		middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute),
	}
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		apiMiddleware = append(apiMiddleware, middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
	}

	r.Group(func(r chi.Router) {
		for _, m := range apiMiddleware {
			r.Use(m)
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Get("/tools", toolsH.ListTools)
			r.Post("/chat", chatH.Chat)
		})
	})

	return r, nil
}
