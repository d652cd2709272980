package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/frotaops-platform/api/internal/audit"
	"github.com/frotaops-platform/api/internal/config"
	"github.com/frotaops-platform/api/internal/docstore"
	"github.com/frotaops-platform/api/internal/handlers"
	"github.com/frotaops-platform/api/internal/middleware"
)

func NewRouter(cfg config.Config, store docstore.Store, logger *slog.Logger) *chi.Mux {
	recorder := audit.NewRecorder(store, cfg.BasePath)
	server := handlers.NewServer(cfg, store, recorder, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.Env))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.LimitBodyBytes(cfg.APIMaxBodyBytes, []middleware.BodyLimitOverride{
		{PathPrefix: "/imports", MaxBytes: cfg.ImportMaxFileBytes},
	}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", server.GetHealth)
		api.Post("/imports", server.PostImports)
		api.Get("/imports/{importRunId}", server.GetImportRun)
	})

	return r
}
