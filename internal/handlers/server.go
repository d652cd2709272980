package handlers

import (
	"log/slog"
	"net/http"

	"github.com/frotaops-platform/api/internal/audit"
	"github.com/frotaops-platform/api/internal/config"
	"github.com/frotaops-platform/api/internal/docstore"
	"github.com/frotaops-platform/api/internal/httpx"
)

type Server struct {
	Config config.Config
	Store  docstore.Store
	Audit  *audit.Recorder
	Logger *slog.Logger
}

func NewServer(cfg config.Config, store docstore.Store, auditRecorder *audit.Recorder, logger *slog.Logger) *Server {
	return &Server{Config: cfg, Store: store, Audit: auditRecorder, Logger: logger}
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
