package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"zapbot/internal/followup"
	"zapbot/internal/metrics"
	"zapbot/internal/middleware"
	"zapbot/internal/models"
	"zapbot/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxWebhookBodyBytes = 1 << 20

// webhookProcessTimeout bounds the asynchronous handling of one event.
const webhookProcessTimeout = 30 * time.Second

type Server struct {
	router     *mux.Router
	logger     *logrus.Logger
	msgService service.MessageService
	sweeper    *followup.Sweeper
	server     *http.Server
	cfg        models.ServerConfig
}

func NewServer(cfg models.ServerConfig, msgService service.MessageService, sweeper *followup.Sweeper, logger *logrus.Logger) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		logger:     logger,
		msgService: msgService,
		sweeper:    sweeper,
		cfg:        cfg,
	}

	s.router.Use(middleware.RequestLogging(logger))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	webhook := s.router.PathPrefix("/webhook/zapi").Subrouter()
	webhook.HandleFunc("", s.handleWebhook()).Methods(http.MethodPost)
	webhook.HandleFunc("", s.handleWebhookProbe()).Methods(http.MethodGet)

	internal := s.router.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/followups/sweep", s.handleSweep()).Methods(http.MethodPost)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSec) * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.cfg.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	}
}

func (s *Server) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}

// handleWebhook always acknowledges with 200. The gateway treats any
// non-2xx as a delivery failure and retries aggressively, so internal
// errors are swallowed here and surfaced through logs only.
func (s *Server) handleWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
		if err != nil {
			s.logger.WithError(err).Warn("Failed to read webhook body")
			writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "ignored": true})
			return
		}

		go func(payload []byte) {
			ctx, cancel := context.WithTimeout(context.Background(), webhookProcessTimeout)
			defer cancel()
			if err := s.msgService.ProcessWebhook(ctx, payload); err != nil {
				s.logger.WithError(err).Error("Failed to process webhook event")
			}
		}(body)

		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
	}
}

// handleWebhookProbe answers the gateway panel's GET validation check.
func (s *Server) handleWebhookProbe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":   true,
			"hint": "Use POST para eventos. GET existe só para validação do painel.",
		})
	}
}

// handleSweep runs one follow-up sweep immediately, for cron-style
// external triggering.
func (s *Server) handleSweep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sweeper.Sweep(r.Context())
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Too late for an error status; the connection likely dropped.
		return
	}
}
