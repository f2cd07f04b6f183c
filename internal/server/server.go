// Package server exposes the mirror gateway over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/scrollkeeper/mirrorgate/internal/audit"
	"github.com/scrollkeeper/mirrorgate/internal/auth"
	"github.com/scrollkeeper/mirrorgate/internal/catalog"
	"github.com/scrollkeeper/mirrorgate/internal/config"
	"github.com/scrollkeeper/mirrorgate/internal/pipeline"
	"github.com/scrollkeeper/mirrorgate/internal/provider"
	"github.com/scrollkeeper/mirrorgate/internal/redact"
	"github.com/scrollkeeper/mirrorgate/internal/session"
	"github.com/scrollkeeper/mirrorgate/internal/telemetry"
)

// Server wires the enforcement pipeline, providers, and bookkeeping behind
// the HTTP routes.
type Server struct {
	mux             *http.ServeMux
	cfg             *config.Config
	cats            *catalog.Set
	pipe            *pipeline.Pipeline
	providers       map[string]provider.Provider
	providerTypes   map[string]string
	defaultProvider string
	tracker         *session.Tracker
	emitter         *audit.Emitter
	metrics         *telemetry.Provider
	authz           *auth.Auth
	loggingLevel    string
}

// Options carries the pre-built collaborators New does not construct itself.
type Options struct {
	Emitter *audit.Emitter
	Metrics *telemetry.Provider
}

// New builds a server from validated configuration.
func New(cfg *config.Config, opts Options) (*Server, error) {
	cats, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}

	providers := make(map[string]provider.Provider, len(cfg.Providers))
	providerTypes := make(map[string]string, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		p, err := provider.FromConfig(name, pc)
		if err != nil {
			return nil, err
		}
		providers[name] = p
		providerTypes[name] = strings.ToLower(strings.TrimSpace(pc.Type))
	}

	s := &Server{
		mux:             http.NewServeMux(),
		cfg:             cfg,
		cats:            cats,
		pipe:            pipeline.New(cats),
		providers:       providers,
		providerTypes:   providerTypes,
		defaultProvider: cfg.DefaultProvider,
		tracker:         session.NewTracker(),
		emitter:         opts.Emitter,
		metrics:         opts.Metrics,
		authz:           auth.NewFromConfig(cfg),
		loggingLevel:    cfg.Logging.AuditLevel,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/mirror/process", s.handleProcess)
	s.mux.HandleFunc("/v1/mirror/evaluate", s.handleEvaluate)
	s.mux.HandleFunc("/dashboard/summary", s.handleDashboardSummary)
	s.mux.HandleFunc("/dashboard/usage", s.handleDashboardUsage)
	s.mux.HandleFunc("/enforcement/status", s.handleEnforcementStatus)
	s.mux.HandleFunc("/enforcement/diagnostic", s.handleEnforcementDiagnostic)
	s.mux.HandleFunc("/enforcement/scan", s.handleEnforcementScan)
	s.mux.HandleFunc("/enforcement/purge", s.handleEnforcementPurge)
	s.mux.HandleFunc("/function/activate", s.handleFunctionActivate)
	s.mux.HandleFunc("/function/readiness", s.handleFunctionReadiness)
	s.mux.HandleFunc("/index/verify", s.handleIndexVerify)
}

// Handler returns the route mux, wrapped with key auth when configured.
// /healthz stays open for probes.
func (s *Server) Handler() http.Handler {
	if !s.authz.Enabled() {
		return s.mux
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" && !s.authz.Allow(r.Header.Get(auth.HeaderName)) {
			writeError(w, http.StatusUnauthorized, "missing or invalid gateway key", "authentication_error")
			return
		}
		s.mux.ServeHTTP(w, r)
	})
}

// Tracker exposes the usage tracker, mainly for tests.
func (s *Server) Tracker() *session.Tracker {
	return s.tracker
}

// Close drains the audit emitter.
func (s *Server) Close(ctx context.Context) {
	if s.emitter != nil {
		s.emitter.Close(ctx)
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeError(w http.ResponseWriter, status int, message, errType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Message: message, Type: errType}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		redact.Logf("server: failed to write response: %v", err)
	}
}
