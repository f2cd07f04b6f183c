package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scrollkeeper/mirrorgate/internal/audit"
	"github.com/scrollkeeper/mirrorgate/internal/config"
	"github.com/scrollkeeper/mirrorgate/internal/mockprovider"
	"github.com/scrollkeeper/mirrorgate/internal/redact"
	"github.com/scrollkeeper/mirrorgate/internal/server"
	"github.com/scrollkeeper/mirrorgate/internal/telemetry"
)

const version = "0.3.0"

func main() {
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "mirrorgate.yaml", "Path to config file")
	withMock := flag.Bool("with-mock-provider", false, "Start a local mock upstream and route the default provider to it")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		redact.Fatalf("failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		redact.Fatalf("invalid config: %v", err)
	}

	addr := cfg.Server.Addr
	if *addrFlag != "" {
		addr = *addrFlag
	}

	ctx := context.Background()

	if *withMock {
		shutdownMock, baseURL, err := mockprovider.Start("")
		if err != nil {
			redact.Fatalf("failed to start mock provider: %v", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = shutdownMock(shutdownCtx)
		}()
		cfg.Providers["mock"] = config.ProviderConfig{
			Type:                 "openai",
			BaseURL:              baseURL,
			APIKey:               "mock",
			AllowPrivateNetworks: true,
		}
		cfg.DefaultProvider = "mock"
	}

	metrics, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Protocol: cfg.Telemetry.Protocol,
		Service:  "mirrorgate",
		Version:  version,
	})
	if err != nil {
		redact.Fatalf("failed to init telemetry: %v", err)
	}
	defer metrics.Shutdown(ctx)

	sinks, err := buildSinks(cfg.Audit)
	if err != nil {
		redact.Fatalf("failed to build audit sinks: %v", err)
	}
	emitter := audit.NewEmitter(audit.EmitterConfig{}, sinks)

	srv, err := server.New(cfg, server.Options{Emitter: emitter, Metrics: metrics})
	if err != nil {
		redact.Fatalf("failed to build server: %v", err)
	}

	// Daily stats rotation for the dashboard counters.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			srv.Tracker().ResetDaily()
		}
	}()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		redact.Logf("mirrorgate %s listening on %s", version, addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			redact.Fatalf("server error: %v", err)
		}
	case sig := <-sigCh:
		redact.Logf("received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			redact.Logf("shutdown error: %v", err)
		}
		srv.Close(shutdownCtx)
	}
}

func buildSinks(cfg config.AuditConfig) ([]audit.Sink, error) {
	if len(cfg.Sinks) == 0 {
		return []audit.Sink{audit.NewStdoutSink()}, nil
	}
	sinks := make([]audit.Sink, 0, len(cfg.Sinks))
	for _, sc := range cfg.Sinks {
		switch sc.Type {
		case "stdout":
			sinks = append(sinks, audit.NewStdoutSink())
		case "file_jsonl":
			fs, err := audit.NewFileSink(sc.Path)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, fs)
		}
	}
	return sinks, nil
}
