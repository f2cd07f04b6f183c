// Package telemetry wires OpenTelemetry metrics for the gateway. When
// disabled it hands out no-op instruments so call sites never branch.
package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/scrollkeeper/mirrorgate/internal/redact"
)

// Config controls telemetry setup.
type Config struct {
	Enabled  bool
	Endpoint string
	Protocol string // grpc | http
	Service  string
	Version  string
}

// Provider wires the meter provider and exposes recording helpers.
type Provider struct {
	Enabled bool
	meter   metric.Meter

	requestsCounter     metric.Int64Counter
	rejectionsCounter   metric.Int64Counter
	requestDuration     metric.Float64Histogram
	upstreamDuration    metric.Float64Histogram
	confidenceHistogram metric.Int64Histogram

	shutdownMeterProvider func(context.Context) error
}

// NewProvider configures OTLP metric export. When disabled, returns no-op
// instruments.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.Enabled {
		no := &Provider{
			Enabled: false,
			meter:   noop.NewMeterProvider().Meter(""),
		}
		no.initInstruments()
		return no, nil
	}

	redact.Logf("telemetry enabled (OpenTelemetry OTLP %s) endpoint=%s; if no collector is listening, periodic 'failed to upload metrics' warnings are expected", strings.ToLower(cfg.Protocol), cfg.Endpoint)

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.Service),
			attribute.String("service.version", cfg.Version),
		),
	)
	if err != nil {
		return nil, err
	}

	var reader sdkmetric.Reader
	switch strings.ToLower(cfg.Protocol) {
	case "", "grpc":
		exp, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(cfg.Endpoint), otlpmetricgrpc.WithInsecure())
		if err != nil {
			return nil, err
		}
		reader = sdkmetric.NewPeriodicReader(exp)
	case "http":
		exp, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.Endpoint), otlpmetrichttp.WithInsecure())
		if err != nil {
			return nil, err
		}
		reader = sdkmetric.NewPeriodicReader(exp)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)

	p := &Provider{
		Enabled:               true,
		meter:                 mp.Meter("mirrorgate"),
		shutdownMeterProvider: mp.Shutdown,
	}
	p.initInstruments()
	return p, nil
}

func (p *Provider) initInstruments() {
	if p == nil {
		return
	}
	// Instrument creation errors are ignored to keep telemetry best-effort.
	p.requestsCounter, _ = p.meter.Int64Counter("mirrorgate_requests_total")
	p.rejectionsCounter, _ = p.meter.Int64Counter("mirrorgate_rejections_total")
	p.requestDuration, _ = p.meter.Float64Histogram("mirrorgate_request_duration_ms")
	p.upstreamDuration, _ = p.meter.Float64Histogram("mirrorgate_upstream_duration_ms")
	p.confidenceHistogram, _ = p.meter.Int64Histogram("mirrorgate_template_confidence")
}

// Shutdown flushes the meter provider.
func (p *Provider) Shutdown(ctx context.Context) {
	if p == nil {
		return
	}
	if p.shutdownMeterProvider != nil {
		_ = p.shutdownMeterProvider(ctx)
	}
}

// RecordRequestMetrics emits counters/histograms with safe labels.
func (p *Provider) RecordRequestMetrics(decision, providerType, riskTier string, confidence int, durMs, upstreamMs float64, rejected bool) {
	if p == nil {
		return
	}
	labels := []attribute.KeyValue{
		attribute.String("mirrorgate.decision", decision),
		attribute.String("mirrorgate.provider_type", providerType),
		attribute.String("mirrorgate.risk_tier", riskTier),
	}
	p.requestsCounter.Add(context.Background(), 1, metric.WithAttributes(labels...))
	p.requestDuration.Record(context.Background(), durMs, metric.WithAttributes(labels...))
	p.confidenceHistogram.Record(context.Background(), int64(confidence), metric.WithAttributes(labels...))
	if upstreamMs > 0 {
		p.upstreamDuration.Record(context.Background(), upstreamMs, metric.WithAttributes(labels...))
	}
	if rejected {
		p.rejectionsCounter.Add(context.Background(), 1, metric.WithAttributes(labels...))
	}
}
