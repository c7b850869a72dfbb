// Package telemetry configures OpenTelemetry tracing and log export for the
// service.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const instrumentationName = "github.com/smdata-dev/smdata"

// Config describes the telemetry pipeline.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// OTLPEndpoint is a host:port of an OTLP gRPC collector. Empty disables export.
	OTLPEndpoint string
	// Insecure disables TLS towards the collector.
	Insecure bool
}

// Provider owns the SDK tracer and logger providers.
type Provider struct {
	tp *sdktrace.TracerProvider
	lp *sdklog.LoggerProvider // nil without a collector
}

// Init builds the providers and installs them, together with the W3C
// propagators, as the global OpenTelemetry providers. Spans are always
// created; they and the log records are only exported when an endpoint is set.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	p := &Provider{}

	if cfg.OTLPEndpoint != "" {
		traceExpOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
		logExpOpts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.Insecure {
			traceExpOpts = append(traceExpOpts, otlptracegrpc.WithInsecure())
			logExpOpts = append(logExpOpts, otlploggrpc.WithInsecure())
		}

		traceExp, err := otlptracegrpc.New(ctx, traceExpOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(traceExp))

		logExp, err := otlploggrpc.New(ctx, logExpOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating OTLP log exporter: %w", err)
		}
		p.lp = sdklog.NewLoggerProvider(
			sdklog.WithResource(res),
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp)),
		)
		global.SetLoggerProvider(p.lp)
	}

	p.tp = sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(p.tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

// Exporting reports whether telemetry is sent to a collector.
func (p *Provider) Exporting() bool { return p.lp != nil }

// LogHandler returns a slog handler that forwards records to the collector,
// or nil when nothing is exported.
func (p *Provider) LogHandler() slog.Handler {
	if p.lp == nil {
		return nil
	}
	return otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(p.lp))
}

// Shutdown flushes pending telemetry and stops the providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if err := p.tp.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down tracer provider: %w", err))
	}
	if p.lp != nil {
		if err := p.lp.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down logger provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
