// internal/common/observability/metrics.go
package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability owns the OpenTelemetry meter and tracer providers.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer

	interactionCounter  otelmetric.Int64Counter
	interactionDuration otelmetric.Float64Histogram
}

// Options configures New. An empty JaegerEndpoint disables trace export.
type Options struct {
	ServiceName    string
	ServiceVersion string
	JaegerEndpoint string
	// Registerer receives the otel collector; nil means the default registry.
	Registerer promclient.Registerer
}

func New(opts Options) (*Observability, error) {
	var exporterOpts []prometheus.Option
	if opts.Registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(opts.Registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(opts.ServiceName)

	interactionCounter, err := meter.Int64Counter(
		"interactions.processed",
		otelmetric.WithDescription("Number of interactions processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create interaction counter: %w", err)
	}

	interactionDuration, err := meter.Float64Histogram(
		"interactions.duration",
		otelmetric.WithDescription("Interaction processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create interaction histogram: %w", err)
	}

	o := &Observability{
		meterProvider:       provider,
		meter:               meter,
		tracer:              noop.NewTracerProvider().Tracer(opts.ServiceName),
		interactionCounter:  interactionCounter,
		interactionDuration: interactionDuration,
	}

	if opts.JaegerEndpoint != "" {
		tp, err := newTracerProvider(opts)
		if err != nil {
			_ = provider.Shutdown(context.Background())
			return nil, err
		}
		otel.SetTracerProvider(tp)
		o.tracerProvider = tp
		o.tracer = tp.Tracer(opts.ServiceName)
	}

	return o, nil
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	return &Observability{tracer: noop.NewTracerProvider().Tracer("noop")}
}

// Tracer returns the tracer spans should be started from.
func (o *Observability) Tracer() trace.Tracer {
	return o.tracer
}

func (o *Observability) RecordInteraction(ctx context.Context, action, outcome string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	)
	if o.interactionCounter != nil {
		o.interactionCounter.Add(ctx, 1, attrs)
	}
	if o.interactionDuration != nil {
		o.interactionDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// Shutdown flushes pending spans and metrics.
func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
