// Package telemetry configura o OpenTelemetry do serviço.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/hugohenrick/vex-core/internal/config"
	"github.com/hugohenrick/vex-core/pkg/logger"
)

// Shutdown libera os recursos de telemetria
type Shutdown func(ctx context.Context) error

func noop(context.Context) error { return nil }

// Setup registra o tracer provider global quando o tracing está habilitado.
// Desabilitado, os spans do assistente ficam no provider no-op do otel.
func Setup(ctx context.Context, cfg *config.Config, log logger.Logger) (Shutdown, error) {
	if !cfg.EnableTracing || cfg.OTLPEndpoint == "" {
		log.Info("Tracing desabilitado")
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Info("Tracing habilitado", "endpoint", cfg.OTLPEndpoint)
	return tp.Shutdown, nil
}
