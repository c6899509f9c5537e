package main

import (
	"context"
	"log/slog"

	"github.com/carlmjohnson/versioninfo"
	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Enables the OTLP HTTP trace exporter, if an endpoint is configured. Returns a function which flushes and stops the exporter; it is a no-op when tracing is disabled.
//
// For relevant environment variables:
// https://pkg.go.dev/go.opentelemetry.io/otel/exporters/otlp/otlptrace#readme-environment-variables
// At a minimum, you need to set
// OTEL_EXPORTER_OTLP_ENDPOINT=http://localhost:4318
func setupOTEL(cctx *cli.Context) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	ep := cctx.String("otel-exporter-otlp-endpoint")
	if ep == "" {
		return noop, nil
	}

	env := cctx.String("env")
	if env == "" {
		env = "dev"
	}

	slog.Info("setting up trace exporter", "endpoint", ep)
	exp, err := otlptracehttp.New(cctx.Context)
	if err != nil {
		return noop, err
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("apbridge"),
			semconv.ServiceVersionKey.String(versioninfo.Short()),
			attribute.String("env", env),         // DataDog
			attribute.String("environment", env), // Others
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func tracingEnabled(cctx *cli.Context) bool {
	return cctx.String("otel-exporter-otlp-endpoint") != ""
}
