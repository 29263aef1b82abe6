// Package telemetry installs the otel providers and the slog handlers shared by
// the sample and serve commands.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	sloglogrus "github.com/samber/slog-logrus/v2"
	slogmulti "github.com/samber/slog-multi"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	logglobal "go.opentelemetry.io/otel/log/global"
	logsdk "go.opentelemetry.io/otel/sdk/log"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	AppName string
	// Endpoint is an OTLP/HTTP collector address. When empty the exporters
	// come from the OTEL_*_EXPORTER variables, which default to none.
	Endpoint string
	// PrometheusNamespace adds a prometheus reader for the /metrics handler.
	PrometheusNamespace string
	Level               slog.Level
}

type Client struct {
	log *slog.Logger

	tracerProvider *tracesdk.TracerProvider
	metricProvider *metricsdk.MeterProvider
	loggerProvider *logsdk.LoggerProvider
}

func (client *Client) Flush(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.metricProvider.ForceFlush(ctx)
	})
	g.Go(func() error {
		return client.loggerProvider.ForceFlush(ctx)
	})
	g.Go(func() error {
		return client.tracerProvider.ForceFlush(ctx)
	})
	return g.Wait()
}

func (client *Client) Shutdown(ctx context.Context) {
	if err := client.metricProvider.Shutdown(ctx); err != nil {
		client.log.ErrorContext(ctx, "error shutting down metric provider", "error", err.Error())
	}
	if err := client.tracerProvider.Shutdown(ctx); err != nil {
		client.log.ErrorContext(ctx, "error shutting down tracer provider", "error", err.Error())
	}
	if err := client.loggerProvider.Shutdown(ctx); err != nil {
		client.log.ErrorContext(ctx, "error shutting down logger provider", "error", err.Error())
	}
}

func setEnvIfNotSet(key, value string) {
	if _, ok := os.LookupEnv(key); !ok {
		os.Setenv(key, value)
	}
}

// Setup installs global meter, tracer and logger providers and makes slog
// write to logrus and to the otel log pipeline.
func Setup(ctx context.Context, cfg Config) (*Client, error) {
	setEnvIfNotSet("OTEL_TRACES_EXPORTER", "none")
	setEnvIfNotSet("OTEL_LOGS_EXPORTER", "none")
	setEnvIfNotSet("OTEL_METRICS_EXPORTER", "none")

	if cfg.Level < slog.LevelInfo {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrusHandler := sloglogrus.Option{Level: cfg.Level, Logger: logrus.StandardLogger()}.NewLogrusHandler()

	client := &Client{
		log: slog.New(logrusHandler).With("component", "telemetry"),
	}
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(cause error) {
		client.log.ErrorContext(ctx, "otel error", "error", cause.Error())
	}))

	r, err := newResource(cfg.AppName)
	if err != nil {
		return nil, err
	}

	readers, err := metricReaders(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := []metricsdk.Option{metricsdk.WithResource(r)}
	for _, reader := range readers {
		opts = append(opts, metricsdk.WithReader(reader))
	}
	client.metricProvider = metricsdk.NewMeterProvider(opts...)
	otel.SetMeterProvider(client.metricProvider)

	spanExporter, err := spanExporter(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize trace exporter: %w", err)
	}
	client.tracerProvider = tracesdk.NewTracerProvider(
		tracesdk.WithResource(r),
		tracesdk.WithBatcher(spanExporter, tracesdk.WithExportTimeout(time.Second)),
	)
	otel.SetTracerProvider(client.tracerProvider)

	logExporter, err := logExporter(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize log exporter: %w", err)
	}
	client.loggerProvider = logsdk.NewLoggerProvider(
		logsdk.WithResource(r),
		logsdk.WithProcessor(logsdk.NewBatchProcessor(logExporter, logsdk.WithExportInterval(time.Second))),
	)
	logglobal.SetLoggerProvider(client.loggerProvider)

	slog.SetDefault(slog.New(slogmulti.Fanout(
		logrusHandler,
		otelslog.NewHandler(cfg.AppName, otelslog.WithLoggerProvider(client.loggerProvider)),
	)))

	client.log = slog.With("component", "telemetry")
	client.log.InfoContext(ctx, "telemetry initialized", "endpoint", cfg.Endpoint)

	return client, nil
}

func newResource(appName string) (*resource.Resource, error) {
	hostName, _ := os.Hostname()
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(appName),
			semconv.HostName(hostName),
			semconv.ServiceInstanceID(uuid.NewString()),
		),
	)
}

func metricReaders(ctx context.Context, cfg Config) ([]metricsdk.Reader, error) {
	var readers []metricsdk.Reader
	if cfg.PrometheusNamespace != "" {
		promExporter, err := prometheus.New(prometheus.WithNamespace(cfg.PrometheusNamespace))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
		}
		readers = append(readers, promExporter)
	}

	if cfg.Endpoint == "" {
		reader, err := autoexport.NewMetricReader(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metric exporter: %w", err)
		}
		return append(readers, reader), nil
	}

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
		otlpmetrichttp.WithRetry(otlpmetrichttp.RetryConfig{Enabled: false}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metric exporter: %w", err)
	}
	return append(readers, metricsdk.NewPeriodicReader(exporter)), nil
}

func spanExporter(ctx context.Context, endpoint string) (tracesdk.SpanExporter, error) {
	if endpoint == "" {
		return autoexport.NewSpanExporter(ctx)
	}
	return otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithRetry(otlptracehttp.RetryConfig{Enabled: false}),
	)
}

func logExporter(ctx context.Context, endpoint string) (logsdk.Exporter, error) {
	if endpoint == "" {
		return autoexport.NewLogExporter(ctx)
	}
	return otlploghttp.New(ctx,
		otlploghttp.WithEndpoint(endpoint),
		otlploghttp.WithRetry(otlploghttp.RetryConfig{Enabled: false}),
	)
}
