package trace

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/host"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/scienceol/tracerx/pkg/middleware/logger"
)

type InitConfig struct {
	ServiceName    string
	Version        string
	Env            string
	TraceEndpoint  string
	MetricEndpoint string
	Stdout         bool
}

var shutdowns []func(context.Context) error

// InitTrace installs global tracer and meter providers. With no endpoint and
// Stdout off the providers stay the otel no-op defaults.
func InitTrace(ctx context.Context, conf *InitConfig) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(conf.ServiceName),
		semconv.ServiceVersion(conf.Version),
		semconv.DeploymentEnvironment(conf.Env),
	))
	if err != nil {
		logger.Warnf(ctx, "otel resource merge err: %+v", err)
		res = resource.Default()
	}

	if err := initTracer(ctx, conf, res); err != nil {
		logger.Errorf(ctx, "init tracer err: %+v", err)
	}
	if err := initMeter(ctx, conf, res); err != nil {
		logger.Errorf(ctx, "init meter err: %+v", err)
	}
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

func initTracer(ctx context.Context, conf *InitConfig, res *resource.Resource) error {
	var exporter sdktrace.SpanExporter
	var err error
	switch {
	case conf.TraceEndpoint != "":
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(conf.TraceEndpoint),
			otlptracegrpc.WithInsecure(),
		)
	case conf.Stdout:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil
	}
	if err != nil {
		return err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	shutdowns = append(shutdowns, tp.Shutdown)
	return nil
}

func initMeter(ctx context.Context, conf *InitConfig, res *resource.Resource) error {
	var exporter sdkmetric.Exporter
	var err error
	switch {
	case conf.MetricEndpoint != "":
		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(conf.MetricEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case conf.Stdout:
		exporter, err = stdoutmetric.New()
	default:
		return nil
	}
	if err != nil {
		return err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(30*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	shutdowns = append(shutdowns, mp.Shutdown)

	if err := runtime.Start(runtime.WithMeterProvider(mp)); err != nil {
		return err
	}
	return host.Start(host.WithMeterProvider(mp))
}

func CloseTrace() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var errs []error
	for _, fn := range shutdowns {
		errs = append(errs, fn(ctx))
	}
	shutdowns = nil
	if err := errors.Join(errs...); err != nil {
		logger.Errorf(ctx, "close trace err: %+v", err)
	}
}
