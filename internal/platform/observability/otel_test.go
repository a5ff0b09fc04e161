package observability

import (
	"context"
	"errors"
	"testing"

	"petcast-web/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func preserveGlobals(t *testing.T) {
	t.Helper()
	tp := otel.GetTracerProvider()
	prop := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func TestSetupOTel_DisabledIsNoop(t *testing.T) {
	preserveGlobals(t)
	before := otel.GetTracerProvider()

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "dev")
	if err != nil || shutdown == nil {
		t.Fatalf("SetupOTel = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Fatalf("disabled setup must not replace the global provider")
	}
}

func TestSetupOTel_InstallsProvider(t *testing.T) {
	preserveGlobals(t)

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: "petcast-web",
		SampleRatio: 1,
	}, "test")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("expected sdk tracer provider")
	}
}

func TestSetupOTel_ExporterError(t *testing.T) {
	preserveGlobals(t)
	orig := newExporter
	t.Cleanup(func() { newExporter = orig })

	boom := errors.New("boom")
	newExporter = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) { return nil, boom }

	if _, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: true, Insecure: true, Endpoint: "x:1"}, "test"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped exporter error, got %v", err)
	}
}
