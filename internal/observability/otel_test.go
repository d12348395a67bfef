package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tbourn/go-posts-backend/internal/config"
)

// preserveOTelGlobals snapshots the global tracer provider and propagator
// and restores them when the test finishes. SetupOTel mutates both.
func preserveOTelGlobals(t *testing.T) {
	t.Helper()
	tp := otel.GetTracerProvider()
	prop := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func enabledConfig() config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Endpoint:    "localhost:4317",
		Insecure:    true,
		ServiceName: "posts-test",
		SampleRatio: 0.5,
	}
}

func TestSetupOTel_DisabledIsNoop(t *testing.T) {
	preserveOTelGlobals(t)
	before := otel.GetTracerProvider()

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown must not be nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Fatal("disabled setup must not touch the global tracer provider")
	}
}

func TestSetupOTel_InsecureConfiguresGlobals(t *testing.T) {
	preserveOTelGlobals(t)

	shutdown, err := SetupOTel(context.Background(), enabledConfig(), "1.2.3")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("global provider = %T; want *sdktrace.TracerProvider", otel.GetTracerProvider())
	}

	fields := otel.GetTextMapPropagator().Fields()
	want := map[string]bool{"traceparent": false, "baggage": false}
	for _, f := range fields {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("propagator missing field %q (got %v)", f, fields)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupOTel_TLSBranch(t *testing.T) {
	preserveOTelGlobals(t)

	cfg := enabledConfig()
	cfg.Insecure = false
	shutdown, err := SetupOTel(context.Background(), cfg, "1.2.3")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupOTel_ExporterErrorLeavesGlobalsIntact(t *testing.T) {
	preserveOTelGlobals(t)
	before := otel.GetTracerProvider()

	orig := newOTLPExporterFn
	newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("exporter down")
	}
	t.Cleanup(func() { newOTLPExporterFn = orig })

	shutdown, err := SetupOTel(context.Background(), enabledConfig(), "test")
	if err == nil {
		t.Fatal("expected exporter error")
	}
	if shutdown != nil {
		t.Fatal("shutdown must be nil on failure")
	}
	if otel.GetTracerProvider() != before {
		t.Fatal("failed setup must not touch the global tracer provider")
	}
}

func TestSetupOTel_ResourceErrorLeavesGlobalsIntact(t *testing.T) {
	preserveOTelGlobals(t)
	before := otel.GetTracerProvider()

	orig := newServiceResourceFn
	newServiceResourceFn = func(context.Context, string, string) (*resource.Resource, error) {
		return nil, errors.New("resource build failed")
	}
	t.Cleanup(func() { newServiceResourceFn = orig })

	_, err := SetupOTel(context.Background(), enabledConfig(), "test")
	if err == nil {
		t.Fatal("expected resource error")
	}
	if otel.GetTracerProvider() != before {
		t.Fatal("failed setup must not touch the global tracer provider")
	}
}
