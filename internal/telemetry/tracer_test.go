package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/logging"
)

func TestInitTracer_ExportsToWriter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := InitTracer("support-test", logging.NewNop(), &buf)
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "pipeline.intake")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "pipeline.intake") {
		t.Errorf("expected span name in output, got %q", out)
	}
	if !strings.Contains(out, "support-test") {
		t.Errorf("expected service name in output, got %q", out)
	}
}
