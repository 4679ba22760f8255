package game

import (
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"KickRelay/internal/model"
)

func TestLifecycleSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	h := newHarness(t, 42)
	if err := h.engine.Kick(model.MoveLeft); err != nil {
		t.Fatalf("kick: %v", err)
	}
	waitFor(t, h.engine, "result", func(s model.Snapshot) bool { return s.GameState == model.StateResult })

	names := map[string]bool{}
	for _, s := range sr.Ended() {
		names[s.Name()] = true
	}
	if !names["kick.submit"] || !names["kick.reconcile"] {
		t.Errorf("ended spans = %v", names)
	}
}
