package tracing

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation name used for every matchmap span.
const TracerName = "github.com/gxo-labs/matchmap"

// TracerProvider gives matchmap components a tracer for optimizer and
// map-file loading spans, so they can join an existing OpenTelemetry setup.
type TracerProvider interface {
	// GetTracer returns a Tracer with the given name and options.
	GetTracer(name string, opts ...trace.TracerOption) trace.Tracer

	// Shutdown flushes buffered spans. NoOp providers return nil.
	Shutdown(ctx context.Context) error
}

// NoOp returns a TracerProvider whose spans are discarded. Maps created
// without WithTracerProvider use it.
func NoOp() TracerProvider {
	return noopProvider{tp: noop.NewTracerProvider()}
}

type noopProvider struct {
	tp noop.TracerProvider
}

func (p noopProvider) GetTracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return p.tp.Tracer(name, opts...)
}

func (noopProvider) Shutdown(context.Context) error { return nil }

// RecordError marks span as failed with err. It is a no-op for a nil error or
// a span that is not recording.
func RecordError(span trace.Span, err error) {
	if err == nil || span == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
