package tracing

import (
	mmtracing "github.com/gxo-labs/matchmap/pkg/matchmap/v1/tracing"
	"go.opentelemetry.io/otel"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for every matchmap span.
const TracerName = mmtracing.TracerName

// GetTracer returns the matchmap tracer from the global OpenTelemetry
// provider. Components that were given a provider should use it instead.
func GetTracer() oteltrace.Tracer {
	return otel.Tracer(TracerName)
}

// RecordError marks span as failed with err.
func RecordError(span oteltrace.Span, err error) {
	mmtracing.RecordError(span, err)
}
