package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "inventory"

// Tracer provides OpenTelemetry spans for inventory service operations.
// A nil *Tracer is valid and starts no spans.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer backed by the global tracer provider.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(tracerName),
	}
}

// Start opens a span named after a service operation, e.g. "store.addProduct".
func (t *Tracer) Start(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, "inventory."+operation, trace.WithAttributes(attrs...))
}

// End records err on the span, if any, and ends it.
func (t *Tracer) End(span trace.Span, err error) {
	if t == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ProductID tags a span with a product id.
func ProductID(id int64) attribute.KeyValue {
	return attribute.Int64("inventory.product_id", id)
}

// StoreID tags a span with a store id.
func StoreID(id int64) attribute.KeyValue {
	return attribute.Int64("inventory.store_id", id)
}
