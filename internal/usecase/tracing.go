package usecase

import (
	"hospitality-booking/internal/data/entity"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hospitality-booking/internal/usecase")

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func resourceAttrs(ref entity.ResourceRef) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("resource.kind", string(ref.Kind)),
		attribute.String("resource.id", ref.ID.String()),
	}
}
