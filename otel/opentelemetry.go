package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var ServerOptions = trace.WithSpanKind(trace.SpanKindServer)
var ClientOptions = trace.WithSpanKind(trace.SpanKindClient)

const InstrumentationName = "github.com/GlintPay/grip"

func GetTracer(ctx context.Context) trace.Tracer {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		return newTracer(span.TracerProvider())
	}
	return newTracer(otel.GetTracerProvider())
}

// StartSpan starts a span only when tracing is enabled; the returned func always ends it safely.
func StartSpan(ctx context.Context, enabled bool, name string, opts ...trace.SpanStartOption) (context.Context, func()) {
	if !enabled {
		return ctx, func() {}
	}
	ctx, span := GetTracer(ctx).Start(ctx, name, opts...)
	return ctx, func() { span.End() }
}

func newTracer(tp trace.TracerProvider) trace.Tracer {
	return tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion("semver:1.0"))
}
