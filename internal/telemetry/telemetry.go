// Package telemetry provides OpenTelemetry tracing for AI generation calls.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ashureev/codeleap"

// Config holds telemetry configuration.
type Config struct {
	Enabled     bool
	Endpoint    string // host:port of an OTLP/HTTP collector
	ServiceName string
}

var (
	mu       sync.Mutex
	provider *sdktrace.TracerProvider
)

// Init installs a global tracer provider exporting to cfg.Endpoint.
// When disabled the global no-op provider stays in place.
func Init(ctx context.Context, cfg Config) error {
	if !cfg.Enabled {
		return nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithURLPath("/v1/traces"),
	)
	if err != nil {
		return err
	}

	res := resource.NewWithAttributes(
		"",
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion("dev"),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	mu.Lock()
	provider = tp
	mu.Unlock()
	return nil
}

// Shutdown flushes pending spans and stops the exporter.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	tp := provider
	provider = nil
	mu.Unlock()

	if tp == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return tp.Shutdown(shutdownCtx)
}

// Tracer returns the application tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// LLMSpan wraps a span covering one model call.
type LLMSpan struct {
	span      trace.Span
	startTime time.Time
}

// StartLLMSpan starts a span for a model call to provider/model.
func StartLLMSpan(ctx context.Context, name, provider, model string) (context.Context, *LLMSpan) {
	ctx, span := Tracer().Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.vendor", provider),
			attribute.String("llm.request.model", model),
		),
	)
	return ctx, &LLMSpan{span: span, startTime: time.Now()}
}

// SetChallenge records the requested language and difficulty.
func (s *LLMSpan) SetChallenge(language, difficulty string) {
	s.span.SetAttributes(
		attribute.String("codeleap.language", language),
		attribute.String("codeleap.difficulty", difficulty),
	)
}

// SetTokens records estimated token counts.
func (s *LLMSpan) SetTokens(prompt, completion int) {
	if prompt > 0 {
		s.span.SetAttributes(attribute.Int("llm.token_count.prompt", prompt))
	}
	if completion > 0 {
		s.span.SetAttributes(attribute.Int("llm.token_count.completion", completion))
	}
}

// SetError records err on the span.
func (s *LLMSpan) SetError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End completes the span.
func (s *LLMSpan) End() {
	s.span.SetAttributes(attribute.Int64("llm.latency_ms", time.Since(s.startTime).Milliseconds()))
	s.span.End()
}

// EstimateTokens gives a rough token count at four characters per token.
func EstimateTokens(text string) int {
	return len(text) / 4
}
