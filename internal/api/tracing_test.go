package api

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracingInterceptorTagsEvaluateSpan(t *testing.T) {
	rec := recordSpans(t)
	interceptor := TracingUnaryServerInterceptor()

	req, err := structpb.NewStruct(map[string]any{"band": "40m", "path_mode": "long"})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	resp, err := structpb.NewStruct(map[string]any{
		"result": map[string]any{"success": true, "signal_strength": 71.0},
	})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}

	info := &grpc.UnaryServerInfo{FullMethod: EvaluateMethod}
	_, err = interceptor(context.Background(), req, info, func(ctx context.Context, _ any) (any, error) {
		return resp, nil
	})
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	if got, want := spans[0].Name(), "API/PropagationService/Evaluate"; got != want {
		t.Fatalf("span name = %q, want %q", got, want)
	}
	attrs := spanAttrs(spans[0])
	if got := attrs["hfprop.band"].AsString(); got != "40m" {
		t.Fatalf("hfprop.band = %q, want 40m", got)
	}
	if got := attrs["hfprop.path_mode"].AsString(); got != "long" {
		t.Fatalf("hfprop.path_mode = %q, want long", got)
	}
	if !attrs["hfprop.success"].AsBool() || attrs["hfprop.signal_strength"].AsFloat64() != 71 {
		t.Fatalf("result attributes = %v", attrs)
	}
}

func TestTracingInterceptorRecordsEventsAndErrors(t *testing.T) {
	rec := recordSpans(t)
	interceptor := TracingUnaryServerInterceptor()

	req, err := structpb.NewStruct(map[string]any{
		"events": []any{
			map[string]any{"event": "blackout", "level": "severe"},
			map[string]any{"event": "aurora", "level": "bogus"},
		},
	})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}

	info := &grpc.UnaryServerInfo{FullMethod: UpdateConditionsMethod}
	_, err = interceptor(context.Background(), req, info, func(ctx context.Context, _ any) (any, error) {
		return nil, status.Error(codes.InvalidArgument, "invalid severity")
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("error = %v, want InvalidArgument", err)
	}

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	if spans[0].Status().Code != otelcodes.Error {
		t.Fatalf("span status = %v, want Error", spans[0].Status())
	}
	attrs := spanAttrs(spans[0])
	events := attrs["hfprop.events"].AsStringSlice()
	if len(events) != 2 || events[0] != "blackout" || events[1] != "aurora" {
		t.Fatalf("hfprop.events = %v", events)
	}
	if got := attrs["hfprop.status_code"].AsString(); got != "InvalidArgument" {
		t.Fatalf("hfprop.status_code = %q", got)
	}
}
