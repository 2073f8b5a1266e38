package api

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/hf-propagation-sim/internal/logging"
	"github.com/signalsfoundry/hf-propagation-sim/internal/observability"
)

const tracerName = "github.com/signalsfoundry/hf-propagation-sim/internal/api"

// TracingUnaryServerInterceptor names the RPC span "API/<service>/<method>"
// and tags it with the band, path mode and event names of the request. It
// starts a span itself when no stats handler has.
func TracingUnaryServerInterceptor() grpc.UnaryServerInterceptor {
	tracer := otel.Tracer(tracerName)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		service, method := observability.SplitMethod(info.FullMethod)
		name := fmt.Sprintf("API/%s/%s", service, method)

		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.SetName(name)
		} else {
			ctx, span = tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
		}

		attrs := append(requestAttributes(req), attribute.String("rpc.method", method))
		if reqID := logging.RequestIDFromContext(ctx); reqID != "" {
			attrs = append(attrs, attribute.String("request_id", reqID))
		}
		span.SetAttributes(attrs...)

		resp, err := handler(ctx, req)
		if err != nil {
			st := status.Convert(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, st.Message())
			span.SetAttributes(attribute.String("hfprop.status_code", st.Code().String()))
			return resp, err
		}
		if out, ok := resp.(*structpb.Struct); ok {
			span.SetAttributes(responseAttributes(out)...)
		}
		return resp, nil
	}
}

// requestAttributes reads the domain fields of a Struct request without
// decoding it; malformed payloads are reported by the handler.
func requestAttributes(req any) []attribute.KeyValue {
	in, ok := req.(*structpb.Struct)
	if !ok || in == nil {
		return nil
	}
	fields := in.GetFields()

	var attrs []attribute.KeyValue
	for _, key := range []string{"band", "path_mode", "antenna", "power"} {
		if v := fields[key].GetStringValue(); v != "" {
			attrs = append(attrs, attribute.String("hfprop."+key, v))
		}
	}
	if events := fields["events"].GetListValue().GetValues(); len(events) > 0 {
		names := make([]string, 0, len(events))
		for _, e := range events {
			if n := e.GetStructValue().GetFields()["event"].GetStringValue(); n != "" {
				names = append(names, n)
			}
		}
		attrs = append(attrs, attribute.StringSlice("hfprop.events", names))
	}
	return attrs
}

func responseAttributes(out *structpb.Struct) []attribute.KeyValue {
	fields := out.GetFields()
	if result := fields["result"].GetStructValue(); result != nil {
		rf := result.GetFields()
		return []attribute.KeyValue{
			attribute.Bool("hfprop.success", rf["success"].GetBoolValue()),
			attribute.Float64("hfprop.signal_strength", rf["signal_strength"].GetNumberValue()),
		}
	}
	if open := fields["open"].GetListValue(); open != nil {
		return []attribute.KeyValue{attribute.Int("hfprop.open_bands", len(open.GetValues()))}
	}
	return nil
}
