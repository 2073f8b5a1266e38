// Package api exposes the simulation session over gRPC as
// hfprop.v1.PropagationService. Messages are google.protobuf.Struct values
// carrying the JSON documents defined in types.go.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "hfprop.v1.PropagationService"

// Full method names, as seen by interceptors.
const (
	EvaluateMethod         = "/" + ServiceName + "/Evaluate"
	SurveyBandsMethod      = "/" + ServiceName + "/SurveyBands"
	GetConditionsMethod    = "/" + ServiceName + "/GetConditions"
	UpdateConditionsMethod = "/" + ServiceName + "/UpdateConditions"
	SetStationMethod       = "/" + ServiceName + "/SetStation"
)

// PropagationServiceServer is the server API for PropagationService.
type PropagationServiceServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SurveyBands(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetConditions(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	UpdateConditions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetStation(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPropagationServiceServer registers srv on s.
func RegisterPropagationServiceServer(s grpc.ServiceRegistrar, srv PropagationServiceServer) {
	s.RegisterService(&PropagationServiceDesc, srv)
}

// unaryHandler adapts one typed server method to grpc.MethodHandler.
func unaryHandler[Req any](fullMethod string, call func(PropagationServiceServer, context.Context, *Req) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PropagationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PropagationServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PropagationServiceDesc describes PropagationService for grpc.Server.
var PropagationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PropagationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Evaluate",
			Handler:    unaryHandler(EvaluateMethod, PropagationServiceServer.Evaluate),
		},
		{
			MethodName: "SurveyBands",
			Handler:    unaryHandler(SurveyBandsMethod, PropagationServiceServer.SurveyBands),
		},
		{
			MethodName: "GetConditions",
			Handler:    unaryHandler(GetConditionsMethod, PropagationServiceServer.GetConditions),
		},
		{
			MethodName: "UpdateConditions",
			Handler:    unaryHandler(UpdateConditionsMethod, PropagationServiceServer.UpdateConditions),
		},
		{
			MethodName: "SetStation",
			Handler:    unaryHandler(SetStationMethod, PropagationServiceServer.SetStation),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hfprop/v1/propagation.proto",
}
