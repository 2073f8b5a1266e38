package api

import (
	"context"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/hf-propagation-sim/internal/logging"
	"github.com/signalsfoundry/hf-propagation-sim/internal/observability"
	"github.com/signalsfoundry/hf-propagation-sim/internal/sim/state"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
)

// PropagationService implements PropagationServiceServer on top of one
// SimulationState.
type PropagationService struct {
	state *state.SimulationState
	log   logging.Logger
}

var _ PropagationServiceServer = (*PropagationService)(nil)

// NewPropagationService binds a service to a session.
func NewPropagationService(st *state.SimulationState, log logging.Logger) *PropagationService {
	if log == nil {
		log = logging.Noop()
	}
	return &PropagationService{state: st, log: log}
}

func (s *PropagationService) ensureReady() error {
	if s == nil || s.state == nil {
		return status.Error(codes.Unavailable, "simulation state not configured")
	}
	return nil
}

// Evaluate scores one path on one band.
func (s *PropagationService) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var req EvaluateRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, ToStatusError(err)
	}
	q, err := ValidateEvaluateRequest(req, true)
	if err != nil {
		return nil, ToStatusError(err)
	}

	res, err := s.state.Evaluate(ctx, q)
	if err != nil {
		return nil, ToStatusError(err)
	}

	logging.FromContext(ctx, s.log).Debug(ctx, "Evaluate completed",
		logging.String("band", q.BandID),
		logging.Float64("signal_strength", res.SignalStrength),
		logging.Bool("success", res.Success),
	)
	return s.encode(EvaluateResponse{Result: NewResultView(res, req.IncludePath)})
}

// SurveyBands scores the path on every band.
func (s *PropagationService) SurveyBands(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var req EvaluateRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, ToStatusError(err)
	}
	q, err := ValidateEvaluateRequest(req, false)
	if err != nil {
		return nil, ToStatusError(err)
	}

	results, err := s.state.SurveyBands(ctx, q)
	if err != nil {
		return nil, ToStatusError(err)
	}

	resp := SurveyResponse{
		Results: make([]ResultView, 0, len(results)),
		Open:    []string{},
	}
	for _, r := range results {
		resp.Results = append(resp.Results, NewResultView(r, req.IncludePath))
		if r.Success {
			resp.Open = append(resp.Open, r.Request.BandID)
		}
	}

	logging.FromContext(ctx, s.log).Debug(ctx, "SurveyBands completed",
		logging.Int("open_bands", len(resp.Open)),
	)
	return s.encode(resp)
}

// GetConditions returns the current space weather.
func (s *PropagationService) GetConditions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	return s.encode(conditionsResponse(s.state))
}

// UpdateConditions applies a batch of space-weather events in order.
func (s *PropagationService) UpdateConditions(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var req UpdateConditionsRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, ToStatusError(err)
	}
	if err := ValidateConditionsUpdate(req); err != nil {
		return nil, ToStatusError(err)
	}

	for _, ev := range req.Events {
		if err := s.state.ApplyEvent(ctx, ev.Event, ev.Level); err != nil {
			return nil, ToStatusError(err)
		}
	}
	return s.encode(conditionsResponse(s.state))
}

// SetStation replaces the session's station.
func (s *PropagationService) SetStation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	var st propagation.Station
	if err := decodeStruct(in, &st); err != nil {
		return nil, ToStatusError(err)
	}
	if err := s.state.SetStation(ctx, st); err != nil {
		return nil, ToStatusError(err)
	}
	return s.encode(StationResponse{Station: s.state.Station()})
}

func (s *PropagationService) encode(v any) (*structpb.Struct, error) {
	out, err := encodeStruct(v)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return out, nil
}

// NewServer builds a grpc.Server with the request-ID, tracing and metrics
// interceptors and the otelgrpc stats handler, and registers svc on it.
// A nil collector skips the metrics interceptor.
func NewServer(svc PropagationServiceServer, log logging.Logger, collector *observability.APICollector, opts ...grpc.ServerOption) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{
		RequestIDUnaryServerInterceptor(log),
		TracingUnaryServerInterceptor(),
	}
	if collector != nil {
		interceptors = append(interceptors, collector.UnaryServerInterceptor())
	}
	opts = append([]grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(interceptors...),
	}, opts...)

	server := grpc.NewServer(opts...)
	RegisterPropagationServiceServer(server, svc)
	return server
}
