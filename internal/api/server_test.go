package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/internal/logging"
	"github.com/signalsfoundry/hf-propagation-sim/internal/observability"
	"github.com/signalsfoundry/hf-propagation-sim/internal/sim/state"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
	"github.com/signalsfoundry/hf-propagation-sim/timectrl"
)

var (
	vienna = geo.Location{Latitude: 48.21, Longitude: 16.37, Name: "Vienna", Code: "VIE"}
	berlin = geo.Location{Latitude: 52.52, Longitude: 13.41, Name: "Berlin", Code: "BER"}
	sydney = geo.Location{Latitude: -33.87, Longitude: 151.21, Name: "Sydney", Code: "SYD"}

	winterMidnight = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
)

type apiTestEnv struct {
	ctx       context.Context
	state     *state.SimulationState
	client    *Client
	collector *observability.APICollector
	registry  *prometheus.Registry
}

func newAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	clock := timectrl.NewTimeController(winterMidnight, time.Hour, timectrl.Accelerated)
	st := state.NewSimulationState(logging.Noop(), state.WithClock(clock))

	reg := prometheus.NewRegistry()
	collector, err := observability.NewAPICollector(reg)
	if err != nil {
		cancel()
		t.Fatalf("NewAPICollector: %v", err)
	}

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		cancel()
		t.Fatalf("net.Listen: %v", err)
	}
	server := NewServer(NewPropagationService(st, logging.Noop()), logging.Noop(), collector)
	go func() {
		_ = server.Serve(lis)
	}()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		cancel()
		t.Fatalf("grpc.NewClient: %v", err)
	}

	t.Cleanup(func() {
		server.GracefulStop()
		_ = conn.Close()
		cancel()
	})

	return &apiTestEnv{ctx: ctx, state: st, client: NewClient(conn), collector: collector, registry: reg}
}

func TestEvaluateOverGRPC(t *testing.T) {
	env := newAPITestEnv(t)

	res, err := env.client.Evaluate(env.ctx, EvaluateRequest{Source: &vienna, Target: &berlin, Band: "40m"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.Success || res.SignalStrength < 70 {
		t.Fatalf("Vienna-Berlin 40m = %+v, want open above 70", res)
	}
	if !res.Time.Equal(winterMidnight) {
		t.Fatalf("evaluated at %v, want session time %v", res.Time, winterMidnight)
	}
	if res.Path != nil {
		t.Fatal("path returned without include_path")
	}
	kinds := map[propagation.FactorKind]bool{}
	for _, f := range res.Factors {
		kinds[f.Kind] = true
	}
	for _, want := range []propagation.FactorKind{propagation.FactorAbsorption, propagation.FactorReflection, propagation.FactorGeometry, propagation.FactorAntenna, propagation.FactorPower} {
		if !kinds[want] {
			t.Fatalf("factor %v missing from %+v", want, res.Factors)
		}
	}

	if got := testutil.ToFloat64(env.collector.RPCRequests.WithLabelValues("PropagationService", "Evaluate", "OK")); got != 1 {
		t.Fatalf("api_requests_total = %v, want 1", got)
	}
}

func TestEvaluateIncludesPathOnRequest(t *testing.T) {
	env := newAPITestEnv(t)

	res, err := env.client.Evaluate(env.ctx, EvaluateRequest{
		Source: &vienna, Target: &berlin, Band: "40m",
		Time:        "2024-01-15T00:00:00Z",
		IncludePath: true,
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Path == nil || len(res.Path.Points) == 0 {
		t.Fatalf("path = %+v, want drawn points", res.Path)
	}
	if res.Path.Type != propagation.PathSingleHop {
		t.Fatalf("path type = %q, want single-hop", res.Path.Type)
	}
}

func TestEvaluateFailureIsAResult(t *testing.T) {
	env := newAPITestEnv(t)

	res, err := env.client.Evaluate(env.ctx, EvaluateRequest{Source: &vienna, Target: &sydney, Band: "20m", PathMode: "short"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Success {
		t.Fatalf("Vienna-Sydney 20m short path open: %+v", res)
	}
	if res.Hops.Feasible {
		t.Fatalf("hops = %+v, want infeasible", res.Hops)
	}
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	env := newAPITestEnv(t)
	bad := geo.Location{Latitude: 95}

	tests := []struct {
		name string
		req  EvaluateRequest
	}{
		{"missing source", EvaluateRequest{Target: &berlin, Band: "40m"}},
		{"missing band", EvaluateRequest{Source: &vienna, Target: &berlin}},
		{"unknown band", EvaluateRequest{Source: &vienna, Target: &berlin, Band: "11m"}},
		{"bad latitude", EvaluateRequest{Source: &bad, Target: &berlin, Band: "40m"}},
		{"bad mode", EvaluateRequest{Source: &vienna, Target: &berlin, Band: "40m", PathMode: "sideways"}},
		{"bad time", EvaluateRequest{Source: &vienna, Target: &berlin, Band: "40m", Time: "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.client.Evaluate(env.ctx, tt.req)
			if status.Code(err) != codes.InvalidArgument {
				t.Fatalf("Evaluate code = %v, want InvalidArgument (err=%v)", status.Code(err), err)
			}
		})
	}
}

func TestSurveyBandsOverGRPC(t *testing.T) {
	env := newAPITestEnv(t)

	resp, err := env.client.SurveyBands(env.ctx, EvaluateRequest{Source: &vienna, Target: &berlin})
	if err != nil {
		t.Fatalf("SurveyBands: %v", err)
	}
	if len(resp.Results) != 11 {
		t.Fatalf("len(results) = %d, want 11", len(resp.Results))
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].SignalStrength > resp.Results[i-1].SignalStrength {
			t.Fatalf("results out of order at %d", i)
		}
	}
	found := false
	for _, b := range resp.Open {
		if b == "40m" {
			found = true
		}
	}
	if !found {
		t.Fatalf("open bands %v, want 40m among them", resp.Open)
	}
}

func TestConditionsRoundTrip(t *testing.T) {
	env := newAPITestEnv(t)

	before, err := env.client.GetConditions(env.ctx)
	if err != nil {
		t.Fatalf("GetConditions: %v", err)
	}
	if before.Conditions.Activity != spaceweather.ActivityNormal || len(before.ActiveEvents) != 0 {
		t.Fatalf("initial conditions = %+v", before)
	}

	after, err := env.client.UpdateConditions(env.ctx, []ConditionsUpdate{
		{Event: "activity", Level: "storm"},
		{Event: "blackout", Level: "severe"},
		{Event: "sporadic-e", Level: "strong"},
	})
	if err != nil {
		t.Fatalf("UpdateConditions: %v", err)
	}
	if after.Conditions.Activity != spaceweather.ActivityStorm {
		t.Fatalf("activity = %q, want storm", after.Conditions.Activity)
	}
	if !after.Conditions.Blackout.Active || !after.Conditions.Blackout.StartTime.Equal(winterMidnight) {
		t.Fatalf("blackout = %+v", after.Conditions.Blackout)
	}
	if got := len(after.ActiveEvents); got != 2 {
		t.Fatalf("active events = %v, want blackout and sporadic-e", after.ActiveEvents)
	}
	if snap := env.state.Conditions(); !snap.SporadicE.Active {
		t.Fatal("session did not receive the update")
	}
}

func TestUpdateConditionsIsAllOrNothing(t *testing.T) {
	env := newAPITestEnv(t)

	_, err := env.client.UpdateConditions(env.ctx, []ConditionsUpdate{
		{Event: "aurora", Level: "severe"},
		{Event: "aurora", Level: "apocalyptic"},
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("UpdateConditions code = %v, want InvalidArgument", status.Code(err))
	}
	if env.state.Conditions().Aurora.Active {
		t.Fatal("valid event before the bad one was applied")
	}

	if _, err := env.client.UpdateConditions(env.ctx, nil); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("empty UpdateConditions code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestSetStationOverGRPC(t *testing.T) {
	env := newAPITestEnv(t)

	got, err := env.client.SetStation(env.ctx, propagation.Station{AntennaID: "yagi", HeadingDeg: -10, PowerID: "high"})
	if err != nil {
		t.Fatalf("SetStation: %v", err)
	}
	want := propagation.Station{AntennaID: "yagi", HeadingDeg: 350, PowerID: "high"}
	if got != want {
		t.Fatalf("SetStation = %+v, want %+v", got, want)
	}
	if env.state.Station() != want {
		t.Fatalf("session station = %+v", env.state.Station())
	}

	if _, err := env.client.SetStation(env.ctx, propagation.Station{AntennaID: "dish", PowerID: "high"}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("unknown antenna code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestRequestIDEchoedInHeader(t *testing.T) {
	env := newAPITestEnv(t)

	var header metadata.MD
	ctx := logging.ContextWithRequestID(env.ctx, "req-1234")
	if _, err := env.client.GetConditions(ctx, grpc.Header(&header)); err != nil {
		t.Fatalf("GetConditions: %v", err)
	}
	if got := firstHeader(header, RequestIDMetadataKey); got != "req-1234" {
		t.Fatalf("x-request-id header = %q, want req-1234", got)
	}

	header = nil
	if _, err := env.client.GetConditions(env.ctx, grpc.Header(&header)); err != nil {
		t.Fatalf("GetConditions: %v", err)
	}
	if got := firstHeader(header, RequestIDMetadataKey); got == "" {
		t.Fatal("server did not generate a request id")
	}
}

func TestUnconfiguredServiceIsUnavailable(t *testing.T) {
	svc := NewPropagationService(nil, nil)
	if _, err := svc.GetConditions(context.Background(), nil); status.Code(err) != codes.Unavailable {
		t.Fatalf("GetConditions code = %v, want Unavailable", status.Code(err))
	}
}
