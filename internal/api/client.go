package api

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/hf-propagation-sim/internal/logging"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
)

// Client is a typed PropagationService client.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) call(ctx context.Context, method string, in any, out any, opts ...grpc.CallOption) error {
	var req any = &emptypb.Empty{}
	if in != nil {
		s, err := encodeStruct(in)
		if err != nil {
			return err
		}
		req = s
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		ctx = appendRequestID(ctx, id)
	}
	resp := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, method, req, resp, opts...); err != nil {
		return err
	}
	if err := decodeStruct(resp, out); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// Evaluate scores one path.
func (c *Client) Evaluate(ctx context.Context, req EvaluateRequest, opts ...grpc.CallOption) (ResultView, error) {
	var out EvaluateResponse
	err := c.call(ctx, EvaluateMethod, req, &out, opts...)
	return out.Result, err
}

// SurveyBands scores a path on every band.
func (c *Client) SurveyBands(ctx context.Context, req EvaluateRequest, opts ...grpc.CallOption) (SurveyResponse, error) {
	var out SurveyResponse
	err := c.call(ctx, SurveyBandsMethod, req, &out, opts...)
	return out, err
}

// GetConditions fetches the session's space weather.
func (c *Client) GetConditions(ctx context.Context, opts ...grpc.CallOption) (ConditionsResponse, error) {
	var out ConditionsResponse
	err := c.call(ctx, GetConditionsMethod, nil, &out, opts...)
	return out, err
}

// UpdateConditions applies events in order.
func (c *Client) UpdateConditions(ctx context.Context, events []ConditionsUpdate, opts ...grpc.CallOption) (ConditionsResponse, error) {
	var out ConditionsResponse
	err := c.call(ctx, UpdateConditionsMethod, UpdateConditionsRequest{Events: events}, &out, opts...)
	return out, err
}

// SetStation replaces the session's station.
func (c *Client) SetStation(ctx context.Context, st propagation.Station, opts ...grpc.CallOption) (propagation.Station, error) {
	var out StationResponse
	err := c.call(ctx, SetStationMethod, st, &out, opts...)
	return out.Station, err
}
