package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/hf-propagation-sim/internal/sim/state"
)

// ToStatusError maps session and API errors onto gRPC status codes.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, state.ErrUnknownBand),
		errors.Is(err, state.ErrInvalidLocation),
		errors.Is(err, state.ErrInvalidPathMode),
		errors.Is(err, state.ErrInvalidActivityLevel),
		errors.Is(err, state.ErrInvalidSeverity),
		errors.Is(err, state.ErrInvalidIntensity),
		errors.Is(err, state.ErrUnknownEvent),
		errors.Is(err, state.ErrUnknownAntenna),
		errors.Is(err, state.ErrUnknownPower),
		errors.Is(err, state.ErrInvalidSteps):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}
