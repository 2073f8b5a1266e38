package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/hf-propagation-sim/internal/sim/state"
)

func TestToStatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		code    codes.Code
		wantNil bool
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "status passthrough", err: status.Error(codes.PermissionDenied, "denied"), code: codes.PermissionDenied},
		{name: "invalid request", err: fmt.Errorf("%w: source is required", ErrInvalidRequest), code: codes.InvalidArgument},
		{name: "unknown band", err: fmt.Errorf("%w: %q", state.ErrUnknownBand, "11m"), code: codes.InvalidArgument},
		{name: "invalid location", err: fmt.Errorf("source: %w", state.ErrInvalidLocation), code: codes.InvalidArgument},
		{name: "invalid severity", err: state.ErrInvalidSeverity, code: codes.InvalidArgument},
		{name: "unknown event", err: state.ErrUnknownEvent, code: codes.InvalidArgument},
		{name: "unknown power", err: state.ErrUnknownPower, code: codes.InvalidArgument},
		{name: "canceled", err: context.Canceled, code: codes.Canceled},
		{name: "deadline", err: fmt.Errorf("evaluate: %w", context.DeadlineExceeded), code: codes.DeadlineExceeded},
		{name: "fallback", err: errors.New("boom"), code: codes.Internal},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ToStatusError(tc.err)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("ToStatusError(nil) = %v, want nil", got)
				}
				return
			}
			if code := status.Code(got); code != tc.code {
				t.Fatalf("ToStatusError(%v) code = %v, want %v", tc.err, code, tc.code)
			}
		})
	}
}
