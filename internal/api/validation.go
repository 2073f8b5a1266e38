package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/signalsfoundry/hf-propagation-sim/internal/sim/state"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
)

// ErrInvalidRequest is returned for malformed or incomplete payloads.
var ErrInvalidRequest = errors.New("invalid request")

// ValidateEvaluateRequest checks required fields and converts req into a
// session query. Coordinate and band checks are left to the session so the
// errors carry its sentinels.
func ValidateEvaluateRequest(req EvaluateRequest, needBand bool) (state.Query, error) {
	if req.Source == nil {
		return state.Query{}, fmt.Errorf("%w: source is required", ErrInvalidRequest)
	}
	if req.Target == nil {
		return state.Query{}, fmt.Errorf("%w: target is required", ErrInvalidRequest)
	}
	band := strings.TrimSpace(req.Band)
	if needBand && band == "" {
		return state.Query{}, fmt.Errorf("%w: band is required", ErrInvalidRequest)
	}
	q := state.Query{
		Source:   *req.Source,
		Target:   *req.Target,
		BandID:   band,
		PathMode: propagation.PathMode(strings.ToLower(strings.TrimSpace(req.PathMode))),
	}
	if ts := strings.TrimSpace(req.Time); ts != "" {
		at, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return state.Query{}, fmt.Errorf("%w: time %q is not RFC 3339", ErrInvalidRequest, req.Time)
		}
		q.Time = at.UTC()
	}
	return q, nil
}

// ValidateConditionsUpdate checks every event before any is applied.
func ValidateConditionsUpdate(req UpdateConditionsRequest) error {
	if len(req.Events) == 0 {
		return fmt.Errorf("%w: at least one event is required", ErrInvalidRequest)
	}
	for i, ev := range req.Events {
		if err := state.ValidateEvent(ev.Event, ev.Level); err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
	}
	return nil
}
