package propagation

import (
	"time"

	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
)

// PathMode selects the short or long great-circle route.
type PathMode string

const (
	PathShort PathMode = "short"
	PathLong  PathMode = "long"
)

// ParsePathMode accepts "short", "long" or empty (short).
func ParsePathMode(s string) (PathMode, bool) {
	switch PathMode(s) {
	case "", PathShort:
		return PathShort, true
	case PathLong:
		return PathLong, true
	default:
		return "", false
	}
}

// FailureReason is set when a request could not be evaluated at all, as
// opposed to a path that was evaluated and did not open.
type FailureReason string

const (
	FailureNone            FailureReason = ""
	FailureUnknownBand     FailureReason = "unknown-band"
	FailureInvalidLocation FailureReason = "invalid-location"
)

// Request is one evaluation input. Conditions is an immutable snapshot;
// the zero value means quiet skies at normal activity.
type Request struct {
	Source     geo.Location          `json:"source"`
	Target     geo.Location          `json:"target"`
	BandID     string                `json:"band"`
	Time       time.Time             `json:"time"`
	PathMode   PathMode              `json:"path_mode"`
	Conditions spaceweather.Snapshot `json:"conditions"`
}

// HopAnalysis describes how many ionospheric bounces the path needs.
type HopAnalysis struct {
	Ideal    int  `json:"ideal"`
	Actual   int  `json:"actual"`
	Max      int  `json:"max"`
	Feasible bool `json:"feasible"`
}

// Result is the outcome of an evaluation with its explainable factor list.
type Result struct {
	Success        bool           `json:"success"`
	SignalStrength float64        `json:"signal_strength"`
	Factors        []Factor       `json:"factors"`
	Path           SignalPath     `json:"path"`
	PathMode       PathMode       `json:"path_mode"`
	Summary        string         `json:"summary"`
	Failure        FailureReason  `json:"failure,omitempty"`
	Hops           HopAnalysis    `json:"hops"`
	DistanceKm     float64        `json:"distance_km"`
	BearingDeg     float64        `json:"bearing_deg"`
	Conditions     PathConditions `json:"conditions"`
	Request        Request        `json:"request"`
	// ReflectionLayer is "F", or "Es" when sporadic-E carries the path.
	ReflectionLayer string `json:"reflection_layer"`
}

// Factor returns the first factor of the given kind.
func (r Result) Factor(kind FactorKind) (Factor, bool) {
	for _, f := range r.Factors {
		if f.Kind == kind {
			return f, true
		}
	}
	return Factor{}, false
}

// TotalImpact sums every factor impact.
func (r Result) TotalImpact() float64 {
	var sum float64
	for _, f := range r.Factors {
		sum += f.Impact
	}
	return sum
}
