package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/internal/sim/state"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
)

// EvaluateRequest is the Evaluate and SurveyBands payload. Time is RFC 3339;
// empty means the session clock. SurveyBands ignores Band.
type EvaluateRequest struct {
	Source      *geo.Location `json:"source"`
	Target      *geo.Location `json:"target"`
	Band        string        `json:"band,omitempty"`
	PathMode    string        `json:"path_mode,omitempty"`
	Time        string        `json:"time,omitempty"`
	IncludePath bool          `json:"include_path,omitempty"`
}

// ResultView is the wire form of a propagation.Result. The drawn path is
// only present when the request asked for it.
type ResultView struct {
	Band            string                  `json:"band"`
	Time            time.Time               `json:"time"`
	Success         bool                    `json:"success"`
	SignalStrength  float64                 `json:"signal_strength"`
	Summary         string                  `json:"summary"`
	Failure         string                  `json:"failure,omitempty"`
	PathMode        string                  `json:"path_mode"`
	DistanceKm      float64                 `json:"distance_km"`
	BearingDeg      float64                 `json:"bearing_deg"`
	ReflectionLayer string                  `json:"reflection_layer,omitempty"`
	Hops            propagation.HopAnalysis `json:"hops"`
	Factors         []propagation.Factor    `json:"factors"`
	Path            *propagation.SignalPath `json:"path,omitempty"`
}

// NewResultView flattens res for the wire.
func NewResultView(res propagation.Result, includePath bool) ResultView {
	v := ResultView{
		Band:            res.Request.BandID,
		Time:            res.Request.Time,
		Success:         res.Success,
		SignalStrength:  res.SignalStrength,
		Summary:         res.Summary,
		Failure:         string(res.Failure),
		PathMode:        string(res.PathMode),
		DistanceKm:      res.DistanceKm,
		BearingDeg:      res.BearingDeg,
		ReflectionLayer: res.ReflectionLayer,
		Hops:            res.Hops,
		Factors:         res.Factors,
	}
	if includePath {
		path := res.Path
		v.Path = &path
	}
	return v
}

// EvaluateResponse wraps one result.
type EvaluateResponse struct {
	Result ResultView `json:"result"`
}

// SurveyResponse lists every band, strongest first.
type SurveyResponse struct {
	Results []ResultView `json:"results"`
	Open    []string     `json:"open"`
}

// ConditionsUpdate is one UpdateConditions event. Event takes the names
// accepted by state.ApplyEvent; Level is the activity level, severity or
// intensity the event needs.
type ConditionsUpdate struct {
	Event string `json:"event"`
	Level string `json:"level,omitempty"`
}

// UpdateConditionsRequest applies events in order. Validation covers all of
// them first, so a bad event leaves the conditions untouched.
type UpdateConditionsRequest struct {
	Events []ConditionsUpdate `json:"events"`
}

// ConditionsResponse is the session's space weather and clock.
type ConditionsResponse struct {
	SimTime      time.Time             `json:"sim_time"`
	Conditions   spaceweather.Snapshot `json:"conditions"`
	ActiveEvents []string              `json:"active_events"`
}

// StationResponse echoes the stored, normalised station.
type StationResponse struct {
	Station propagation.Station `json:"station"`
}

// encodeStruct converts v to a Struct through its JSON form.
func encodeStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return out, nil
}

// decodeStruct fills v from in, rejecting unknown fields. A nil Struct
// decodes as an empty object.
func decodeStruct(in *structpb.Struct, v any) error {
	raw := []byte("{}")
	if in != nil {
		var err error
		if raw, err = protojson.Marshal(in); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func conditionsResponse(s *state.SimulationState) ConditionsResponse {
	snap := s.Conditions()
	events := snap.ActiveEvents()
	if events == nil {
		events = []string{}
	}
	return ConditionsResponse{SimTime: s.Now(), Conditions: snap, ActiveEvents: events}
}
