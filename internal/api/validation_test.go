package api

import (
	"errors"
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/hf-propagation-sim/internal/sim/state"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
)

func TestValidateEvaluateRequestNormalizes(t *testing.T) {
	q, err := ValidateEvaluateRequest(EvaluateRequest{
		Source:   &vienna,
		Target:   &berlin,
		Band:     " 40m ",
		PathMode: "LONG",
		Time:     "2024-01-15T01:00:00+01:00",
	}, true)
	if err != nil {
		t.Fatalf("ValidateEvaluateRequest: %v", err)
	}
	if q.BandID != "40m" || q.PathMode != propagation.PathLong {
		t.Fatalf("query = %+v", q)
	}
	if !q.Time.Equal(winterMidnight) || q.Time.Location() != time.UTC {
		t.Fatalf("time = %v, want %v in UTC", q.Time, winterMidnight)
	}
}

func TestValidateEvaluateRequestSurveyNeedsNoBand(t *testing.T) {
	if _, err := ValidateEvaluateRequest(EvaluateRequest{Source: &vienna, Target: &berlin}, false); err != nil {
		t.Fatalf("ValidateEvaluateRequest: %v", err)
	}
}

func TestValidateConditionsUpdate(t *testing.T) {
	tests := []struct {
		name string
		req  UpdateConditionsRequest
		want error
	}{
		{"empty", UpdateConditionsRequest{}, ErrInvalidRequest},
		{"unknown event", UpdateConditionsRequest{Events: []ConditionsUpdate{{Event: "solar-wind"}}}, state.ErrUnknownEvent},
		{"bad intensity", UpdateConditionsRequest{Events: []ConditionsUpdate{{Event: "sporadic-e", Level: "huge"}}}, state.ErrInvalidIntensity},
		{"ok", UpdateConditionsRequest{Events: []ConditionsUpdate{{Event: "reset"}, {Event: "aurora", Level: "minor"}}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConditionsUpdate(tt.req)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("ValidateConditionsUpdate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("ValidateConditionsUpdate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeStructRejectsUnknownFields(t *testing.T) {
	in, err := structpb.NewStruct(map[string]any{"band": "40m", "frequency": 7.1})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	var req EvaluateRequest
	if err := decodeStruct(in, &req); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("decodeStruct error = %v, want ErrInvalidRequest", err)
	}
}

func TestEncodeStructRoundTrip(t *testing.T) {
	in := EvaluateRequest{Source: &vienna, Target: &berlin, Band: "20m", IncludePath: true}
	s, err := encodeStruct(in)
	if err != nil {
		t.Fatalf("encodeStruct: %v", err)
	}
	if got := s.Fields["band"].GetStringValue(); got != "20m" {
		t.Fatalf("band field = %q", got)
	}

	var out EvaluateRequest
	if err := decodeStruct(s, &out); err != nil {
		t.Fatalf("decodeStruct: %v", err)
	}
	if *out.Source != vienna || out.Band != "20m" || !out.IncludePath {
		t.Fatalf("decoded = %+v", out)
	}
}
