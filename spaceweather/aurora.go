package spaceweather

import (
	"math"

	"github.com/signalsfoundry/hf-propagation-sim/internal/numeric"
)

// PolarZoneLatitudeDeg is the |latitude| from which a path sample counts as
// inside the auroral oval.
const PolarZoneLatitudeDeg = 60.0

// AuroraProfile describes an aurora severity. Stronger storms push the oval
// towards the equator, so the threshold latitude drops as severity rises.
type AuroraProfile struct {
	ThresholdLatitudeDeg float64
	MaxDegradation       float64
	FlutterScale         float64
}

var auroraProfiles = map[Severity]AuroraProfile{
	SeverityMinor:    {ThresholdLatitudeDeg: 60, MaxDegradation: 0.4, FlutterScale: 0.3},
	SeverityModerate: {ThresholdLatitudeDeg: 55, MaxDegradation: 0.7, FlutterScale: 0.6},
	SeveritySevere:   {ThresholdLatitudeDeg: 45, MaxDegradation: 1.0, FlutterScale: 0.9},
}

// AuroraProfileFor returns the profile for sev.
func AuroraProfileFor(sev Severity) (AuroraProfile, bool) {
	p, ok := auroraProfiles[sev]
	return p, ok
}

// AuroraState is the aurora event state.
type AuroraState struct {
	Active   bool     `json:"active"`
	Severity Severity `json:"severity,omitempty"`
}

// AuroraImpact is the path-dependent effect of an active aurora.
type AuroraImpact struct {
	Affected         bool
	Degradation      float64
	FlutterIntensity float64
}

// Effect evaluates the aurora for a path reaching maxPathLatitude (absolute
// degrees) with percentInPolarZone of its samples inside the oval. Either a
// deep polar excursion or a mostly-polar path is enough for full effect.
func (s AuroraState) Effect(maxPathLatitude, percentInPolarZone float64) AuroraImpact {
	if !s.Active {
		return AuroraImpact{}
	}
	p, ok := auroraProfiles[s.Severity]
	if !ok {
		return AuroraImpact{}
	}
	maxLat := math.Abs(maxPathLatitude)
	if maxLat < p.ThresholdLatitudeDeg {
		return AuroraImpact{}
	}

	excess := maxLat - p.ThresholdLatitudeDeg
	scale := numeric.Clamp01(math.Max(excess/20, math.Min(1, numeric.Clamp01(percentInPolarZone)*2)))

	return AuroraImpact{
		Affected:         true,
		Degradation:      numeric.Clamp01(scale * p.MaxDegradation),
		FlutterIntensity: numeric.Clamp01(scale * p.FlutterScale),
	}
}
