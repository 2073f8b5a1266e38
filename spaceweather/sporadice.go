package spaceweather

import (
	"strings"

	"github.com/signalsfoundry/hf-propagation-sim/internal/numeric"
)

// Intensity grades a sporadic-E opening.
type Intensity string

const (
	IntensityWeak     Intensity = "weak"
	IntensityModerate Intensity = "moderate"
	IntensityStrong   Intensity = "strong"
)

// ParseIntensity accepts intensity ids case-insensitively.
func ParseIntensity(s string) (Intensity, bool) {
	in := Intensity(strings.ToLower(strings.TrimSpace(s)))
	switch in {
	case IntensityWeak, IntensityModerate, IntensityStrong:
		return in, true
	}
	return "", false
}

const (
	// SporadicEMinDistanceKm is the single-hop Es skip distance below which
	// the effect ramps up linearly from zero.
	SporadicEMinDistanceKm = 500.0
	// sporadicEFadeKm is how far past the intensity's max distance the
	// effect takes to fade out.
	sporadicEFadeKm = 1000.0
	// minSporadicEBoost is the boost below which the opening is ignored.
	minSporadicEBoost = 0.1
)

// SporadicEProfile describes an intensity.
type SporadicEProfile struct {
	BoostMultiplier float64
	MaxDistanceKm   float64
}

var sporadicEProfiles = map[Intensity]SporadicEProfile{
	IntensityWeak:     {BoostMultiplier: 0.4, MaxDistanceKm: 1200},
	IntensityModerate: {BoostMultiplier: 0.7, MaxDistanceKm: 1800},
	IntensityStrong:   {BoostMultiplier: 1.0, MaxDistanceKm: 2300},
}

// Es favours the higher bands; nothing below 40m benefits.
var sporadicEBandBoost = map[string]float64{
	"6m":  1.0,
	"10m": 0.8,
	"12m": 0.65,
	"15m": 0.5,
	"17m": 0.35,
	"20m": 0.2,
	"30m": 0.1,
	"40m": 0.05,
}

// SporadicEProfileFor returns the profile for in.
func SporadicEProfileFor(in Intensity) (SporadicEProfile, bool) {
	p, ok := sporadicEProfiles[in]
	return p, ok
}

// SporadicEBandBoost returns the base boost for a band, 0 when the band does
// not benefit.
func SporadicEBandBoost(bandID string) float64 {
	return sporadicEBandBoost[bandID]
}

// SporadicEState is the sporadic-E event state.
type SporadicEState struct {
	Active    bool      `json:"active"`
	Intensity Intensity `json:"intensity,omitempty"`
}

// SporadicEImpact is the band/distance-dependent effect of an Es opening.
type SporadicEImpact struct {
	Affected bool
	Boost    float64
}

// Effect evaluates the opening for bandID over distanceKm.
func (s SporadicEState) Effect(bandID string, distanceKm float64) SporadicEImpact {
	if !s.Active {
		return SporadicEImpact{}
	}
	p, ok := sporadicEProfiles[s.Intensity]
	if !ok {
		return SporadicEImpact{}
	}
	base := sporadicEBandBoost[bandID]
	if base == 0 {
		return SporadicEImpact{}
	}

	var scale float64
	switch {
	case distanceKm <= 0:
		scale = 0
	case distanceKm < SporadicEMinDistanceKm:
		scale = distanceKm / SporadicEMinDistanceKm
	case distanceKm > p.MaxDistanceKm:
		scale = 1 - (distanceKm-p.MaxDistanceKm)/sporadicEFadeKm
	default:
		scale = 1
	}

	boost := numeric.Clamp01(base * p.BoostMultiplier * numeric.Clamp01(scale))
	return SporadicEImpact{Affected: boost > minSporadicEBoost, Boost: boost}
}
