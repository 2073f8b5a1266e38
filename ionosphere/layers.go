// Package ionosphere converts solar elevation into a three-layer snapshot of
// the ionosphere. The D layer absorbs, E and F reflect, and F never fully
// disappears at night.
package ionosphere

import (
	"math"

	"github.com/signalsfoundry/hf-propagation-sim/internal/numeric"
)

const (
	nightElevationDeg = -18.0
	fullDayElevDeg    = 45.0

	// fMinIonization is the residual F-layer ionization at night.
	fMinIonization = 0.3

	// greyLineDFade is the fraction of D-layer ionization left in twilight.
	// The D layer collapses faster than F, which is what opens the grey line.
	greyLineDFade = 0.4
	// greyLineFBoost multiplies F-layer reflection in twilight.
	greyLineFBoost = 1.3
)

// Layer identifies an ionospheric layer.
type Layer string

const (
	LayerD Layer = "D"
	LayerE Layer = "E"
	LayerF Layer = "F"
)

// LayerState is the condition of one layer at one place and time.
type LayerState struct {
	Ionization        float64 `json:"ionization"`
	AbsorptionFactor  float64 `json:"absorption_factor"`
	ReflectionQuality float64 `json:"reflection_quality"`
}

// Layers groups the three layer snapshots for a sample point.
type Layers struct {
	D LayerState `json:"d"`
	E LayerState `json:"e"`
	F LayerState `json:"f"`
}

// DayFactor maps solar elevation to a 0..1 illumination factor: 0 below
// -18°, 1 above 45°, and a raised-cosine ramp in between.
func DayFactor(elevation float64) float64 {
	switch {
	case math.IsNaN(elevation), elevation <= nightElevationDeg:
		return 0
	case elevation >= fullDayElevDeg:
		return 1
	}
	x := (elevation - nightElevationDeg) / (fullDayElevDeg - nightElevationDeg)
	return numeric.Clamp01((1 - math.Cos(math.Pi*x)) / 2)
}

// LayerStates computes D/E/F states for a solar elevation. All outputs are
// within [0,1]; callers combining them with event multipliers must clamp
// again.
func LayerStates(elevation float64, greyLine bool) Layers {
	df := DayFactor(elevation)

	dIon := math.Pow(df, 0.7)
	if greyLine {
		dIon *= greyLineDFade
	}
	dIon = numeric.Clamp01(dIon)

	eIon := numeric.Clamp01(math.Pow(df, 0.8))

	fIon := numeric.Clamp01(fMinIonization + df*(1-fMinIonization))
	fRefl := 0.4 + fIon*0.6
	if greyLine {
		fRefl *= greyLineFBoost
	}

	return Layers{
		D: LayerState{
			Ionization:        dIon,
			AbsorptionFactor:  numeric.Clamp01(dIon * 0.9),
			ReflectionQuality: 0.1,
		},
		E: LayerState{
			Ionization:        eIon,
			AbsorptionFactor:  numeric.Clamp01(eIon * 0.3),
			ReflectionQuality: numeric.Clamp01(eIon * 0.7),
		},
		F: LayerState{
			Ionization:        fIon,
			AbsorptionFactor:  0.1,
			ReflectionQuality: numeric.Clamp01(fRefl),
		},
	}
}
