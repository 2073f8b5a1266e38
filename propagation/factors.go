package propagation

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/hf-propagation-sim/catalog"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
)

// FactorKind is the closed set of contributions the evaluator can emit. The
// text layer switches on the kind; String returns the stable lookup key.
type FactorKind int

const (
	FactorAbsorption FactorKind = iota + 1
	FactorReflection
	FactorGreyLine
	FactorGeometry
	FactorHopLoss
	FactorBlackout
	FactorAurora
	FactorSporadicE
	FactorAntenna
	FactorPower
	FactorDirection
	FactorSkipZone
)

var factorKeys = map[FactorKind]string{
	FactorAbsorption: "D Layer Absorption",
	FactorReflection: "F Layer Reflection",
	FactorGreyLine:   "Grey Line Effect",
	FactorGeometry:   "Path Geometry",
	FactorHopLoss:    "Multi-Hop Loss",
	FactorBlackout:   "Solar Flare Blackout",
	FactorAurora:     "Aurora",
	FactorSporadicE:  "Sporadic-E",
	FactorAntenna:    "Antenna",
	FactorPower:      "Transmit Power",
	FactorDirection:  "Antenna Direction",
	FactorSkipZone:   "Skip Zone",
}

func (k FactorKind) String() string {
	if s, ok := factorKeys[k]; ok {
		return s
	}
	return fmt.Sprintf("FactorKind(%d)", int(k))
}

// MarshalText encodes the kind as its stable key.
func (k FactorKind) MarshalText() ([]byte, error) {
	if _, ok := factorKeys[k]; !ok {
		return nil, fmt.Errorf("unknown factor kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a stable key.
func (k *FactorKind) UnmarshalText(text []byte) error {
	kind, ok := ParseFactorKind(string(text))
	if !ok {
		return fmt.Errorf("unknown factor kind %q", text)
	}
	*k = kind
	return nil
}

// ParseFactorKind maps a stable key back to its kind.
func ParseFactorKind(key string) (FactorKind, bool) {
	for k, s := range factorKeys {
		if s == key {
			return k, true
		}
	}
	return 0, false
}

// Factor is one explainable contribution to a result. Positive impact helps
// the signal, negative hinders it; Value carries the underlying quantity
// (absorption, reflection quality, hop count, dB...) for the text layer.
type Factor struct {
	Kind        FactorKind `json:"kind"`
	Name        string     `json:"name"`
	Impact      float64    `json:"impact"`
	Value       float64    `json:"value"`
	Description string     `json:"description"`
	Educational string     `json:"educational,omitempty"`
}

func newFactor(kind FactorKind, impact, value float64, description, educational string) Factor {
	return Factor{
		Kind:        kind,
		Name:        kind.String(),
		Impact:      impact,
		Value:       value,
		Description: description,
		Educational: educational,
	}
}

// AbsorptionFactor scores D-layer absorption for a band given the worst
// absorption found along the path.
func AbsorptionFactor(band catalog.Band, pathMaxAbsorption float64) Factor {
	absorption := band.Characteristics.DayAbsorption * pathMaxAbsorption
	const edu = "The D layer forms in sunlight and soaks up lower frequencies; it vanishes soon after sunset."

	switch {
	case absorption > 0.7:
		return newFactor(FactorAbsorption, -0.8, absorption, "heavy D-layer absorption", edu)
	case absorption > 0.4:
		return newFactor(FactorAbsorption, -0.4, absorption, "moderate D-layer absorption", edu)
	case absorption > 0.1:
		return newFactor(FactorAbsorption, -0.1, absorption, "minor D-layer absorption", edu)
	default:
		return newFactor(FactorAbsorption, 0.2, absorption, "minimal D-layer absorption", edu)
	}
}

// ReflectionFactor scores whether the F layer returns the band to Earth.
// mufMultiplier scales the band's frequency difficulty (1 = neutral).
func ReflectionFactor(band catalog.Band, avgFReflection, mufMultiplier float64) Factor {
	return reflectionFactor(band, avgFReflection, mufMultiplier, false)
}

func reflectionFactor(band catalog.Band, reflection, mufMultiplier float64, viaSporadicE bool) Factor {
	difficulty := band.FrequencyDifficulty()
	if mufMultiplier > 0 {
		difficulty /= mufMultiplier
	}
	const edu = "Higher frequencies need a more strongly ionized F layer to bend back to Earth."

	if !viaSporadicE && reflection <= difficulty {
		return newFactor(FactorReflection, -1.0, reflection,
			fmt.Sprintf("%s passes through the F layer into space", band.ID), edu)
	}

	layer := "F-layer"
	if viaSporadicE {
		layer = "sporadic-E"
	}
	switch {
	case reflection > 0.8:
		return newFactor(FactorReflection, 0.5, reflection, "excellent "+layer+" reflection", edu)
	case reflection > 0.5:
		return newFactor(FactorReflection, 0.2, reflection, "good "+layer+" reflection", edu)
	default:
		return newFactor(FactorReflection, -0.2, reflection, "weak "+layer+" reflection", edu)
	}
}

// GreyLineFactor scores the share of the path inside the twilight band. The
// boolean is false when the path never touches the grey line.
func GreyLineFactor(percentInGreyLine float64) (Factor, bool) {
	if percentInGreyLine <= 0 {
		return Factor{}, false
	}
	const edu = "Along the day/night boundary the D layer has faded while the F layer is still strong."

	switch {
	case percentInGreyLine > 0.5:
		return newFactor(FactorGreyLine, 0.6, percentInGreyLine, "path runs along the grey line", edu), true
	case percentInGreyLine > 0.2:
		return newFactor(FactorGreyLine, 0.3, percentInGreyLine, "path partly follows the grey line", edu), true
	default:
		return newFactor(FactorGreyLine, 0.1, percentInGreyLine, "path crosses the grey line", edu), true
	}
}

// GeometryFactor scores the hop structure of the path.
func GeometryFactor(h HopAnalysis) Factor {
	const edu = "Each band has a typical hop length; long paths need several bounces off the ionosphere."
	switch {
	case !h.Feasible:
		return newFactor(FactorGeometry, -0.8, float64(h.Ideal),
			fmt.Sprintf("needs %d hops, band supports at most %d", h.Ideal, h.Max), edu)
	case h.Actual == 1:
		return newFactor(FactorGeometry, 0.3, 1, "single hop", edu)
	case h.Actual <= 2:
		return newFactor(FactorGeometry, 0.1, float64(h.Actual), "two hops", edu)
	default:
		return newFactor(FactorGeometry, -0.2, float64(h.Actual),
			fmt.Sprintf("long multi-hop path (%d hops)", h.Actual), edu)
	}
}

const (
	excessHopLoss = 0.3
	maxHopLoss    = 0.9
)

// HopLossFactor charges for the bounces an infeasible path would need beyond
// the band's hop limit. Feasible paths are scored on geometry alone.
func HopLossFactor(h HopAnalysis) (Factor, bool) {
	if h.Feasible || h.Ideal <= h.Max {
		return Factor{}, false
	}
	extra := h.Ideal - h.Max
	loss := math.Min(maxHopLoss, excessHopLoss*float64(extra))
	return newFactor(FactorHopLoss, -loss, float64(extra),
		fmt.Sprintf("%d hops beyond what the band can sustain", extra),
		"Every extra hop loses energy when the signal reflects off the ground."), true
}

const maxBlackoutImpact = 1.5

func blackoutFactor(state spaceweather.BlackoutState, impact spaceweather.BlackoutImpact) Factor {
	loss := math.Min(maxBlackoutImpact, (impact.AbsorptionMultiplier-1)/6)
	return newFactor(FactorBlackout, -loss, impact.AbsorptionMultiplier,
		fmt.Sprintf("%s solar flare is over-ionizing the D layer on the day side", state.Severity),
		"X-ray bursts from a flare make the D layer absorb almost everything on the sunlit side.")
}

func auroraFactor(state spaceweather.AuroraState, impact spaceweather.AuroraImpact) Factor {
	return newFactor(FactorAurora, -impact.Degradation, impact.FlutterIntensity,
		fmt.Sprintf("%s aurora disturbs the high-latitude part of the path", state.Severity),
		"Auroral activity scatters and absorbs signals crossing the polar regions, adding flutter.")
}

func sporadicEFactor(state spaceweather.SporadicEState, impact spaceweather.SporadicEImpact) Factor {
	return newFactor(FactorSporadicE, impact.Boost*0.5, impact.Boost,
		fmt.Sprintf("%s sporadic-E cloud reflects the signal", state.Intensity),
		"Dense patches in the E layer can reflect frequencies the F layer would let through.")
}
