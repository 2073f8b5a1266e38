package propagation

import (
	"fmt"

	"github.com/signalsfoundry/hf-propagation-sim/catalog"
)

// Station is the operator's equipment. Unknown ids fall back to the
// catalog defaults (dipole, 100 W).
type Station struct {
	AntennaID  string  `json:"antenna" yaml:"antenna"`
	HeadingDeg float64 `json:"heading_deg" yaml:"heading_deg"`
	PowerID    string  `json:"power" yaml:"power"`
}

// DefaultStation is a 100 W dipole.
func DefaultStation() Station {
	return Station{AntennaID: catalog.DefaultAntennaID, PowerID: catalog.DefaultPowerID}
}

const (
	// skipZoneHopFraction is the share of a band's typical hop that falls
	// silent between ground wave and the first sky-wave return.
	skipZoneHopFraction = 0.25
	maxSkipZonePenalty  = 0.3
)

// AntennaModifier is the antenna factor for a path of distanceKm.
func AntennaModifier(antennaID string, distanceKm float64) Factor {
	ai := catalog.AntennaFactor(antennaID, distanceKm)
	return newFactor(FactorAntenna, ai.Impact, ai.Antenna.GainDB,
		fmt.Sprintf("%s, %s distance capability %.2f", ai.Antenna.Name, ai.Bucket, ai.Capability),
		"Antennas trade gain and takeoff angle: low angles reach far, high angles fill in nearby.")
}

// PowerModifier is the transmit-power factor.
func PowerModifier(powerID string) Factor {
	level, impact := catalog.PowerFactor(powerID)
	return newFactor(FactorPower, impact, level.BonusDB,
		fmt.Sprintf("%s (%.0f W)", level.ID, level.Watts),
		"Ten times the power is only 10 dB: it helps, but the ionosphere matters more.")
}

// DirectionModifier is the beam-pointing factor. Only directional antennas
// produce one.
func DirectionModifier(antennaID string, headingDeg, bearingDeg float64) (Factor, bool) {
	ant, _ := catalog.LookupAntenna(antennaID)
	if !ant.Directional {
		return Factor{}, false
	}
	penalty := catalog.DirectionalPenaltyDB(ant.ID, headingDeg, bearingDeg)
	return newFactor(FactorDirection, catalog.DirectionalImpact(ant.ID, headingDeg, bearingDeg), penalty,
		fmt.Sprintf("beam heading %.0f°, path bearing %.0f°", headingDeg, bearingDeg),
		"A beam antenna concentrates energy in one direction; off-axis stations hear much less."), true
}

// SkipZoneModifier penalizes F-layer paths shorter than the skip radius of
// the band, scaled by the antenna's high-angle capability.
func SkipZoneModifier(res Result, antennaID string) (Factor, bool) {
	band, ok := catalog.LookupBand(res.Request.BandID)
	if !ok || res.ReflectionLayer != reflectionLayerF {
		return Factor{}, false
	}
	radius := band.Characteristics.TypicalHopDistanceKm * skipZoneHopFraction * catalog.SkipZoneModifier(antennaID)
	if radius <= 0 || res.DistanceKm >= radius {
		return Factor{}, false
	}
	penalty := maxSkipZonePenalty * (1 - res.DistanceKm/radius)
	return newFactor(FactorSkipZone, -penalty, radius,
		fmt.Sprintf("%.0f km is inside the %.0f km skip zone", res.DistanceKm, radius),
		"Signals leaving at low angles come down far away, leaving a quiet ring close to the transmitter."), true
}

// StationFactors returns the second-stage modifiers for a base result.
func StationFactors(res Result, st Station) []Factor {
	factors := []Factor{
		AntennaModifier(st.AntennaID, res.DistanceKm),
		PowerModifier(st.PowerID),
	}
	if f, ok := DirectionModifier(st.AntennaID, st.HeadingDeg, res.BearingDeg); ok {
		factors = append(factors, f)
	}
	if f, ok := SkipZoneModifier(res, st.AntennaID); ok {
		factors = append(factors, f)
	}
	return factors
}

// Combine applies modifier factors with a default Evaluator.
func Combine(base Result, modifiers ...Factor) Result {
	return defaultEvaluator.Combine(base, modifiers...)
}

// Combine appends modifier factors to base and rescores it, redrawing the
// path if the outcome flips. Failed evaluations pass through unchanged.
func (e *Evaluator) Combine(base Result, modifiers ...Factor) Result {
	if base.Failure != FailureNone || len(modifiers) == 0 {
		return base
	}
	out := base
	out.Factors = make([]Factor, 0, len(base.Factors)+len(modifiers))
	out.Factors = append(out.Factors, base.Factors...)
	out.Factors = append(out.Factors, modifiers...)
	return e.finish(out)
}

// EvaluateStation evaluates req and applies the station's modifiers.
func (e *Evaluator) EvaluateStation(req Request, st Station) Result {
	base := e.Evaluate(req)
	if base.Failure != FailureNone {
		return base
	}
	return e.Combine(base, StationFactors(base, st)...)
}
