package catalog

import (
	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/internal/numeric"
)

// DBPerImpact converts decibels into factor impact. It is the same 30 that
// scales impacts into signal-strength points, so 1 dB ≈ 1 point.
const DBPerImpact = 30.0

// DBToImpact converts a dB gain or loss into a factor impact.
func DBToImpact(db float64) float64 {
	return db / DBPerImpact
}

// AntennaImpact is the result of AntennaFactor.
type AntennaImpact struct {
	Antenna    Antenna
	Known      bool
	Bucket     DistanceBucket
	Capability float64
	Impact     float64
}

// AntennaFactor blends the antenna's gain with how well it suits the path
// length: impact = gain/30 + (capability − 0.5)·0.3.
func AntennaFactor(antennaID string, distanceKm float64) AntennaImpact {
	a, known := LookupAntenna(antennaID)
	bucket := BucketForDistance(distanceKm)
	capability := a.Capability(bucket)
	return AntennaImpact{
		Antenna:    a,
		Known:      known,
		Bucket:     bucket,
		Capability: capability,
		Impact:     DBToImpact(a.GainDB) + (capability-0.5)*0.3,
	}
}

// beamRegion is one breakpoint of the directional pattern: at Offset degrees
// off boresight the antenna loses PenaltyDB.
type beamRegion struct {
	Offset    float64
	PenaltyDB float64
}

// Main beam, two side regions, the flank and the back lobe. Penalty is
// linear between breakpoints.
var beamPattern = []beamRegion{
	{Offset: 0, PenaltyDB: 0},
	{Offset: 30, PenaltyDB: 3},
	{Offset: 60, PenaltyDB: 8},
	{Offset: 90, PenaltyDB: 12},
	{Offset: 135, PenaltyDB: 17},
	{Offset: 180, PenaltyDB: 20},
}

// BeamPenaltyDB maps an angular offset from boresight onto the pattern.
func BeamPenaltyDB(offsetDeg float64) float64 {
	off := numeric.ClampRange(offsetDeg, 0, 180)
	for i := 1; i < len(beamPattern); i++ {
		lo, hi := beamPattern[i-1], beamPattern[i]
		if off <= hi.Offset {
			t := (off - lo.Offset) / (hi.Offset - lo.Offset)
			return numeric.Lerp(lo.PenaltyDB, hi.PenaltyDB, t)
		}
	}
	return beamPattern[len(beamPattern)-1].PenaltyDB
}

// DirectionalPenaltyDB is the loss from pointing a directional antenna at
// headingDeg when the target lies at bearingDeg. Omnidirectional antennas
// never lose anything.
func DirectionalPenaltyDB(antennaID string, headingDeg, bearingDeg float64) float64 {
	a, _ := LookupAntenna(antennaID)
	if !a.Directional {
		return 0
	}
	return BeamPenaltyDB(geo.AngularDifference(headingDeg, bearingDeg))
}

// DirectionalImpact converts the directional penalty into a (non-positive)
// impact.
func DirectionalImpact(antennaID string, headingDeg, bearingDeg float64) float64 {
	return -DBToImpact(DirectionalPenaltyDB(antennaID, headingDeg, bearingDeg))
}

// PowerFactor returns the impact of a power setting.
func PowerFactor(powerID string) (PowerLevel, float64) {
	p, _ := LookupPower(powerID)
	return p, DBToImpact(p.BonusDB)
}

// SkipZoneModifier shrinks the skip zone for antennas that radiate upwards:
// 1 − nvisCapability·0.3.
func SkipZoneModifier(antennaID string) float64 {
	a, _ := LookupAntenna(antennaID)
	return 1 - a.NVISCapability*0.3
}
