package catalog

import "sort"

// DefaultAntennaID is used whenever an antenna id is unknown.
const DefaultAntennaID = "dipole"

// Distance buckets for the antenna factor.
const (
	NVISMaxDistanceKm = 500.0
	DXMinDistanceKm   = 1500.0
)

// Antenna describes a station antenna.
type Antenna struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	GainDB          float64 `json:"gain_db"`
	TakeoffAngleDeg float64 `json:"takeoff_angle_deg"`
	NVISCapability  float64 `json:"nvis_capability"`
	DXCapability    float64 `json:"dx_capability"`
	Directional     bool    `json:"directional"`
}

var antennas = map[string]Antenna{
	"dipole": {ID: "dipole", Name: "Half-wave dipole", GainDB: 2.15, TakeoffAngleDeg: 25,
		NVISCapability: 0.6, DXCapability: 0.6},
	"vertical": {ID: "vertical", Name: "Quarter-wave vertical", GainDB: 0, TakeoffAngleDeg: 15,
		NVISCapability: 0.2, DXCapability: 0.8},
	"yagi": {ID: "yagi", Name: "3-element Yagi", GainDB: 8, TakeoffAngleDeg: 12,
		NVISCapability: 0.1, DXCapability: 0.95, Directional: true},
	"nvis": {ID: "nvis", Name: "Low NVIS dipole", GainDB: 1, TakeoffAngleDeg: 80,
		NVISCapability: 0.95, DXCapability: 0.2},
}

// LookupAntenna returns the antenna for id, falling back to the dipole. The
// boolean reports whether id was found.
func LookupAntenna(id string) (Antenna, bool) {
	if a, ok := antennas[id]; ok {
		return a, true
	}
	return antennas[DefaultAntennaID], false
}

// Antennas returns every antenna ordered by id.
func Antennas() []Antenna {
	out := make([]Antenna, 0, len(antennas))
	for _, a := range antennas {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DistanceBucket classifies a path length for antenna selection.
type DistanceBucket string

const (
	BucketNVIS   DistanceBucket = "nvis"
	BucketMedium DistanceBucket = "medium"
	BucketDX     DistanceBucket = "dx"
)

// BucketForDistance returns the bucket for distanceKm.
func BucketForDistance(distanceKm float64) DistanceBucket {
	switch {
	case distanceKm < NVISMaxDistanceKm:
		return BucketNVIS
	case distanceKm > DXMinDistanceKm:
		return BucketDX
	default:
		return BucketMedium
	}
}

// Capability returns how well the antenna suits a distance bucket. Medium
// paths use the mean of the NVIS and DX capabilities.
func (a Antenna) Capability(bucket DistanceBucket) float64 {
	switch bucket {
	case BucketNVIS:
		return a.NVISCapability
	case BucketDX:
		return a.DXCapability
	default:
		return (a.NVISCapability + a.DXCapability) / 2
	}
}
