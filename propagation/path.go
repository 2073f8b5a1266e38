package propagation

import (
	"github.com/signalsfoundry/hf-propagation-sim/geo"
)

// PathType classifies a drawn signal path.
type PathType string

const (
	PathFailed    PathType = "failed"
	PathSingleHop PathType = "single-hop"
	PathMultiHop  PathType = "multi-hop"
)

const (
	// FLayerApexKm is the drawn apex of an F-layer hop.
	FLayerApexKm = 300.0
	// SporadicEApexKm is the drawn apex of an Es hop.
	SporadicEApexKm = 110.0

	defaultArcResolution = 16
	failedPathResolution = 64
	reflectionLayerF     = "F"
	reflectionLayerEs    = "Es"
)

// PathPoint is a point of the drawn path; AltitudeKm is 0 on the ground.
type PathPoint struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	AltitudeKm float64 `json:"altitude_km"`
}

// HopInfo is one ground-to-ground bounce.
type HopInfo struct {
	Start           PathPoint `json:"start"`
	End             PathPoint `json:"end"`
	ReflectionLayer string    `json:"reflection_layer"`
	DistanceKm      float64   `json:"distance_km"`
}

// SignalPath is the polyline a renderer draws for a result.
type SignalPath struct {
	Points          []PathPoint `json:"points"`
	Hops            []HopInfo   `json:"hops"`
	TotalDistanceKm float64     `json:"total_distance_km"`
	Type            PathType    `json:"type"`
}

type pathBuilder struct {
	arcResolution int
}

func (b pathBuilder) routePoint(src, dst geo.Point, mode PathMode, f float64) geo.Point {
	if mode == PathLong {
		return geo.LongPathPoint(src, dst, f)
	}
	return geo.Interpolate(src, dst, f)
}

// build draws a flat polyline for failed paths and hops parabolic arcs for
// successful ones: altitude = 4·apex·t·(1−t) within each hop.
func (b pathBuilder) build(src, dst geo.Point, mode PathMode, distanceKm float64, hops int, success bool, layer string) SignalPath {
	if !success || hops < 1 {
		pts := make([]PathPoint, 0, failedPathResolution+1)
		for i := 0; i <= failedPathResolution; i++ {
			p := b.routePoint(src, dst, mode, float64(i)/failedPathResolution)
			pts = append(pts, PathPoint{Lat: p.Lat, Lon: p.Lon})
		}
		return SignalPath{Points: pts, TotalDistanceKm: distanceKm, Type: PathFailed}
	}

	apex := FLayerApexKm
	if layer == reflectionLayerEs {
		apex = SporadicEApexKm
	}
	res := b.arcResolution
	if res < 2 {
		res = defaultArcResolution
	}

	out := SignalPath{
		Points:          make([]PathPoint, 0, hops*res+1),
		Hops:            make([]HopInfo, 0, hops),
		TotalDistanceKm: distanceKm,
		Type:            PathSingleHop,
	}
	if hops > 1 {
		out.Type = PathMultiHop
	}

	for h := 0; h < hops; h++ {
		f0 := float64(h) / float64(hops)
		f1 := float64(h+1) / float64(hops)
		start := len(out.Points)
		for i := 0; i <= res; i++ {
			if h > 0 && i == 0 {
				// shared with the previous hop's landing point
				continue
			}
			t := float64(i) / float64(res)
			p := b.routePoint(src, dst, mode, f0+(f1-f0)*t)
			out.Points = append(out.Points, PathPoint{Lat: p.Lat, Lon: p.Lon, AltitudeKm: 4 * apex * t * (1 - t)})
		}
		if h > 0 {
			start--
		}
		end := out.Points[len(out.Points)-1]
		out.Hops = append(out.Hops, HopInfo{
			Start:           out.Points[start],
			End:             end,
			ReflectionLayer: layer,
			DistanceKm:      distanceKm / float64(hops),
		})
	}
	return out
}
