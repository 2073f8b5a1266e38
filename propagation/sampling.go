package propagation

import (
	"math"

	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/internal/numeric"
	"github.com/signalsfoundry/hf-propagation-sim/ionosphere"
	"github.com/signalsfoundry/hf-propagation-sim/solar"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
)

// DefaultSampleCount is the number of points examined along a path.
const DefaultSampleCount = 10

// PathSample is the ionospheric picture at one point of the path.
type PathSample struct {
	Point     geo.Point               `json:"point"`
	Elevation float64                 `json:"elevation"`
	Lighting  solar.LightingCondition `json:"lighting"`
	GreyLine  solar.GreyLineStatus    `json:"grey_line"`
	Layers    ionosphere.Layers       `json:"layers"`
}

// PathConditions aggregates the samples taken along a path.
type PathConditions struct {
	Samples            []PathSample `json:"samples"`
	AvgDIonization     float64      `json:"avg_d_ionization"`
	AvgFIonization     float64      `json:"avg_f_ionization"`
	AvgFReflection     float64      `json:"avg_f_reflection"`
	MaxAbsorption      float64      `json:"max_absorption"`
	PercentInGreyLine  float64      `json:"percent_in_grey_line"`
	DayFraction        float64      `json:"day_fraction"`
	MaxAbsLatitude     float64      `json:"max_abs_latitude"`
	PercentInPolarZone float64      `json:"percent_in_polar_zone"`
}

// SamplePath walks n equally spaced points (fractions i/(n-1)) along the
// chosen route and applies the activity profile to every sample.
func SamplePath(req Request, n int) PathConditions {
	if n < 2 {
		n = 2
	}
	profile := req.Conditions.Profile()
	sun := solar.SunPosition(req.Time)
	points := geo.SamplePath(req.Source.Point(), req.Target.Point(), n, req.PathMode == PathLong)

	pc := PathConditions{Samples: make([]PathSample, 0, len(points))}
	var grey, day, polar int
	for _, p := range points {
		elevation := sun.ElevationAt(p.Lat, p.Lon)
		gl := solar.GreyLineAtElevation(elevation)
		layers := ionosphere.LayerStates(elevation, gl.IsGreyLine)

		layers.D.AbsorptionFactor = numeric.Clamp01(layers.D.AbsorptionFactor * profile.AbsorptionFactor)
		layers.F.ReflectionQuality = numeric.Clamp01(layers.F.ReflectionQuality * profile.FLayerBoost)

		pc.Samples = append(pc.Samples, PathSample{
			Point:     p,
			Elevation: elevation,
			Lighting:  solar.LightingForElevation(elevation),
			GreyLine:  gl,
			Layers:    layers,
		})

		pc.AvgDIonization += layers.D.Ionization
		pc.AvgFIonization += layers.F.Ionization
		pc.AvgFReflection += layers.F.ReflectionQuality
		pc.MaxAbsorption = math.Max(pc.MaxAbsorption, layers.D.AbsorptionFactor)
		pc.MaxAbsLatitude = math.Max(pc.MaxAbsLatitude, math.Abs(p.Lat))
		if gl.IsGreyLine {
			grey++
		}
		if elevation > 0 {
			day++
		}
		if math.Abs(p.Lat) >= spaceweather.PolarZoneLatitudeDeg {
			polar++
		}
	}

	count := float64(len(pc.Samples))
	pc.AvgDIonization /= count
	pc.AvgFIonization /= count
	pc.AvgFReflection /= count
	pc.PercentInGreyLine = float64(grey) / count
	pc.DayFraction = float64(day) / count
	pc.PercentInPolarZone = float64(polar) / count
	return pc
}
