// Package solar computes the simplified solar geometry that drives the
// ionosphere model: the sub-solar point, local solar elevation, lighting
// condition and grey-line membership.
//
// The declination uses a cosine approximation of the axial tilt and the
// sub-solar longitude follows UTC at 15° per hour. Both are deliberately
// coarse; the goal is an explainable model, not an ephemeris.
package solar

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/internal/numeric"
)

// AxialTiltDeg is the obliquity used for the declination approximation.
const AxialTiltDeg = 23.44

const (
	greyLineLowDeg  = -6.0
	greyLineHighDeg = 3.0
	greyLinePeakDeg = -1.5
	greyLineHalfDeg = 4.5
)

// Position is the sub-solar point plus the declination it was derived from.
type Position struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Declination float64 `json:"declination"`
}

// DayOfYear returns the 1-based fractional day of year for t (UTC), derived
// from Julian dates so that 1 January 00:00 is exactly 1.0.
func DayOfYear(t time.Time) float64 {
	t = t.UTC()
	jd := julianDay(t)
	jan1 := satellite.JDay(t.Year(), 1, 1, 0, 0, 0)
	return jd - jan1 + 1
}

func julianDay(t time.Time) float64 {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	return jd + float64(t.Nanosecond())/1e9/86400.0
}

// SunPosition returns the sub-solar point for t.
func SunPosition(t time.Time) Position {
	t = t.UTC()
	dec := -AxialTiltDeg * math.Cos(2*math.Pi/365*(DayOfYear(t)+10))

	hours := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600 +
		float64(t.Nanosecond())/3.6e12
	lon := geo.NormalizeLongitude((12 - hours) * 15)

	return Position{Latitude: dec, Longitude: lon, Declination: dec}
}

// Elevation returns the sun's elevation above the horizon in degrees, as
// seen from (lat, lon) at time t.
func Elevation(lat, lon float64, t time.Time) float64 {
	return SunPosition(t).ElevationAt(lat, lon)
}

// ElevationAt returns the sun's elevation seen from (lat, lon). Callers
// sampling many points at one instant compute the position once.
func (p Position) ElevationAt(lat, lon float64) float64 {
	const d2r = math.Pi / 180
	ha := (lon - p.Longitude) * d2r
	la := lat * d2r
	dec := p.Declination * d2r

	s := math.Sin(la)*math.Sin(dec) + math.Cos(la)*math.Cos(dec)*math.Cos(ha)
	return math.Asin(numeric.ClampRange(s, -1, 1)) / d2r
}

// GreyLineStatus reports grey-line membership and how close the point is to
// the centre of the twilight band.
type GreyLineStatus struct {
	IsGreyLine bool    `json:"is_grey_line"`
	Strength   float64 `json:"strength"`
}

// GreyLineAtElevation classifies an elevation. The window [-6°, +3°] is
// wider than civil twilight so learners can find it; strength peaks at -1.5°
// and reaches 0 at both edges.
func GreyLineAtElevation(elevation float64) GreyLineStatus {
	if elevation < greyLineLowDeg || elevation > greyLineHighDeg {
		return GreyLineStatus{}
	}
	strength := 1 - math.Abs(elevation-greyLinePeakDeg)/greyLineHalfDeg
	return GreyLineStatus{IsGreyLine: true, Strength: numeric.Clamp01(strength)}
}

// GreyLine classifies (lat, lon) at time t.
func GreyLine(lat, lon float64, t time.Time) GreyLineStatus {
	return GreyLineAtElevation(Elevation(lat, lon, t))
}
