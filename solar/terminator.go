package solar

import (
	"math"
	"time"

	"github.com/signalsfoundry/hf-propagation-sim/geo"
)

// minDeclinationDeg keeps the terminator finite at the equinoxes, where the
// day/night boundary degenerates into a meridian pair.
const minDeclinationDeg = 1e-6

// TerminatorLine traces n points of the elevation = 0 contour from -180° to
// +180° longitude. It is for visualisation only. n < 2 is treated as 2.
func TerminatorLine(t time.Time, n int) []geo.Point {
	if n < 2 {
		n = 2
	}
	sun := SunPosition(t)
	dec := sun.Declination
	if math.Abs(dec) < minDeclinationDeg {
		dec = math.Copysign(minDeclinationDeg, dec)
	}
	tanDec := math.Tan(dec * math.Pi / 180)

	pts := make([]geo.Point, n)
	for i := 0; i < n; i++ {
		lon := -180 + 360*float64(i)/float64(n-1)
		ha := (lon - sun.Longitude) * math.Pi / 180
		lat := math.Atan(-math.Cos(ha)/tanDec) * 180 / math.Pi
		pts[i] = geo.Point{Lat: lat, Lon: lon}
	}
	return pts
}
