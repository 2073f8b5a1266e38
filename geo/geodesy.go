package geo

import "math"

// DistanceKm returns the Haversine great-circle distance between a and b.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := (b.Lat - a.Lat) * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// InitialBearing returns the forward azimuth from a towards b in degrees,
// normalised to [0, 360).
func InitialBearing(a, b Point) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return NormalizeBearing(math.Atan2(y, x) * radToDeg)
}

// DestinationPoint projects distanceKm from p along bearingDeg using the
// direct spherical geodesic.
func DestinationPoint(p Point, bearingDeg, distanceKm float64) Point {
	lat1 := p.Lat * degToRad
	lon1 := p.Lon * degToRad
	theta := bearingDeg * degToRad
	delta := distanceKm / EarthRadiusKm

	sinLat2 := math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta)
	if sinLat2 > 1 {
		sinLat2 = 1
	} else if sinLat2 < -1 {
		sinLat2 = -1
	}
	lat2 := math.Asin(sinLat2)
	lon2 := lon1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*sinLat2,
	)

	return Point{Lat: lat2 * radToDeg, Lon: NormalizeLongitude(lon2 * radToDeg)}
}

// Interpolate returns the point at fraction f (0 = a, 1 = b) along the short
// great circle between a and b. The endpoints are returned exactly.
func Interpolate(a, b Point, f float64) Point {
	switch f {
	case 0:
		return a
	case 1:
		return b
	}
	va := UnitVector(a.Lat, a.Lon)
	vb := UnitVector(b.Lat, b.Lon)
	d := CentralAngle(va, vb)
	if d == 0 {
		return a
	}
	sinD := math.Sin(d)
	if sinD < 1e-12 {
		// Antipodes: every meridian is a great circle, pick the initial bearing.
		return DestinationPoint(a, InitialBearing(a, b), d*EarthRadiusKm*f)
	}

	wa := math.Sin((1-f)*d) / sinD
	wb := math.Sin(f*d) / sinD
	lat, lon := va.Scale(wa).Add(vb.Scale(wb)).LatLon()
	return Point{Lat: lat, Lon: lon}
}

// LongPathDistanceKm is the distance the other way around the globe.
func LongPathDistanceKm(a, b Point) float64 {
	return EarthCircumferenceKm - DistanceKm(a, b)
}

// LongPathPoint walks from a along the reciprocal of the short-path bearing
// for f of the long-path distance. The long path is not a blend of its
// endpoints, so the point is projected rather than interpolated.
func LongPathPoint(a, b Point, f float64) Point {
	bearing := NormalizeBearing(InitialBearing(a, b) + 180)
	return DestinationPoint(a, bearing, LongPathDistanceKm(a, b)*f)
}

// SamplePath returns n points evenly spaced by fraction along the chosen
// route, endpoints included. n < 2 is treated as 2.
func SamplePath(a, b Point, n int, long bool) []Point {
	if n < 2 {
		n = 2
	}
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		if long {
			out[i] = LongPathPoint(a, b, f)
		} else {
			out[i] = Interpolate(a, b, f)
		}
	}
	return out
}
