package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for all great-circle
// calculations (kilometres).
const EarthRadiusKm = 6371.0

// EarthCircumferenceKm is the equatorial circumference used to derive the
// long-path distance. It intentionally differs from 2πR so that short and
// long path always sum to this round figure.
const EarthCircumferenceKm = 40075.0

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Vec3 is an Earth-centred vector. Unit vectors built by UnitVector are
// dimensionless; scale by EarthRadiusKm for kilometres.
type Vec3 struct {
	X, Y, Z float64
}

// UnitVector returns the unit Earth-centred vector for a latitude/longitude
// pair given in degrees.
func UnitVector(lat, lon float64) Vec3 {
	la := lat * degToRad
	lo := lon * degToRad
	return Vec3{
		X: math.Cos(la) * math.Cos(lo),
		Y: math.Cos(la) * math.Sin(lo),
		Z: math.Sin(la),
	}
}

// LatLon converts the vector back to geodetic degrees. The zero vector maps
// to (0,0).
func (v Vec3) LatLon() (lat, lon float64) {
	if v.Norm() == 0 {
		return 0, 0
	}
	lat = math.Atan2(v.Z, math.Hypot(v.X, v.Y)) * radToDeg
	lon = math.Atan2(v.Y, v.X) * radToDeg
	return lat, lon
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Scale returns v * k.
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// CentralAngle returns the angle between two unit vectors in radians.
func CentralAngle(a, b Vec3) float64 {
	cos := a.Dot(b)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// NormalizeLongitude wraps lon into [-180, 180).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// NormalizeBearing wraps a bearing into [0, 360).
func NormalizeBearing(b float64) float64 {
	b = math.Mod(b, 360)
	if b < 0 {
		b += 360
	}
	return b
}

// AngularDifference returns the absolute difference between two bearings,
// folded into [0, 180].
func AngularDifference(a, b float64) float64 {
	d := math.Abs(NormalizeBearing(a) - NormalizeBearing(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
