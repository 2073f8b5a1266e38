// Package geo implements the great-circle geodesy used by the propagation
// engine: distances, bearings, path interpolation and the antipodal long
// path.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate is the sentinel wrapped by every ValidationError.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ValidationError reports an out-of-domain numeric input.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s=%v: %s", ErrInvalidCoordinate, e.Field, e.Value, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidCoordinate).
func (e *ValidationError) Unwrap() error { return ErrInvalidCoordinate }

// Point is a bare latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is a named station position. It is a value type: copy it, never
// mutate it after construction.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Name      string  `json:"name,omitempty" yaml:"name"`
	Code      string  `json:"code,omitempty" yaml:"code"`
}

// NewLocation validates the coordinates and returns a Location.
func NewLocation(lat, lon float64, name, code string) (Location, error) {
	if err := ValidateLatLon(lat, lon); err != nil {
		return Location{}, err
	}
	return Location{Latitude: lat, Longitude: lon, Name: name, Code: code}, nil
}

// Point returns the bare coordinates of the location.
func (l Location) Point() Point {
	return Point{Lat: l.Latitude, Lon: l.Longitude}
}

// Validate checks the location's coordinates.
func (l Location) Validate() error {
	return ValidateLatLon(l.Latitude, l.Longitude)
}

// ValidateLatLon rejects NaN/Inf and values outside ±90 / ±180.
func ValidateLatLon(lat, lon float64) error {
	switch {
	case math.IsNaN(lat) || math.IsInf(lat, 0):
		return &ValidationError{Field: "latitude", Value: lat, Reason: "not a finite number"}
	case lat < -90 || lat > 90:
		return &ValidationError{Field: "latitude", Value: lat, Reason: "must be within [-90, 90]"}
	case math.IsNaN(lon) || math.IsInf(lon, 0):
		return &ValidationError{Field: "longitude", Value: lon, Reason: "not a finite number"}
	case lon < -180 || lon > 180:
		return &ValidationError{Field: "longitude", Value: lon, Reason: "must be within [-180, 180]"}
	}
	return nil
}
