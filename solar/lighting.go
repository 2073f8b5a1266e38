package solar

import "time"

// LightingCondition is one of six ordered illumination bands. Higher values
// are brighter.
type LightingCondition int

const (
	Night LightingCondition = iota
	AstronomicalTwilight
	NauticalTwilight
	CivilTwilight
	DayLow
	Day
)

// String returns the stable key used by the text layer to look up the
// educational description.
func (c LightingCondition) String() string {
	switch c {
	case Day:
		return "day"
	case DayLow:
		return "day-low"
	case CivilTwilight:
		return "civil-twilight"
	case NauticalTwilight:
		return "nautical-twilight"
	case AstronomicalTwilight:
		return "astronomical-twilight"
	case Night:
		return "night"
	default:
		return "unknown"
	}
}

// MarshalText encodes the condition as its key.
func (c LightingCondition) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// LightingForElevation buckets a solar elevation.
func LightingForElevation(elevation float64) LightingCondition {
	switch {
	case elevation > 6:
		return Day
	case elevation > 0:
		return DayLow
	case elevation > -6:
		return CivilTwilight
	case elevation > -12:
		return NauticalTwilight
	case elevation > -18:
		return AstronomicalTwilight
	default:
		return Night
	}
}

// Lighting classifies the illumination at (lat, lon) for time t.
func Lighting(lat, lon float64, t time.Time) LightingCondition {
	return LightingForElevation(Elevation(lat, lon, t))
}
