// Package spaceweather holds the session's solar-activity level and the three
// transient events the learner can toggle: a solar-flare (Mögel-Dellinger)
// blackout, an aurora, and sporadic-E. Each event exposes a pure effect
// function; SolarConditions owns the mutable state.
package spaceweather

import "strings"

// ActivityLevel is the background solar activity.
type ActivityLevel string

const (
	ActivityQuiet  ActivityLevel = "quiet"
	ActivityNormal ActivityLevel = "normal"
	ActivityActive ActivityLevel = "active"
	ActivityStorm  ActivityLevel = "storm"
)

// ActivityProfile is the multiplicative correction applied to the base
// ionosphere model for an activity level.
type ActivityProfile struct {
	// FLayerBoost scales F-layer reflection quality.
	FLayerBoost float64
	// MUFMultiplier scales the highest frequency the F layer can return.
	MUFMultiplier float64
	// AbsorptionFactor scales D-layer absorption.
	AbsorptionFactor float64
}

var activityProfiles = map[ActivityLevel]ActivityProfile{
	ActivityQuiet:  {FLayerBoost: 0.85, MUFMultiplier: 0.85, AbsorptionFactor: 0.9},
	ActivityNormal: {FLayerBoost: 1.0, MUFMultiplier: 1.0, AbsorptionFactor: 1.0},
	ActivityActive: {FLayerBoost: 1.15, MUFMultiplier: 1.15, AbsorptionFactor: 1.2},
	ActivityStorm:  {FLayerBoost: 0.7, MUFMultiplier: 0.75, AbsorptionFactor: 1.5},
}

// ActivityLevels lists the levels from calmest to most disturbed.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{ActivityQuiet, ActivityNormal, ActivityActive, ActivityStorm}
}

// Valid reports whether l is one of the enumerated levels.
func (l ActivityLevel) Valid() bool {
	_, ok := activityProfiles[l]
	return ok
}

// Profile returns the correction triple for l. Unknown levels resolve to the
// neutral normal profile.
func (l ActivityLevel) Profile() ActivityProfile {
	if p, ok := activityProfiles[l]; ok {
		return p
	}
	return activityProfiles[ActivityNormal]
}

// Index is the level's position in ActivityLevels, or -1. Used as a gauge value.
func (l ActivityLevel) Index() int {
	for i, lv := range ActivityLevels() {
		if lv == l {
			return i
		}
	}
	return -1
}

// ParseActivityLevel accepts level ids case-insensitively.
func ParseActivityLevel(s string) (ActivityLevel, bool) {
	l := ActivityLevel(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}
