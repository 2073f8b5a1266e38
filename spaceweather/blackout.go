package spaceweather

import (
	"strings"
	"time"

	"github.com/signalsfoundry/hf-propagation-sim/internal/numeric"
)

// Severity grades blackout and aurora events.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// ParseSeverity accepts severity ids case-insensitively.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	switch sev {
	case SeverityMinor, SeverityModerate, SeveritySevere:
		return sev, true
	}
	return "", false
}

// minBlackoutDayFraction is the sunlit share of the path below which a flare
// has no noticeable effect.
const minBlackoutDayFraction = 0.1

// BlackoutProfile describes a flare severity: how much extra D-layer
// absorption it causes and which bands notice.
type BlackoutProfile struct {
	AbsorptionMultiplier float64
	AffectedBands        []string
}

var blackoutProfiles = map[Severity]BlackoutProfile{
	SeverityMinor: {
		AbsorptionMultiplier: 3,
		AffectedBands:        []string{"160m", "80m", "60m", "40m"},
	},
	SeverityModerate: {
		AbsorptionMultiplier: 5,
		AffectedBands:        []string{"160m", "80m", "60m", "40m", "30m", "20m"},
	},
	SeveritySevere: {
		AbsorptionMultiplier: 10,
		AffectedBands:        []string{"160m", "80m", "60m", "40m", "30m", "20m", "17m", "15m", "12m", "10m"},
	},
}

// BlackoutProfileFor returns the profile for sev.
func BlackoutProfileFor(sev Severity) (BlackoutProfile, bool) {
	p, ok := blackoutProfiles[sev]
	return p, ok
}

// BlackoutState is the Mögel-Dellinger event state. Severity is empty
// whenever Active is false.
type BlackoutState struct {
	Active    bool      `json:"active"`
	Severity  Severity  `json:"severity,omitempty"`
	StartTime time.Time `json:"start_time,omitempty"`
}

// BlackoutImpact is the path-dependent effect of an active blackout.
type BlackoutImpact struct {
	Affected             bool
	AbsorptionMultiplier float64
}

// AffectsBand reports whether the active severity lists bandID.
func (s BlackoutState) AffectsBand(bandID string) bool {
	if !s.Active {
		return false
	}
	p, ok := blackoutProfiles[s.Severity]
	if !ok {
		return false
	}
	for _, b := range p.AffectedBands {
		if b == bandID {
			return true
		}
	}
	return false
}

// Effect scales the severity's absorption multiplier by the sunlit fraction
// of the path: a flare only ionizes the day side.
func (s BlackoutState) Effect(pathDayFraction float64) BlackoutImpact {
	none := BlackoutImpact{AbsorptionMultiplier: 1}
	if !s.Active {
		return none
	}
	p, ok := blackoutProfiles[s.Severity]
	if !ok {
		return none
	}
	frac := numeric.Clamp01(pathDayFraction)
	if frac <= minBlackoutDayFraction {
		return none
	}
	return BlackoutImpact{
		Affected:             true,
		AbsorptionMultiplier: 1 + (p.AbsorptionMultiplier-1)*frac,
	}
}
