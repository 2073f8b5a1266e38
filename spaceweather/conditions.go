package spaceweather

import (
	"sync"
	"time"
)

// Event names used for metrics labels and API payloads.
const (
	EventBlackout  = "blackout"
	EventAurora    = "aurora"
	EventSporadicE = "sporadic-e"
)

// Snapshot is an immutable view of SolarConditions taken at one instant.
// Evaluations read a Snapshot so that concurrent triggers never change the
// inputs of a running evaluation.
type Snapshot struct {
	Activity  ActivityLevel  `json:"activity_level"`
	Blackout  BlackoutState  `json:"blackout"`
	Aurora    AuroraState    `json:"aurora"`
	SporadicE SporadicEState `json:"sporadic_e"`
}

// DefaultSnapshot is normal activity with no events.
func DefaultSnapshot() Snapshot {
	return Snapshot{Activity: ActivityNormal}
}

// Profile returns the activity correction for the snapshot.
func (s Snapshot) Profile() ActivityProfile {
	return s.Activity.Profile()
}

// ActiveEvents lists the names of active events in a stable order.
func (s Snapshot) ActiveEvents() []string {
	var out []string
	if s.Blackout.Active {
		out = append(out, EventBlackout)
	}
	if s.Aurora.Active {
		out = append(out, EventAurora)
	}
	if s.SporadicE.Active {
		out = append(out, EventSporadicE)
	}
	return out
}

// SolarConditions is the session-scoped space-weather state. It is safe for
// concurrent use: mutations take the write lock, Snapshot the read lock.
//
// Invalid levels, severities and intensities are rejected by returning false
// and leaving the state untouched; nothing here panics.
type SolarConditions struct {
	mu sync.RWMutex

	activity  ActivityLevel
	blackout  BlackoutState
	aurora    AuroraState
	sporadicE SporadicEState

	now func() time.Time
}

// Option customises SolarConditions construction.
type Option func(*SolarConditions)

// WithClock sets the time source used to stamp blackout start times.
func WithClock(now func() time.Time) Option {
	return func(c *SolarConditions) {
		if now != nil {
			c.now = now
		}
	}
}

// WithActivityLevel sets the initial activity level. Invalid levels are
// ignored.
func WithActivityLevel(level ActivityLevel) Option {
	return func(c *SolarConditions) {
		if level.Valid() {
			c.activity = level
		}
	}
}

// NewSolarConditions returns normal activity with no events.
func NewSolarConditions(opts ...Option) *SolarConditions {
	c := &SolarConditions{
		activity: ActivityNormal,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *SolarConditions) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Activity:  c.activity,
		Blackout:  c.blackout,
		Aurora:    c.aurora,
		SporadicE: c.sporadicE,
	}
}

// ActivityLevel returns the current level.
func (c *SolarConditions) ActivityLevel() ActivityLevel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activity
}

// SetActivityLevel changes the background activity.
func (c *SolarConditions) SetActivityLevel(level ActivityLevel) bool {
	if !level.Valid() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activity = level
	return true
}

// TriggerMogelDellinger starts (or re-grades) a solar-flare blackout.
func (c *SolarConditions) TriggerMogelDellinger(sev Severity) bool {
	if _, ok := blackoutProfiles[sev]; !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blackout = BlackoutState{Active: true, Severity: sev, StartTime: c.now()}
	return true
}

// ClearMogelDellinger ends the blackout and resets its severity.
func (c *SolarConditions) ClearMogelDellinger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blackout = BlackoutState{}
}

// TriggerAurora starts (or re-grades) an aurora.
func (c *SolarConditions) TriggerAurora(sev Severity) bool {
	if _, ok := auroraProfiles[sev]; !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aurora = AuroraState{Active: true, Severity: sev}
	return true
}

// ClearAurora ends the aurora and resets its severity.
func (c *SolarConditions) ClearAurora() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aurora = AuroraState{}
}

// TriggerSporadicE starts (or re-grades) a sporadic-E opening.
func (c *SolarConditions) TriggerSporadicE(in Intensity) bool {
	if _, ok := sporadicEProfiles[in]; !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sporadicE = SporadicEState{Active: true, Intensity: in}
	return true
}

// ClearSporadicE ends the opening and resets its intensity.
func (c *SolarConditions) ClearSporadicE() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sporadicE = SporadicEState{}
}

// Reset restores normal activity and clears every event.
func (c *SolarConditions) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activity = ActivityNormal
	c.blackout = BlackoutState{}
	c.aurora = AuroraState{}
	c.sporadicE = SporadicEState{}
}
