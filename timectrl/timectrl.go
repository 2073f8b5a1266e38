package timectrl

import (
	"context"
	"slices"
	"sync"
	"time"
)

// SimClock is the read side of simulation time. Propagation timelines and
// the session depend on it rather than on a concrete controller.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
	// After returns a channel that receives the simulation time once the
	// clock has advanced by at least d.
	After(d time.Duration) <-chan time.Time
}

// Stepper is a SimClock that can be advanced one tick at a time.
type Stepper interface {
	SimClock
	Step() time.Time
}

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime advances one Tick per wall-clock Tick.
	RealTime Mode = iota
	// Accelerated advances as fast as the loop runs, still in Tick steps.
	Accelerated
)

func (m Mode) String() string {
	switch m {
	case RealTime:
		return "realtime"
	case Accelerated:
		return "accelerated"
	default:
		return "unknown"
	}
}

// ParseMode maps "realtime"/"accelerated" to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "realtime", "real-time":
		return RealTime, true
	case "accelerated":
		return Accelerated, true
	default:
		return 0, false
	}
}

type timer struct {
	deadline time.Time
	ch       chan time.Time
}

// TimeController drives simulation time, notifies listeners on every change
// and fires pending After timers once their deadline passes.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time
	listeners   []func(time.Time)
	timers      []timer
}

// NewTimeController constructs a controller positioned at start.
func NewTimeController(start time.Time, tick time.Duration, mode Mode) *TimeController {
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// After implements SimClock. A non-positive d fires immediately.
func (tc *TimeController) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)

	tc.mu.Lock()
	defer tc.mu.Unlock()
	if d <= 0 {
		ch <- tc.currentTime
		return ch
	}
	tc.timers = append(tc.timers, timer{deadline: tc.currentTime.Add(d), ch: ch})
	return ch
}

// AddListener registers a callback invoked after every time change.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.listeners = append(tc.listeners, fn)
}

// Step advances the clock by one Tick and returns the new time.
func (tc *TimeController) Step() time.Time {
	tc.mu.Lock()
	next := tc.currentTime.Add(tc.Tick)
	due, listeners := tc.advanceLocked(next)
	tc.mu.Unlock()

	notify(next, due, listeners)
	return next
}

// SetTime jumps the clock to t. Listeners run outside the lock so they may
// read the clock.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	due, listeners := tc.advanceLocked(t)
	tc.mu.Unlock()

	notify(t, due, listeners)
}

// advanceLocked moves the clock to t and collects the timers that are now
// due. tc.mu must be held for writing.
func (tc *TimeController) advanceLocked(t time.Time) ([]timer, []func(time.Time)) {
	tc.currentTime = t

	var due []timer
	pending := tc.timers[:0]
	for _, tm := range tc.timers {
		if !tm.deadline.After(t) {
			due = append(due, tm)
			continue
		}
		pending = append(pending, tm)
	}
	tc.timers = pending
	return due, slices.Clone(tc.listeners)
}

func notify(t time.Time, due []timer, listeners []func(time.Time)) {
	for _, tm := range due {
		tm.ch <- t
	}
	for _, fn := range listeners {
		fn(t)
	}
}

// Reset returns the clock to StartTime and drops pending timers.
func (tc *TimeController) Reset() {
	tc.mu.Lock()
	tc.timers = nil
	tc.mu.Unlock()
	tc.SetTime(tc.StartTime)
}

// Start runs the controller for the specified simulated duration in a
// separate goroutine, beginning at StartTime. The returned channel is closed
// when the run finishes or ctx is cancelled. A non-positive duration runs
// until ctx is done.
func (tc *TimeController) Start(ctx context.Context, duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		tc.SetTime(tc.StartTime)

		var tick <-chan time.Time
		if tc.Mode == RealTime {
			ticker := time.NewTicker(tc.Tick)
			defer ticker.Stop()
			tick = ticker.C
		}

		for elapsed := time.Duration(0); duration <= 0 || elapsed < duration; elapsed += tc.Tick {
			if tick != nil {
				select {
				case <-ctx.Done():
					return
				case <-tick:
				}
			} else if ctx.Err() != nil {
				return
			}
			tc.Step()
		}
	}()
	return done
}
