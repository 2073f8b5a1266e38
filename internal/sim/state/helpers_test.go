package state

import (
	"testing"
	"time"

	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/internal/logging"
	"github.com/signalsfoundry/hf-propagation-sim/timectrl"
)

var (
	vienna = geo.Location{Latitude: 48.21, Longitude: 16.37, Name: "Vienna", Code: "VIE"}
	berlin = geo.Location{Latitude: 52.52, Longitude: 13.41, Name: "Berlin", Code: "BER"}
	rome   = geo.Location{Latitude: 41.9, Longitude: 12.5, Name: "Rome", Code: "ROM"}

	winterMidnight = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	summerMorning  = time.Date(2024, time.June, 21, 11, 0, 0, 0, time.UTC)
)

func newTestState(t *testing.T, start time.Time, opts ...Option) (*SimulationState, *timectrl.TimeController) {
	t.Helper()
	clock := timectrl.NewTimeController(start, time.Hour, timectrl.Accelerated)
	opts = append([]Option{WithClock(clock)}, opts...)
	return NewSimulationState(logging.Noop(), opts...), clock
}
