package propagation

import (
	"sort"

	"github.com/signalsfoundry/hf-propagation-sim/catalog"
	"github.com/signalsfoundry/hf-propagation-sim/timectrl"
)

func (e *Evaluator) evaluate(req Request, st *Station) Result {
	if st == nil {
		return e.Evaluate(req)
	}
	return e.EvaluateStation(req, *st)
}

// SurveyBands evaluates req on every catalog band and returns the results
// strongest first; equal strengths keep frequency order. A nil station
// skips the equipment modifiers.
func (e *Evaluator) SurveyBands(req Request, st *Station) []Result {
	bands := catalog.Bands()
	out := make([]Result, 0, len(bands))
	for _, b := range bands {
		r := req
		r.BandID = b.ID
		out = append(out, e.evaluate(r, st))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SignalStrength > out[j].SignalStrength
	})
	return out
}

// Timeline evaluates req at the clock's current time and after each of the
// next steps ticks, advancing the clock as it goes.
func (e *Evaluator) Timeline(req Request, st *Station, clock timectrl.Stepper, steps int) []Result {
	if steps < 0 {
		steps = 0
	}
	out := make([]Result, 0, steps+1)
	r := req
	r.Time = clock.Now()
	out = append(out, e.evaluate(r, st))
	for i := 0; i < steps; i++ {
		r.Time = clock.Step()
		out = append(out, e.evaluate(r, st))
	}
	return out
}

// FirstOpening returns the index of the first successful result, or -1.
func FirstOpening(results []Result) int {
	for i, r := range results {
		if r.Success {
			return i
		}
	}
	return -1
}
