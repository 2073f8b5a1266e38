// Command simulator runs a YAML scenario against one simulation session:
// at every clock step it applies the step's space-weather events, evaluates
// each contact and prints the results.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/signalsfoundry/hf-propagation-sim/internal/config"
	"github.com/signalsfoundry/hf-propagation-sim/internal/logging"
	"github.com/signalsfoundry/hf-propagation-sim/internal/sim/state"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
	"github.com/signalsfoundry/hf-propagation-sim/timectrl"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a YAML scenario file")
	format := flag.String("format", "text", "output format: text or json")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	ctx := context.Background()
	log := logging.New(logging.Config{Level: *logLevel, Format: "text"})

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: simulator -scenario FILE [-format text|json]")
		os.Exit(2)
	}
	sc, err := config.LoadScenario(*scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("path", *scenarioPath), logging.Err(err))
		os.Exit(1)
	}

	out, err := newReporter(os.Stdout, *format)
	if err != nil {
		log.Error(ctx, "bad output format", logging.Err(err))
		os.Exit(2)
	}
	if err := run(ctx, sc, out, log); err != nil {
		log.Error(ctx, "scenario failed", logging.Err(err))
		os.Exit(1)
	}
}

// run plays sc to completion.
func run(ctx context.Context, sc *config.Scenario, out reporter, log logging.Logger) error {
	_, err := play(ctx, sc, out, log)
	return err
}

// play drives a fresh session through every step of sc and returns it.
func play(ctx context.Context, sc *config.Scenario, out reporter, log logging.Logger) (*state.SimulationState, error) {
	activity, _ := spaceweather.ParseActivityLevel(sc.Activity)
	clock := timectrl.NewTimeController(sc.Start, sc.Step, timectrl.Accelerated)
	session := state.NewSimulationState(log,
		state.WithClock(clock),
		state.WithActivityLevel(activity),
		state.WithStation(sc.Station),
	)

	out.header(sc, session.Station())
	for step := 0; step <= sc.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return session, err
		}
		if step > 0 {
			session.Advance(ctx)
		}
		for _, ev := range sc.EventsAt(step) {
			if err := session.ApplyEvent(ctx, ev.Kind, ev.Level); err != nil {
				return session, fmt.Errorf("step %d: %w", step, err)
			}
			out.event(step, session.Now(), ev)
		}
		for i, c := range sc.Contacts {
			q := state.Query{
				Source:   c.Source,
				Target:   c.Target,
				BandID:   c.Band,
				PathMode: propagation.PathMode(c.Path),
			}
			var results []propagation.Result
			if c.Band == "" {
				rs, err := session.SurveyBands(ctx, q)
				if err != nil {
					return session, fmt.Errorf("step %d contact %d: %w", step, i, err)
				}
				results = rs
			} else {
				res, err := session.Evaluate(ctx, q)
				if err != nil {
					return session, fmt.Errorf("step %d contact %d: %w", step, i, err)
				}
				results = []propagation.Result{res}
			}
			for _, res := range results {
				out.result(step, res)
			}
		}
	}
	out.footer(session.Contacts().List())
	return session, out.err()
}

// reporter renders simulation progress.
type reporter interface {
	header(sc *config.Scenario, st propagation.Station)
	event(step int, at time.Time, ev config.Event)
	result(step int, res propagation.Result)
	footer(records []state.ContactRecord)
	err() error
}

func newReporter(w io.Writer, format string) (reporter, error) {
	switch format {
	case "text", "":
		return &textReporter{w: w}, nil
	case "json":
		return &jsonReporter{enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

type textReporter struct {
	w       io.Writer
	lastErr error
}

func (r *textReporter) printf(format string, args ...any) {
	if r.lastErr != nil {
		return
	}
	_, r.lastErr = fmt.Fprintf(r.w, format, args...)
}

func (r *textReporter) header(sc *config.Scenario, st propagation.Station) {
	r.printf("Scenario %q: %d steps of %s from %s, activity %s\n",
		sc.Name, sc.Steps, sc.Step, sc.Start.Format(time.RFC3339), sc.Activity)
	r.printf("Station: %s, heading %.0f°, power %s\n", st.AntennaID, st.HeadingDeg, st.PowerID)
}

func (r *textReporter) event(step int, at time.Time, ev config.Event) {
	if ev.Level != "" {
		r.printf("[%s] step %d: %s %s\n", at.Format(time.RFC3339), step, ev.Kind, ev.Level)
		return
	}
	r.printf("[%s] step %d: %s\n", at.Format(time.RFC3339), step, ev.Kind)
}

func (r *textReporter) result(step int, res propagation.Result) {
	verdict := "closed"
	if res.Success {
		verdict = "OPEN"
	}
	r.printf("[%s] %-4s %-5s %5.1f %-6s %s\n",
		res.Request.Time.Format(time.RFC3339), res.Request.BandID, res.PathMode,
		res.SignalStrength, verdict, res.Summary)
}

func (r *textReporter) footer(records []state.ContactRecord) {
	r.printf("Contact log:\n")
	for _, rec := range records {
		r.printf("  %-40s open %d/%d, last %.1f\n", rec.Key, rec.Openings, rec.Evaluations, rec.LastStrength)
	}
}

func (r *textReporter) err() error { return r.lastErr }

// jsonReporter writes one JSON object per line.
type jsonReporter struct {
	enc     *json.Encoder
	lastErr error
}

type jsonLine struct {
	Type           string                `json:"type"`
	Step           int                   `json:"step"`
	Time           time.Time             `json:"time,omitempty"`
	Scenario       string                `json:"scenario,omitempty"`
	Station        *propagation.Station  `json:"station,omitempty"`
	Event          string                `json:"event,omitempty"`
	Level          string                `json:"level,omitempty"`
	Band           string                `json:"band,omitempty"`
	PathMode       string                `json:"path_mode,omitempty"`
	Success        *bool                 `json:"success,omitempty"`
	SignalStrength *float64              `json:"signal_strength,omitempty"`
	Summary        string                `json:"summary,omitempty"`
	Contacts       []state.ContactRecord `json:"contacts,omitempty"`
}

func (r *jsonReporter) write(line jsonLine) {
	if r.lastErr != nil {
		return
	}
	r.lastErr = r.enc.Encode(line)
}

func (r *jsonReporter) header(sc *config.Scenario, st propagation.Station) {
	r.write(jsonLine{Type: "scenario", Time: sc.Start, Scenario: sc.Name, Station: &st})
}

func (r *jsonReporter) event(step int, at time.Time, ev config.Event) {
	r.write(jsonLine{Type: "event", Step: step, Time: at, Event: ev.Kind, Level: ev.Level})
}

func (r *jsonReporter) result(step int, res propagation.Result) {
	success, strength := res.Success, res.SignalStrength
	r.write(jsonLine{
		Type:           "result",
		Step:           step,
		Time:           res.Request.Time,
		Band:           res.Request.BandID,
		PathMode:       string(res.PathMode),
		Success:        &success,
		SignalStrength: &strength,
		Summary:        res.Summary,
	})
}

func (r *jsonReporter) footer(records []state.ContactRecord) {
	r.write(jsonLine{Type: "contacts", Contacts: records})
}

func (r *jsonReporter) err() error { return r.lastErr }
