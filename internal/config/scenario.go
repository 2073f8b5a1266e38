package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/hf-propagation-sim/catalog"
	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/internal/sim/state"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
)

// ErrInvalidScenario is wrapped by scenario parse and validation failures.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a scripted simulation: a set of contacts evaluated at every
// clock step while space-weather events are applied on their step.
type Scenario struct {
	Name     string                  `yaml:"name"`
	Start    time.Time               `yaml:"start"`
	Step     time.Duration           `yaml:"step"`
	Steps    int                     `yaml:"steps"`
	Activity string                  `yaml:"activity"`
	Station  propagation.Station     `yaml:"station"`
	Places   map[string]geo.Location `yaml:"places"`
	Contacts []Contact               `yaml:"contacts"`
	Events   []Event                 `yaml:"events"`
}

// Contact is one path to evaluate. From/To name an entry of Places; Source
// and Target give coordinates inline instead. An empty Band surveys every
// band.
type Contact struct {
	From   string       `yaml:"from"`
	To     string       `yaml:"to"`
	Source geo.Location `yaml:"source"`
	Target geo.Location `yaml:"target"`
	Band   string       `yaml:"band"`
	Path   string       `yaml:"path"`
}

// Event changes space weather before the contacts of its step are evaluated.
// Kind is one of the state.Event* names.
type Event struct {
	Step  int    `yaml:"step"`
	Kind  string `yaml:"event"`
	Level string `yaml:"level"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(bytes.NewReader(data))
}

// ParseScenario decodes YAML from r, resolves place names and validates the
// result. Unknown keys are rejected.
func ParseScenario(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	sc.applyDefaults()
	if err := sc.resolve(); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) applyDefaults() {
	if sc.Step <= 0 {
		sc.Step = time.Hour
	}
	if sc.Activity == "" {
		sc.Activity = string(spaceweather.ActivityNormal)
	}
	if sc.Station.AntennaID == "" {
		sc.Station.AntennaID = catalog.DefaultAntennaID
	}
	if sc.Station.PowerID == "" {
		sc.Station.PowerID = catalog.DefaultPowerID
	}
	if sc.Start.IsZero() {
		sc.Start = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	}
}

func (sc *Scenario) resolve() error {
	for name, loc := range sc.Places {
		if loc.Name == "" {
			loc.Name = name
			sc.Places[name] = loc
		}
	}
	for i := range sc.Contacts {
		c := &sc.Contacts[i]
		if c.From != "" {
			loc, ok := sc.Places[c.From]
			if !ok {
				return fmt.Errorf("%w: contact %d: unknown place %q", ErrInvalidScenario, i, c.From)
			}
			c.Source = loc
		}
		if c.To != "" {
			loc, ok := sc.Places[c.To]
			if !ok {
				return fmt.Errorf("%w: contact %d: unknown place %q", ErrInvalidScenario, i, c.To)
			}
			c.Target = loc
		}
	}
	return nil
}

// Validate checks every contact and event.
func (sc *Scenario) Validate() error {
	if sc.Steps < 0 {
		return fmt.Errorf("%w: steps %d is negative", ErrInvalidScenario, sc.Steps)
	}
	if _, ok := spaceweather.ParseActivityLevel(sc.Activity); !ok {
		return fmt.Errorf("%w: activity %q", ErrInvalidScenario, sc.Activity)
	}
	if len(sc.Contacts) == 0 {
		return fmt.Errorf("%w: no contacts", ErrInvalidScenario)
	}
	for i, c := range sc.Contacts {
		if c.From == "" && c.Source == (geo.Location{}) {
			return fmt.Errorf("%w: contact %d: missing source", ErrInvalidScenario, i)
		}
		if c.To == "" && c.Target == (geo.Location{}) {
			return fmt.Errorf("%w: contact %d: missing target", ErrInvalidScenario, i)
		}
		if err := c.Source.Validate(); err != nil {
			return fmt.Errorf("%w: contact %d source: %v", ErrInvalidScenario, i, err)
		}
		if err := c.Target.Validate(); err != nil {
			return fmt.Errorf("%w: contact %d target: %v", ErrInvalidScenario, i, err)
		}
		if c.Band != "" {
			if _, ok := catalog.LookupBand(c.Band); !ok {
				return fmt.Errorf("%w: contact %d: %w %q", ErrInvalidScenario, i, catalog.ErrUnknownBand, c.Band)
			}
		}
		if _, ok := propagation.ParsePathMode(c.Path); !ok {
			return fmt.Errorf("%w: contact %d: path mode %q", ErrInvalidScenario, i, c.Path)
		}
	}
	for i, ev := range sc.Events {
		if ev.Step < 0 || ev.Step > sc.Steps {
			return fmt.Errorf("%w: event %d: step %d outside [0, %d]", ErrInvalidScenario, i, ev.Step, sc.Steps)
		}
		if err := state.ValidateEvent(ev.Kind, ev.Level); err != nil {
			return fmt.Errorf("%w: event %d: %v", ErrInvalidScenario, i, err)
		}
	}
	return nil
}

// EventsAt returns the events scheduled for step in file order.
func (sc *Scenario) EventsAt(step int) []Event {
	var out []Event
	for _, ev := range sc.Events {
		if ev.Step == step {
			out = append(out, ev)
		}
	}
	return out
}
