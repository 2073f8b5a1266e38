// Package state holds the per-session simulation context: space-weather
// conditions, the operator's station, the simulation clock and the
// evaluator, plus the logging, metrics and tracing hooks around them.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/hf-propagation-sim/catalog"
	"github.com/signalsfoundry/hf-propagation-sim/geo"
	"github.com/signalsfoundry/hf-propagation-sim/internal/logging"
	"github.com/signalsfoundry/hf-propagation-sim/internal/observability"
	"github.com/signalsfoundry/hf-propagation-sim/propagation"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
	"github.com/signalsfoundry/hf-propagation-sim/timectrl"
)

var (
	// ErrUnknownBand indicates a band id missing from the catalog.
	ErrUnknownBand = catalog.ErrUnknownBand
	// ErrInvalidLocation indicates out-of-range coordinates.
	ErrInvalidLocation = geo.ErrInvalidCoordinate
	// ErrInvalidPathMode indicates a path mode other than short or long.
	ErrInvalidPathMode = errors.New("invalid path mode")
	// ErrInvalidActivityLevel indicates an unknown solar activity level.
	ErrInvalidActivityLevel = errors.New("invalid activity level")
	// ErrInvalidSeverity indicates an unknown blackout or aurora severity.
	ErrInvalidSeverity = errors.New("invalid severity")
	// ErrInvalidIntensity indicates an unknown sporadic-E intensity.
	ErrInvalidIntensity = errors.New("invalid sporadic-e intensity")
	// ErrUnknownEvent indicates an unknown space-weather event name.
	ErrUnknownEvent = errors.New("unknown space-weather event")
	// ErrUnknownAntenna indicates an antenna id missing from the catalog.
	ErrUnknownAntenna = errors.New("unknown antenna")
	// ErrUnknownPower indicates a power id missing from the catalog.
	ErrUnknownPower = errors.New("unknown power level")
	// ErrInvalidSteps indicates a negative timeline length.
	ErrInvalidSteps = errors.New("invalid step count")
)

// MaxTimelineSteps bounds a single Timeline call.
const MaxTimelineSteps = 24 * 7

// MetricsRecorder receives evaluation outcomes and condition changes.
type MetricsRecorder interface {
	ObserveEvaluation(band, pathMode, outcome string, strength float64, d time.Duration)
	SetConditions(activityIndex int, events map[string]bool)
}

// Query is a path evaluation request against the session. A zero Time
// means the session clock's current time.
type Query struct {
	Source   geo.Location
	Target   geo.Location
	BandID   string
	PathMode propagation.PathMode
	Time     time.Time
}

// SimulationState is the session-owned context. Its methods are safe for
// concurrent use; every evaluation works from one conditions snapshot.
type SimulationState struct {
	// mu guards station; the conditions and clock carry their own locks.
	mu      sync.RWMutex
	station propagation.Station

	conditions *spaceweather.SolarConditions
	clock      timectrl.Stepper
	evaluator  *propagation.Evaluator
	contacts   *ContactLog

	log     logging.Logger
	metrics MetricsRecorder
	tracer  trace.Tracer

	initialActivity spaceweather.ActivityLevel
}

// Option customises SimulationState construction.
type Option func(*SimulationState)

// WithClock replaces the default hourly accelerated clock.
func WithClock(c timectrl.Stepper) Option {
	return func(s *SimulationState) {
		s.clock = c
	}
}

// WithStation sets the initial station. Unknown ids fall back to the
// catalog defaults.
func WithStation(st propagation.Station) Option {
	return func(s *SimulationState) {
		s.station = normalizeStation(st)
	}
}

// WithActivityLevel sets the initial solar activity.
func WithActivityLevel(level spaceweather.ActivityLevel) Option {
	return func(s *SimulationState) {
		s.initialActivity = level
	}
}

// WithMetricsRecorder attaches a metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *SimulationState) {
		s.metrics = m
	}
}

// WithContactLogSize bounds how many paths the contact log remembers.
func WithContactLogSize(n int) Option {
	return func(s *SimulationState) {
		s.contacts = NewContactLog(n)
	}
}

// WithEvaluator replaces the default evaluator.
func WithEvaluator(e *propagation.Evaluator) Option {
	return func(s *SimulationState) {
		if e != nil {
			s.evaluator = e
		}
	}
}

// NewSimulationState builds a session with normal activity, no events and
// a 100 W dipole.
func NewSimulationState(log logging.Logger, opts ...Option) *SimulationState {
	if log == nil {
		log = logging.Noop()
	}
	s := &SimulationState{
		station:         propagation.DefaultStation(),
		evaluator:       propagation.NewEvaluator(),
		contacts:        NewContactLog(DefaultContactLogSize),
		log:             log,
		tracer:          observability.Tracer(),
		initialActivity: spaceweather.ActivityNormal,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.clock == nil {
		start := time.Now().UTC().Truncate(time.Hour)
		s.clock = timectrl.NewTimeController(start, time.Hour, timectrl.Accelerated)
	}
	s.conditions = spaceweather.NewSolarConditions(
		spaceweather.WithClock(s.clock.Now),
		spaceweather.WithActivityLevel(s.initialActivity),
	)
	s.publishConditions()
	return s
}

func normalizeStation(st propagation.Station) propagation.Station {
	ant, _ := catalog.LookupAntenna(st.AntennaID)
	pwr, _ := catalog.LookupPower(st.PowerID)
	return propagation.Station{
		AntennaID:  ant.ID,
		HeadingDeg: geo.NormalizeBearing(st.HeadingDeg),
		PowerID:    pwr.ID,
	}
}

// Now returns the session's simulation time.
func (s *SimulationState) Now() time.Time {
	return s.clock.Now()
}

// Advance steps the session clock by one tick.
func (s *SimulationState) Advance(ctx context.Context) time.Time {
	now := s.clock.Step()
	s.log.Debug(ctx, "clock advanced", logging.Time("sim_time", now))
	return now
}

// Conditions returns the current space-weather snapshot.
func (s *SimulationState) Conditions() spaceweather.Snapshot {
	return s.conditions.Snapshot()
}

// Station returns the current station setup.
func (s *SimulationState) Station() propagation.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.station
}

// SetStation replaces the station. Unlike WithStation, unknown ids are
// rejected.
func (s *SimulationState) SetStation(ctx context.Context, st propagation.Station) error {
	if _, ok := catalog.LookupAntenna(st.AntennaID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAntenna, st.AntennaID)
	}
	if _, ok := catalog.LookupPower(st.PowerID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPower, st.PowerID)
	}
	st = normalizeStation(st)

	s.mu.Lock()
	s.station = st
	s.mu.Unlock()

	s.log.Info(ctx, "station updated",
		logging.String("antenna", st.AntennaID),
		logging.Float64("heading_deg", st.HeadingDeg),
		logging.String("power", st.PowerID),
	)
	return nil
}

// Contacts returns the contact log.
func (s *SimulationState) Contacts() *ContactLog {
	return s.contacts
}

func (s *SimulationState) publishConditions() {
	if s.metrics == nil {
		return
	}
	snap := s.conditions.Snapshot()
	s.metrics.SetConditions(snap.Activity.Index(), map[string]bool{
		spaceweather.EventBlackout:  snap.Blackout.Active,
		spaceweather.EventAurora:    snap.Aurora.Active,
		spaceweather.EventSporadicE: snap.SporadicE.Active,
	})
}

func (s *SimulationState) validate(q Query) (propagation.PathMode, error) {
	if _, ok := catalog.LookupBand(q.BandID); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBand, q.BandID)
	}
	return s.validatePath(q)
}

func (s *SimulationState) validatePath(q Query) (propagation.PathMode, error) {
	if err := q.Source.Validate(); err != nil {
		return "", fmt.Errorf("source: %w", err)
	}
	if err := q.Target.Validate(); err != nil {
		return "", fmt.Errorf("target: %w", err)
	}
	mode, ok := propagation.ParsePathMode(string(q.PathMode))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPathMode, q.PathMode)
	}
	return mode, nil
}

func (s *SimulationState) request(q Query, mode propagation.PathMode) propagation.Request {
	at := q.Time
	if at.IsZero() {
		at = s.clock.Now()
	}
	return propagation.Request{
		Source:     q.Source,
		Target:     q.Target,
		BandID:     q.BandID,
		Time:       at.UTC(),
		PathMode:   mode,
		Conditions: s.conditions.Snapshot(),
	}
}

func outcome(res propagation.Result) string {
	switch {
	case res.Failure != propagation.FailureNone:
		return "failed"
	case res.Success:
		return "open"
	default:
		return "closed"
	}
}

// record publishes a finished evaluation to metrics, the contact log and
// the debug log.
func (s *SimulationState) record(ctx context.Context, res propagation.Result, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveEvaluation(res.Request.BandID, string(res.PathMode), outcome(res), res.SignalStrength, elapsed)
	}
	s.contacts.Record(res)
	s.log.Debug(ctx, "path evaluated",
		logging.String("band", res.Request.BandID),
		logging.String("path_mode", string(res.PathMode)),
		logging.Time("sim_time", res.Request.Time),
		logging.Float64("distance_km", res.DistanceKm),
		logging.Float64("signal_strength", res.SignalStrength),
		logging.Bool("success", res.Success),
	)
}

func (s *SimulationState) startSpan(ctx context.Context, name string, req propagation.Request, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("hfprop.band", req.BandID),
		attribute.String("hfprop.path_mode", string(req.PathMode)),
		attribute.String("hfprop.sim_time", req.Time.Format(time.RFC3339)),
	)
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Evaluate scores one path with the session's station and conditions.
func (s *SimulationState) Evaluate(ctx context.Context, q Query) (propagation.Result, error) {
	mode, err := s.validate(q)
	if err != nil {
		return propagation.Result{}, err
	}
	req := s.request(q, mode)
	ctx, span := s.startSpan(ctx, "propagation.evaluate", req)
	defer span.End()

	start := time.Now()
	res := s.evaluator.EvaluateStation(req, s.Station())
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.Bool("hfprop.success", res.Success),
		attribute.Float64("hfprop.signal_strength", res.SignalStrength),
		attribute.Float64("hfprop.distance_km", res.DistanceKm),
	)
	if res.Failure != propagation.FailureNone {
		span.SetStatus(codes.Error, string(res.Failure))
	}
	s.record(ctx, res, elapsed)
	return res, nil
}

// SurveyBands evaluates the path on every band, strongest first. Query.BandID
// is ignored.
func (s *SimulationState) SurveyBands(ctx context.Context, q Query) ([]propagation.Result, error) {
	mode, err := s.validatePath(q)
	if err != nil {
		return nil, err
	}
	req := s.request(q, mode)
	ctx, span := s.startSpan(ctx, "propagation.survey", req)
	defer span.End()

	st := s.Station()
	start := time.Now()
	results := s.evaluator.SurveyBands(req, &st)
	per := perResult(time.Since(start), len(results))

	open := 0
	for _, r := range results {
		if r.Success {
			open++
		}
		s.record(ctx, r, per)
	}
	span.SetAttributes(attribute.Int("hfprop.open_bands", open))
	return results, nil
}

// Timeline evaluates the path at Query.Time (or now) and after each of steps
// ticks of length step, on a private clock: the session clock does not move.
// Every step uses the current conditions snapshot. Forecast results are not
// counted as contacts in the log or the evaluation metrics.
func (s *SimulationState) Timeline(ctx context.Context, q Query, step time.Duration, steps int) ([]propagation.Result, error) {
	mode, err := s.validate(q)
	if err != nil {
		return nil, err
	}
	if steps < 0 || steps > MaxTimelineSteps {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidSteps, steps, MaxTimelineSteps)
	}
	if step <= 0 {
		step = time.Hour
	}
	req := s.request(q, mode)
	ctx, span := s.startSpan(ctx, "propagation.timeline", req, attribute.Int("hfprop.steps", steps))
	defer span.End()

	st := s.Station()
	clock := timectrl.NewTimeController(req.Time, step, timectrl.Accelerated)
	results := s.evaluator.Timeline(req, &st, clock, steps)

	first := propagation.FirstOpening(results)
	span.SetAttributes(attribute.Int("hfprop.first_opening", first))
	s.log.Debug(ctx, "timeline forecast",
		logging.String("band", req.BandID),
		logging.Time("from", req.Time),
		logging.Int("steps", steps),
		logging.Int("first_opening", first),
	)
	return results, nil
}

func perResult(total time.Duration, n int) time.Duration {
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}
