package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PropagationCollector exposes engine and space-weather metrics. It
// satisfies the session's metrics recorder.
type PropagationCollector struct {
	gatherer prometheus.Gatherer

	Evaluations        *prometheus.CounterVec
	SignalStrength     *prometheus.HistogramVec
	EvaluationDuration prometheus.Histogram
	EventActive        *prometheus.GaugeVec
	ActivityLevel      prometheus.Gauge
}

// NewPropagationCollector registers engine metrics against reg.
func NewPropagationCollector(reg prometheus.Registerer) (*PropagationCollector, error) {
	reg, gatherer := resolveRegistry(reg)

	evaluations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "propagation_evaluations_total",
		Help: "Propagation evaluations by band, path mode and outcome (open, closed, failed).",
	}, []string{"band", "path_mode", "outcome"}), "propagation_evaluations_total")
	if err != nil {
		return nil, err
	}

	strength, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "propagation_signal_strength",
		Help:    "Signal strength (0-100) of evaluated paths.",
		Buckets: prometheus.LinearBuckets(10, 10, 9),
	}, []string{"band"}), "propagation_signal_strength")
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "propagation_evaluation_duration_seconds",
		Help:    "Time spent evaluating one path.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	}), "propagation_evaluation_duration_seconds")
	if err != nil {
		return nil, err
	}

	events, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "space_weather_event_active",
		Help: "1 while a space-weather event (blackout, aurora, sporadic-e) is active.",
	}, []string{"event"}), "space_weather_event_active")
	if err != nil {
		return nil, err
	}

	activity, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "solar_activity_level",
		Help: "Solar activity level: 0 quiet, 1 normal, 2 active, 3 storm.",
	}), "solar_activity_level")
	if err != nil {
		return nil, err
	}

	return &PropagationCollector{
		gatherer:           gatherer,
		Evaluations:        evaluations,
		SignalStrength:     strength,
		EvaluationDuration: duration,
		EventActive:        events,
		ActivityLevel:      activity,
	}, nil
}

// Gatherer returns the registry the collector was registered with.
func (c *PropagationCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveEvaluation records one evaluation. outcome is "open", "closed" or
// "failed"; strength is skipped for failed requests.
func (c *PropagationCollector) ObserveEvaluation(band, pathMode, outcome string, strength float64, d time.Duration) {
	if c == nil {
		return
	}
	if c.Evaluations != nil {
		c.Evaluations.WithLabelValues(band, pathMode, outcome).Inc()
	}
	if c.SignalStrength != nil && outcome != "failed" {
		c.SignalStrength.WithLabelValues(band).Observe(strength)
	}
	if c.EvaluationDuration != nil {
		c.EvaluationDuration.Observe(d.Seconds())
	}
}

// SetConditions mirrors the space-weather state into gauges. Events not in
// active are reported as 0.
func (c *PropagationCollector) SetConditions(activityIndex int, events map[string]bool) {
	if c == nil {
		return
	}
	if c.ActivityLevel != nil {
		c.ActivityLevel.Set(float64(activityIndex))
	}
	if c.EventActive == nil {
		return
	}
	for event, on := range events {
		v := 0.0
		if on {
			v = 1
		}
		c.EventActive.WithLabelValues(event).Set(v)
	}
}
