package state

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/hf-propagation-sim/internal/logging"
	"github.com/signalsfoundry/hf-propagation-sim/spaceweather"
)

// Space-weather event names accepted by ApplyEvent. The trigger names match
// spaceweather's event names.
const (
	EventActivity       = "activity"
	EventBlackout       = spaceweather.EventBlackout
	EventAurora         = spaceweather.EventAurora
	EventSporadicE      = spaceweather.EventSporadicE
	EventClearBlackout  = "clear-blackout"
	EventClearAurora    = "clear-aurora"
	EventClearSporadicE = "clear-sporadic-e"
	EventReset          = "reset"
)

// ValidateEvent checks an event name and its level without applying it.
func ValidateEvent(event, level string) error {
	switch event {
	case EventActivity:
		if _, ok := spaceweather.ParseActivityLevel(level); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidActivityLevel, level)
		}
	case EventBlackout, EventAurora:
		if _, ok := spaceweather.ParseSeverity(level); !ok {
			return fmt.Errorf("%w: %s %q", ErrInvalidSeverity, event, level)
		}
	case EventSporadicE:
		if _, ok := spaceweather.ParseIntensity(level); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidIntensity, level)
		}
	case EventClearBlackout, EventClearAurora, EventClearSporadicE, EventReset:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	return nil
}

// ApplyEvent validates and applies one named event. Invalid input leaves
// the conditions unchanged.
func (s *SimulationState) ApplyEvent(ctx context.Context, event, level string) error {
	if err := ValidateEvent(event, level); err != nil {
		return err
	}
	switch event {
	case EventActivity:
		return s.SetActivityLevel(ctx, level)
	case EventBlackout:
		return s.TriggerBlackout(ctx, level)
	case EventAurora:
		return s.TriggerAurora(ctx, level)
	case EventSporadicE:
		return s.TriggerSporadicE(ctx, level)
	case EventClearBlackout:
		s.ClearBlackout(ctx)
	case EventClearAurora:
		s.ClearAurora(ctx)
	case EventClearSporadicE:
		s.ClearSporadicE(ctx)
	case EventReset:
		s.ResetConditions(ctx)
	}
	return nil
}

// SetActivityLevel changes the solar activity level.
func (s *SimulationState) SetActivityLevel(ctx context.Context, level string) error {
	l, ok := spaceweather.ParseActivityLevel(level)
	if !ok || !s.conditions.SetActivityLevel(l) {
		return fmt.Errorf("%w: %q", ErrInvalidActivityLevel, level)
	}
	s.changed(ctx, "activity level set", logging.String("activity", string(l)))
	return nil
}

// TriggerBlackout starts a Mögel-Dellinger blackout stamped with the
// session clock.
func (s *SimulationState) TriggerBlackout(ctx context.Context, severity string) error {
	sev, ok := spaceweather.ParseSeverity(severity)
	if !ok || !s.conditions.TriggerMogelDellinger(sev) {
		return fmt.Errorf("%w: blackout %q", ErrInvalidSeverity, severity)
	}
	s.changed(ctx, "blackout triggered", logging.String("severity", string(sev)))
	return nil
}

// ClearBlackout ends any blackout.
func (s *SimulationState) ClearBlackout(ctx context.Context) {
	s.conditions.ClearMogelDellinger()
	s.changed(ctx, "blackout cleared")
}

// TriggerAurora starts an aurora.
func (s *SimulationState) TriggerAurora(ctx context.Context, severity string) error {
	sev, ok := spaceweather.ParseSeverity(severity)
	if !ok || !s.conditions.TriggerAurora(sev) {
		return fmt.Errorf("%w: aurora %q", ErrInvalidSeverity, severity)
	}
	s.changed(ctx, "aurora triggered", logging.String("severity", string(sev)))
	return nil
}

// ClearAurora ends any aurora.
func (s *SimulationState) ClearAurora(ctx context.Context) {
	s.conditions.ClearAurora()
	s.changed(ctx, "aurora cleared")
}

// TriggerSporadicE opens a sporadic-E cloud.
func (s *SimulationState) TriggerSporadicE(ctx context.Context, intensity string) error {
	in, ok := spaceweather.ParseIntensity(intensity)
	if !ok || !s.conditions.TriggerSporadicE(in) {
		return fmt.Errorf("%w: %q", ErrInvalidIntensity, intensity)
	}
	s.changed(ctx, "sporadic-e triggered", logging.String("intensity", string(in)))
	return nil
}

// ClearSporadicE closes any sporadic-E cloud.
func (s *SimulationState) ClearSporadicE(ctx context.Context) {
	s.conditions.ClearSporadicE()
	s.changed(ctx, "sporadic-e cleared")
}

// ResetConditions returns to normal activity with no events.
func (s *SimulationState) ResetConditions(ctx context.Context) {
	s.conditions.Reset()
	s.changed(ctx, "conditions reset")
}

func (s *SimulationState) changed(ctx context.Context, msg string, fields ...logging.Field) {
	s.publishConditions()
	snap := s.conditions.Snapshot()
	fields = append(fields,
		logging.Any("active_events", snap.ActiveEvents()),
		logging.Time("sim_time", s.clock.Now()),
	)
	s.log.Info(ctx, msg, fields...)
}
