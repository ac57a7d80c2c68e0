package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// Signal is a categorical user feedback token.
type Signal string

const (
	SignalRelevant     Signal = "relevant"
	SignalVeryRelevant Signal = "very_relevant"
	SignalNotRelevant  Signal = "not_relevant"
)

// ParseSignal validates a raw signal token.
func ParseSignal(raw string) (Signal, error) {
	switch Signal(raw) {
	case SignalRelevant, SignalVeryRelevant, SignalNotRelevant:
		return Signal(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSignal, raw)
	}
}

// adjust applies the bounded online update for a signal to a stored
// similarity s. Positive signals move toward 1 proportionally to the
// remaining headroom; negative ones decay toward 0.
func (s Signal) adjust(current float64) float64 {
	switch s {
	case SignalRelevant:
		return current + 0.1*(1-current)
	case SignalVeryRelevant:
		return current + 0.2*(1-current)
	case SignalNotRelevant:
		return current - 0.1*current
	default:
		return current
	}
}

// ApplyFeedback applies one feedback signal to a project pair and
// returns the updated similarity.
//
// The matrix entry and both adjacency lists are updated inside one
// critical section, so a concurrent reader never observes the score
// updated but the adjacency stale or vice versa. Only the two touched
// projects' lists are repaired; no full rebuild happens. An invalid
// signal is rejected before any mutation.
func (e *Engine) ApplyFeedback(idA, idB string, signal Signal) (float64, error) {
	if _, err := ParseSignal(string(signal)); err != nil {
		return 0, err
	}
	if _, ok := e.profiles[idA]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, idA)
	}
	if _, ok := e.profiles[idB]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, idB)
	}
	if idA == idB {
		return 0, fmt.Errorf("cannot apply feedback to a self-pair (%q)", idA)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current, _ := e.matrix.Get(idA, idB) // 0 when unset
	updated := clamp01(signal.adjust(current))

	e.matrix.Set(idA, idB, updated)
	e.conn.Patch(idA, idB, updated)
	e.metrics.FeedbackEvents.WithLabelValues(string(signal)).Inc()

	e.logger.Debug("feedback applied",
		zap.String("a", idA),
		zap.String("b", idB),
		zap.String("signal", string(signal)),
		zap.Float64("before", current),
		zap.Float64("after", updated),
	)
	return updated, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
