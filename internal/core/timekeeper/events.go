package timekeeper

import (
	"time"

	"focusloop/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventComplete    EventType = "complete"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type  EventType
	State model.TimerState
	Total int
	At    time.Time
}

// Progress returns the elapsed share of the countdown in [0, 1].
func (event Event) Progress() float64 {
	if event.Total <= 0 {
		return 1
	}
	progress := float64(event.Total-event.State.RemainingSeconds) / float64(event.Total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Completion describes a countdown that reached zero.
type Completion struct {
	Cycle           model.CycleType
	DurationSeconds int
	At              time.Time
}

// CompletionHandler is invoked once per countdown that reaches zero.
type CompletionHandler func(Completion)
