package model

import "fmt"

// TimerState is an observable snapshot of the countdown.
type TimerState struct {
	RemainingSeconds int
	IsRunning        bool
	CurrentCycle     CycleType
}

// Expired reports whether the countdown has reached zero.
func (state TimerState) Expired() bool {
	return state.RemainingSeconds <= 0
}

// FormatClock renders seconds as MM:SS. Values of an hour or more keep
// counting minutes ("95:00").
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
