package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CycleType identifies a timer phase.
type CycleType string

const (
	CycleWork       CycleType = "work"
	CycleShortBreak CycleType = "shortBreak"
	CycleLongBreak  CycleType = "longBreak"
)

// Cycles lists every cycle in display order.
var Cycles = []CycleType{CycleWork, CycleShortBreak, CycleLongBreak}

// Valid reports whether cycle is one of the known phases.
func (cycle CycleType) Valid() bool {
	switch cycle {
	case CycleWork, CycleShortBreak, CycleLongBreak:
		return true
	}
	return false
}

// IsBreak reports whether cycle is a short or long break.
func (cycle CycleType) IsBreak() bool {
	return cycle == CycleShortBreak || cycle == CycleLongBreak
}

// Label returns the human readable cycle name.
func (cycle CycleType) Label() string {
	switch cycle {
	case CycleWork:
		return "Work"
	case CycleShortBreak:
		return "Short Break"
	case CycleLongBreak:
		return "Long Break"
	default:
		return string(cycle)
	}
}

// ParseCycleType accepts the wire form ("shortBreak") or a loose spelling
// ("short", "short-break").
func ParseCycleType(value string) (CycleType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)
	switch normalized {
	case "work":
		return CycleWork, nil
	case "short", "shortbreak":
		return CycleShortBreak, nil
	case "long", "longbreak":
		return CycleLongBreak, nil
	}
	return "", fmt.Errorf("unknown cycle type %q", value)
}

// Bounds for user configurable cycle lengths, in minutes.
const (
	MinMinutes = 1
	MaxMinutes = 120
)

// TimerSettings holds the configured length of every cycle.
type TimerSettings struct {
	WorkMinutes       int `json:"workMinutes"`
	ShortBreakMinutes int `json:"shortBreakMinutes"`
	LongBreakMinutes  int `json:"longBreakMinutes"`
}

// DefaultTimerSettings returns the classic 25/5/15 split.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
	}
}

// Clamped returns a copy with every field forced into [MinMinutes, MaxMinutes].
func (settings TimerSettings) Clamped() TimerSettings {
	return TimerSettings{
		WorkMinutes:       ClampMinutes(settings.WorkMinutes),
		ShortBreakMinutes: ClampMinutes(settings.ShortBreakMinutes),
		LongBreakMinutes:  ClampMinutes(settings.LongBreakMinutes),
	}
}

// Minutes returns the configured length of cycle.
func (settings TimerSettings) Minutes(cycle CycleType) int {
	switch cycle {
	case CycleWork:
		return settings.WorkMinutes
	case CycleShortBreak:
		return settings.ShortBreakMinutes
	case CycleLongBreak:
		return settings.LongBreakMinutes
	default:
		return 0
	}
}

// WithMinutes returns a copy with the length of cycle replaced and clamped.
func (settings TimerSettings) WithMinutes(cycle CycleType, minutes int) TimerSettings {
	minutes = ClampMinutes(minutes)
	switch cycle {
	case CycleWork:
		settings.WorkMinutes = minutes
	case CycleShortBreak:
		settings.ShortBreakMinutes = minutes
	case CycleLongBreak:
		settings.LongBreakMinutes = minutes
	}
	return settings
}

// ClampMinutes forces value into [MinMinutes, MaxMinutes].
func ClampMinutes(value int) int {
	if value < MinMinutes {
		return MinMinutes
	}
	if value > MaxMinutes {
		return MaxMinutes
	}
	return value
}

// ClampMinutesFloat rounds value to the nearest minute before clamping.
func ClampMinutesFloat(value float64) int {
	if math.IsNaN(value) {
		return MinMinutes
	}
	if value > MaxMinutes {
		return MaxMinutes
	}
	if value < MinMinutes {
		return MinMinutes
	}
	return ClampMinutes(int(math.Round(value)))
}

// ParseMinutes reads a typed minutes value. The result is clamped; ok is false
// when text is not a number at all.
func ParseMinutes(text string) (int, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return ClampMinutesFloat(value), true
}

// DurationSeconds resolves the length of cycle in seconds. settings must
// already be clamped; unknown cycles resolve to zero.
func DurationSeconds(cycle CycleType, settings TimerSettings) int {
	return settings.Minutes(cycle) * 60
}
