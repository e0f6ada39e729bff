package history

import (
	"fmt"
	"math"
	"strings"
	"time"

	"focusloop/internal/core/model"
)

// Period selects the window statistics are computed over.
type Period string

const (
	PeriodToday      Period = "today"
	PeriodLast7Days  Period = "last7days"
	PeriodLast28Days Period = "last28days"
)

// Periods lists every period in display order.
var Periods = []Period{PeriodToday, PeriodLast7Days, PeriodLast28Days}

// Days returns the number of calendar days covered.
func (period Period) Days() int {
	switch period {
	case PeriodLast7Days:
		return 7
	case PeriodLast28Days:
		return 28
	default:
		return 1
	}
}

func (period Period) Label() string {
	switch period {
	case PeriodToday:
		return "Today"
	case PeriodLast7Days:
		return "Last 7 Days"
	case PeriodLast28Days:
		return "Last 28 Days"
	default:
		return string(period)
	}
}

// Next returns the period after this one, wrapping around.
func (period Period) Next() Period {
	for i, candidate := range Periods {
		if candidate == period {
			return Periods[(i+1)%len(Periods)]
		}
	}
	return PeriodToday
}

// ParsePeriod accepts "today", "last7days", "7d", "last28days" or "28d".
func ParsePeriod(value string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "today", "1d":
		return PeriodToday, nil
	case "last7days", "7d", "week":
		return PeriodLast7Days, nil
	case "last28days", "28d", "month":
		return PeriodLast28Days, nil
	}
	return "", fmt.Errorf("unknown period %q", value)
}

// PeriodStart is local midnight of the first day in the window ending today.
func PeriodStart(period Period, now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day-(period.Days()-1), 0, 0, 0, 0, now.Location())
}

// Summary aggregates the sessions of a period. Minutes are rounded to one
// decimal.
type Summary struct {
	TotalFocusMinutes float64
	FocusSessions     int
	TotalBreakMinutes float64
}

// DailyFocus is the focus time of one calendar day.
type DailyFocus struct {
	Date         string
	FocusMinutes float64
}

// DateLayout formats DailyFocus dates.
const DateLayout = "2006-01-02"

// Summarize totals the sessions completed at or after the start of period.
func Summarize(sessions []SessionRecord, period Period, now time.Time) Summary {
	start := PeriodStart(period, now)
	var focusSeconds, breakSeconds int
	var summary Summary
	for _, session := range sessions {
		if session.CompletedAt.Before(start) {
			continue
		}
		switch {
		case session.CycleType == model.CycleWork:
			focusSeconds += session.DurationSeconds
			summary.FocusSessions++
		case session.CycleType.IsBreak():
			breakSeconds += session.DurationSeconds
		}
	}
	summary.TotalFocusMinutes = roundTenth(float64(focusSeconds) / 60)
	summary.TotalBreakMinutes = roundTenth(float64(breakSeconds) / 60)
	return summary
}

// DailySeries returns one bucket per day of period, oldest first. Only work
// sessions count; sessions outside the buckets are ignored.
func DailySeries(sessions []SessionRecord, period Period, now time.Time) []DailyFocus {
	start := PeriodStart(period, now)
	days := period.Days()

	index := make(map[string]int, days)
	seconds := make([]int, days)
	series := make([]DailyFocus, days)
	for i := 0; i < days; i++ {
		year, month, day := start.Date()
		date := time.Date(year, month, day+i, 0, 0, 0, 0, start.Location()).Format(DateLayout)
		index[date] = i
		series[i].Date = date
	}

	for _, session := range sessions {
		if session.CycleType != model.CycleWork || session.CompletedAt.Before(start) {
			continue
		}
		date := session.CompletedAt.In(now.Location()).Format(DateLayout)
		if i, ok := index[date]; ok {
			seconds[i] += session.DurationSeconds
		}
	}

	for i := range series {
		series[i].FocusMinutes = roundTenth(float64(seconds[i]) / 60)
	}
	return series
}

func roundTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
