package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"focusloop/internal/core/history"
	"focusloop/internal/core/model"
)

const maxBarCells = 30

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, titleStyle.Render("FocusLoop"), m.cycleTabs())

	state := m.timer.State
	clock := clockStyle.Foreground(cycleColor(state.CurrentCycle)).Render(model.FormatClock(state.RemainingSeconds))
	sections = append(sections, clock, m.progress.ViewAs(m.timer.Progress()), dimStyle.Render(runState(state)))

	if m.banner.IsVisible {
		banner := bannerStyle.BorderForeground(cycleColor(m.banner.Cycle)).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render(m.banner.Message),
				m.banner.Suggestion,
				dimStyle.Render("d to dismiss"),
			))
		sections = append(sections, banner)
	}

	if m.prompt != nil {
		sections = append(sections, modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(m.prompt.title),
			m.prompt.question,
			dimStyle.Render("y allow  n block"),
		)))
	}

	if m.showStats {
		sections = append(sections, m.statsPanel())
	}

	sections = append(sections, m.settingsLine())
	if m.status != "" {
		sections = append(sections, m.status)
	}
	sections = append(sections, dimStyle.Render(helpText(m.showStats)))

	return baseStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) cycleTabs() string {
	tabs := make([]string, 0, len(model.Cycles))
	for i, cycle := range model.Cycles {
		label := fmt.Sprintf("%d %s", i+1, cycle.Label())
		if cycle == m.timer.State.CurrentCycle {
			tabs = append(tabs, activeTab.Foreground(cycleColor(cycle)).Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) settingsLine() string {
	return fmt.Sprintf("sound %s  system alerts %s", onOff(m.settings.AudioEnabled), onOff(m.settings.SystemEnabled))
}

func (m Model) statsPanel() string {
	summary := m.ctl.Summarize(m.period)
	series := m.ctl.DailySeries(m.period)

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Statistics: " + m.period.Label()),
		fmt.Sprintf("Total focus    %.1f min", summary.TotalFocusMinutes),
		fmt.Sprintf("Focus sessions %d", summary.FocusSessions),
		fmt.Sprintf("Total break    %.1f min", summary.TotalBreakMinutes),
		"",
	}
	lines = append(lines, dailyBars(series)...)
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// dailyBars renders one line per day scaled to the busiest day.
func dailyBars(series []history.DailyFocus) []string {
	peak := 0.0
	for _, day := range series {
		if day.FocusMinutes > peak {
			peak = day.FocusMinutes
		}
	}

	lines := make([]string, 0, len(series))
	for _, day := range series {
		cells := 0
		if peak > 0 {
			cells = int(day.FocusMinutes / peak * maxBarCells)
		}
		if cells == 0 && day.FocusMinutes > 0 {
			cells = 1
		}
		bar := barStyle.Render(strings.Repeat("█", cells))
		lines = append(lines, fmt.Sprintf("%s %s %.1f", day.Date, bar, day.FocusMinutes))
	}
	return lines
}

func runState(state model.TimerState) string {
	switch {
	case state.IsRunning:
		return "running"
	case state.Expired():
		return "done"
	default:
		return "paused"
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func helpText(stats bool) string {
	help := "space start/pause  r reset  1-3 cycle  +/- length  d dismiss  a sound  n alerts  s stats  q quit"
	if stats {
		help += "  tab period"
	}
	return help
}
