package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"focusloop/internal/core/model"
)

var (
	baseStyle   = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	clockStyle  = lipgloss.NewStyle().Bold(true).Padding(1, 0)
	tabStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("252"))
	activeTab   = tabStyle.Bold(true).Reverse(true)
	bannerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(52)
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("214")).Padding(0, 1).Width(52)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

func cycleColor(cycle model.CycleType) lipgloss.Color {
	switch cycle {
	case model.CycleShortBreak:
		return lipgloss.Color("39")
	case model.CycleLongBreak:
		return lipgloss.Color("42")
	default:
		return lipgloss.Color("99")
	}
}
