// Package terminal is the bubbletea frontend.
package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"focusloop/internal/controller"
	"focusloop/internal/core/history"
	"focusloop/internal/core/model"
	"focusloop/internal/core/notify"
	"focusloop/internal/core/timekeeper"
	"focusloop/internal/platform"
)

const (
	eventBuffer      = 16
	minProgressWidth = 20
	maxProgressWidth = 60
)

type (
	timerMsg  timekeeper.Event
	bannerMsg notify.State
	promptMsg promptRequest

	// systemAlertsMsg carries the outcome of toggling system notifications.
	systemAlertsMsg struct {
		requested bool
		enabled   bool
		err       error
	}
)

// Model is the terminal UI state.
type Model struct {
	ctl      *controller.Controller
	prompter *Prompter
	logger   zerolog.Logger

	timerEvents   <-chan timekeeper.Event
	notifications <-chan notify.State

	timer    timekeeper.Event
	banner   notify.State
	settings notify.Settings
	progress progress.Model

	showStats bool
	period    history.Period
	prompt    *promptRequest
	status    string
	quitting  bool
}

// NewModel subscribes to ctl. The terminal counts as focused until it
// reports otherwise.
func NewModel(ctl *controller.Controller, prompter *Prompter, logger zerolog.Logger) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40
	ctl.SetFocused(true)

	return Model{
		ctl:           ctl,
		prompter:      prompter,
		logger:        logger,
		timerEvents:   ctl.SubscribeTimer(eventBuffer),
		notifications: ctl.SubscribeNotifications(eventBuffer),
		timer:         timekeeper.Event{State: ctl.TimerState(), Total: ctl.TotalSeconds()},
		banner:        ctl.Notification(),
		settings:      ctl.NotificationSettings(),
		progress:      bar,
		period:        history.PeriodToday,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForTimer(m.timerEvents),
		waitForBanner(m.notifications),
		waitForPrompt(m.prompter),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width < minProgressWidth {
			width = minProgressWidth
		}
		if width > maxProgressWidth {
			width = maxProgressWidth
		}
		m.progress.Width = width
		return m, nil

	case tea.FocusMsg:
		m.ctl.SetFocused(true)
		return m, nil

	case tea.BlurMsg:
		m.ctl.SetFocused(false)
		return m, nil

	case timerMsg:
		m.timer = timekeeper.Event(msg)
		return m, waitForTimer(m.timerEvents)

	case bannerMsg:
		m.banner = notify.State(msg)
		return m, waitForBanner(m.notifications)

	case promptMsg:
		request := promptRequest(msg)
		m.prompt = &request
		return m, nil

	case systemAlertsMsg:
		m.settings = m.ctl.NotificationSettings()
		switch {
		case msg.err != nil && !errors.Is(msg.err, context.Canceled):
			m.status = "Could not ask for notification permission."
			m.logger.Warn().Err(msg.err).Msg("system notification permission request failed")
		case msg.requested && !msg.enabled:
			m.status = "System notifications stay off until you allow them."
		default:
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		m.answerPrompt(false)
		return m, tea.Quit
	}

	if m.prompt != nil {
		switch key {
		case "y", "Y":
			m.answerPrompt(true)
			return m, waitForPrompt(m.prompter)
		case "n", "N", "esc":
			m.answerPrompt(false)
			return m, waitForPrompt(m.prompter)
		}
		return m, nil
	}

	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case " ":
		m.ctl.Toggle()
	case "r":
		m.ctl.Reset()
	case "1", "2", "3":
		cycle := model.Cycles[int(key[0]-'1')]
		if err := m.ctl.SwitchCycle(cycle); err != nil {
			m.status = err.Error()
		}
	case "+", "=":
		m.adjustMinutes(1)
	case "-", "_":
		m.adjustMinutes(-1)
	case "d":
		m.ctl.Dismiss()
	case "a":
		m.ctl.SetAudioEnabled(!m.settings.AudioEnabled)
		m.settings = m.ctl.NotificationSettings()
	case "n":
		return m, m.toggleSystemAlerts()
	case "s":
		m.showStats = !m.showStats
	case "tab":
		if m.showStats {
			m.period = m.period.Next()
		}
	}
	return m, nil
}

// adjustMinutes changes the length of the displayed cycle. The running
// countdown keeps its length until the next reset or switch.
func (m *Model) adjustMinutes(delta int) {
	cycle := m.timer.State.CurrentCycle
	current := m.ctl.TimerSettings().Minutes(cycle)
	updated := m.ctl.SetCycleMinutes(cycle, current+delta)
	m.status = fmt.Sprintf("%s length: %d min (applies on reset)", cycle.Label(), updated.Minutes(cycle))
}

func (m Model) toggleSystemAlerts() tea.Cmd {
	enable := !m.settings.SystemEnabled
	ctl := m.ctl
	return func() tea.Msg {
		enabled, err := ctl.SetSystemAlertsEnabled(context.Background(), enable)
		return systemAlertsMsg{requested: enable, enabled: enabled, err: err}
	}
}

func (m *Model) answerPrompt(allowed bool) {
	if m.prompt == nil {
		return
	}
	m.prompt.answer <- allowed
	m.prompt = nil
}

func waitForTimer(events <-chan timekeeper.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return timerMsg(event)
	}
}

func waitForBanner(states <-chan notify.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return nil
		}
		return bannerMsg(state)
	}
}

func waitForPrompt(prompter *Prompter) tea.Cmd {
	if prompter == nil {
		return nil
	}
	return func() tea.Msg {
		return promptMsg(<-prompter.requests)
	}
}

// Run starts the terminal frontend and blocks until the user quits or ctx
// ends. Permission prompts from alerts are shown inside the program.
func Run(ctx context.Context, ctl *controller.Controller, alerts *platform.SystemAlerts, logger zerolog.Logger) error {
	prompter := NewPrompter()
	if alerts != nil {
		alerts.SetPrompter(prompter)
	}

	program := tea.NewProgram(NewModel(ctl, prompter, logger),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
