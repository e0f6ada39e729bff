// Package desktop is the fyne frontend: a timer window, the tray menu, the
// completion banner, preferences and statistics.
package desktop

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynedesktop "fyne.io/fyne/v2/driver/desktop"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"focusloop/internal/controller"
	"focusloop/internal/core/model"
	"focusloop/internal/core/timekeeper"
	"focusloop/internal/platform"
	"focusloop/internal/ui/overlay"
	"focusloop/internal/ui/preferences"
	"focusloop/internal/ui/stats"
	"focusloop/internal/ui/tray"
	"focusloop/resources"
)

const eventBuffer = 16

// Options are the collaborators the frontend drives.
type Options struct {
	Controller *controller.Controller
	Alerts     *platform.SystemAlerts
	Guard      *platform.InstanceGuard
	Clock      clockwork.Clock
}

// App owns the fyne application.
type App struct {
	fyneApp fyne.App
	logger  zerolog.Logger
}

// New creates the fyne application. Call it before building the controller
// so the fyne notifier can back system alerts.
func New(appID string, logger zerolog.Logger) *App {
	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconActive))
	return &App{fyneApp: fyneApp, logger: logger}
}

// Notifier returns the fyne system notification sender.
func (ui *App) Notifier() *Notifier {
	return NewNotifier(ui.fyneApp)
}

// Run shows the timer window and blocks until the user quits.
func (ui *App) Run(options Options) {
	ctl := options.Controller
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}

	mainWindow := ui.fyneApp.NewWindow("FocusLoop")
	view := newTimerView(timerActions{
		onToggle: ctl.Toggle,
		onReset:  ctl.Reset,
		onSwitch: ui.switchCycle(ctl),
	})
	mainWindow.SetContent(view.content)
	mainWindow.Resize(fyne.NewSize(380, 340))
	showMain := func() {
		mainWindow.Show()
		mainWindow.RequestFocus()
	}

	prefsWindow := preferences.New(ui.fyneApp, ctl, ui.logger)
	statsWindow := stats.New(ui.fyneApp, ctl, options.Clock, ui.logger)
	banner := overlay.New(ui.fyneApp, overlay.DefaultConfig())
	banner.SetOnDismiss(ctl.Dismiss)

	if options.Alerts != nil {
		options.Alerts.SetPrompter(&Prompter{parent: func() fyne.Window {
			return prefsWindow.Window()
		}})
	}

	var trayManager *tray.Manager
	desktopApp, hasTray := ui.fyneApp.(fynedesktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow:        showMain,
			OnToggle:      ctl.Toggle,
			OnReset:       ctl.Reset,
			OnSwitch:      ui.switchCycle(ctl),
			OnStatistics:  statsWindow.Show,
			OnPreferences: prefsWindow.Show,
			OnQuit:        ui.fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconPaused))
		desktopApp.SetSystemTrayWindow(mainWindow)
		mainWindow.SetCloseIntercept(mainWindow.Hide)
	} else {
		ui.logger.Info().Msg("system tray unsupported, closing the window quits")
	}

	mainWindow.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("FocusLoop",
		fyne.NewMenuItem("Statistics", statsWindow.Show),
		fyne.NewMenuItem("Preferences", prefsWindow.Show),
	)))

	lifecycle := ui.fyneApp.Lifecycle()
	lifecycle.SetOnEnteredForeground(func() { ctl.SetFocused(true) })
	lifecycle.SetOnExitedForeground(func() { ctl.SetFocused(false) })

	if options.Guard != nil {
		options.Guard.OnActivate(func() {
			fyne.Do(showMain)
		})
	}

	render := func(event timekeeper.Event) {
		view.apply(event)
		if trayManager != nil {
			trayManager.SetState(event.State)
			desktopApp.SetSystemTrayIcon(trayIcon(event.State))
		}
	}
	render(timekeeper.Event{State: ctl.TimerState(), Total: ctl.TotalSeconds()})

	timerEvents := ctl.SubscribeTimer(eventBuffer)
	go func() {
		for event := range timerEvents {
			event := event
			fyne.Do(func() {
				render(event)
			})
		}
	}()

	notifications := ctl.SubscribeNotifications(eventBuffer)
	go func() {
		for state := range notifications {
			state := state
			fyne.Do(func() {
				banner.Apply(state)
				if state.IsVisible {
					statsWindow.Refresh()
				}
			})
		}
	}()

	showMain()
	ui.fyneApp.Run()
}

// switchCycle returns the handler shared by the timer view and the tray.
func (ui *App) switchCycle(ctl *controller.Controller) func(model.CycleType) {
	return func(cycle model.CycleType) {
		if err := ctl.SwitchCycle(cycle); err != nil {
			ui.logger.Warn().Err(err).Str("cycle", string(cycle)).Msg("switch cycle")
		}
	}
}

func trayIcon(state model.TimerState) fyne.Resource {
	switch {
	case !state.IsRunning:
		return resources.MustIcon(resources.IconPaused)
	case state.CurrentCycle.IsBreak():
		return resources.MustIcon(resources.IconBreak)
	default:
		return resources.MustIcon(resources.IconActive)
	}
}
