package preferences

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"focusloop/internal/core/model"
	"focusloop/internal/core/notify"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	controller Controller
	logger     zerolog.Logger
	entries    map[model.CycleType]*minutesEntry
	labels     map[model.CycleType]*widget.Label
	audio      *widget.Check
	system     *widget.Check
	// syncing suppresses check callbacks while values are set from code.
	syncing bool
}

// minutesEntry commits its value when it loses focus.
type minutesEntry struct {
	widget.Entry
	onBlur func()
}

func newMinutesEntry() *minutesEntry {
	entry := &minutesEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

func (entry *minutesEntry) FocusLost() {
	entry.Entry.FocusLost()
	if entry.onBlur != nil {
		entry.onBlur()
	}
}

// New creates a preferences window.
func New(app fyne.App, controller Controller, logger zerolog.Logger) *Window {
	window := app.NewWindow("FocusLoop Preferences")

	prefs := &Window{
		window:     window,
		controller: controller,
		logger:     logger,
		entries:    make(map[model.CycleType]*minutesEntry, len(model.Cycles)),
		labels:     make(map[model.CycleType]*widget.Label, len(model.Cycles)),
	}

	timerForm := container.NewVBox(widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	settings := controller.TimerSettings()
	for _, cycle := range model.Cycles {
		cycle := cycle
		entry := newMinutesEntry()
		entry.SetText(minutesText(settings, cycle))
		label := widget.NewLabel(unitLabel)

		entry.OnChanged = func(text string) {
			label.SetText(PreviewHint(text))
		}
		entry.OnSubmitted = func(string) {
			prefs.commit(cycle)
		}
		entry.onBlur = func() {
			prefs.commit(cycle)
		}

		prefs.entries[cycle] = entry
		prefs.labels[cycle] = label
		timerForm.Add(container.NewBorder(nil, nil, widget.NewLabel(cycle.Label()), label, entry))
	}

	prefs.audio = widget.NewCheck("Play a sound when a timer ends", func(enabled bool) {
		if prefs.syncing {
			return
		}
		controller.SetAudioEnabled(enabled)
	})
	prefs.system = widget.NewCheck("Show a system notification when in the background", func(enabled bool) {
		if prefs.syncing {
			return
		}
		go prefs.setSystemAlerts(enabled)
	})

	form := container.NewVBox(
		timerForm,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Notifications", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.audio,
		prefs.system,
	)

	closeButton := widget.NewButton("Close", func() {
		window.Hide()
	})
	window.SetContent(container.NewBorder(nil, container.NewHBox(closeButton), nil, nil, form))
	window.SetCloseIntercept(func() {
		window.Hide()
	})
	window.Resize(fyne.NewSize(420, 320))

	prefs.Refresh()
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.Refresh()
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Window returns the underlying fyne window, used as the parent of dialogs.
func (prefs *Window) Window() fyne.Window {
	return prefs.window
}

// Refresh replaces window values with the stored settings.
func (prefs *Window) Refresh() {
	settings := prefs.controller.TimerSettings()
	for cycle, entry := range prefs.entries {
		entry.SetText(minutesText(settings, cycle))
		prefs.labels[cycle].SetText(unitLabel)
	}
	prefs.applyNotificationSettings(prefs.controller.NotificationSettings())
}

func (prefs *Window) applyNotificationSettings(settings notify.Settings) {
	prefs.syncing = true
	defer func() { prefs.syncing = false }()

	prefs.audio.SetChecked(settings.AudioEnabled)
	prefs.system.SetChecked(settings.SystemEnabled)
	if prefs.controller.SystemAlertsAvailable() {
		prefs.system.Enable()
	} else {
		prefs.system.Disable()
	}
}

func (prefs *Window) commit(cycle model.CycleType) {
	entry := prefs.entries[cycle]
	committed := prefs.controller.CommitMinutes(cycle, entry.Text)
	entry.SetText(minutesText(prefs.controller.TimerSettings(), cycle))
	prefs.labels[cycle].SetText(unitLabel)
	prefs.logger.Debug().Str("cycle", string(cycle)).Int("minutes", committed).Msg("cycle length committed")
}

// setSystemAlerts runs off the UI goroutine because enabling may wait for
// the permission dialog.
func (prefs *Window) setSystemAlerts(enabled bool) {
	enabledNow, err := prefs.controller.SetSystemAlertsEnabled(context.Background(), enabled)
	if err != nil && !errors.Is(err, context.Canceled) {
		prefs.logger.Warn().Err(err).Msg("system notification permission request failed")
	}
	fyne.Do(func() {
		prefs.applyNotificationSettings(prefs.controller.NotificationSettings())
		if enabled && !enabledNow && err == nil {
			dialog.ShowInformation("Notifications blocked",
				"System notifications stay off until you allow them.", prefs.window)
		}
	})
}
