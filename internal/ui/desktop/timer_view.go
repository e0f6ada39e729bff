package desktop

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"focusloop/internal/core/model"
	"focusloop/internal/core/timekeeper"
)

// timerActions are the controls of the main window.
type timerActions struct {
	onToggle func()
	onReset  func()
	onSwitch func(model.CycleType)
}

// timerView is the countdown shown in the main window.
type timerView struct {
	cycleLabel   *canvas.Text
	clockLabel   *canvas.Text
	progress     *widget.ProgressBar
	toggleButton *widget.Button
	resetButton  *widget.Button
	cycleButtons map[model.CycleType]*widget.Button
	content      fyne.CanvasObject
}

func newTimerView(actions timerActions) *timerView {
	view := &timerView{
		cycleLabel:   canvas.NewText("", theme.Color(theme.ColorNameForeground)),
		clockLabel:   canvas.NewText("--:--", theme.Color(theme.ColorNameForeground)),
		progress:     widget.NewProgressBar(),
		cycleButtons: make(map[model.CycleType]*widget.Button, len(model.Cycles)),
	}
	view.cycleLabel.Alignment = fyne.TextAlignCenter
	view.cycleLabel.TextSize = 18
	view.clockLabel.Alignment = fyne.TextAlignCenter
	view.clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	view.clockLabel.TextSize = 64
	view.progress.TextFormatter = func() string { return "" }

	cycleRow := container.NewGridWithColumns(len(model.Cycles))
	for _, cycle := range model.Cycles {
		cycle := cycle
		button := widget.NewButton(cycle.Label(), func() {
			if actions.onSwitch != nil {
				actions.onSwitch(cycle)
			}
		})
		view.cycleButtons[cycle] = button
		cycleRow.Add(button)
	}

	view.toggleButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		if actions.onToggle != nil {
			actions.onToggle()
		}
	})
	view.toggleButton.Importance = widget.HighImportance
	view.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() {
		if actions.onReset != nil {
			actions.onReset()
		}
	})

	view.content = container.NewPadded(container.NewVBox(
		cycleRow,
		layout.NewSpacer(),
		view.cycleLabel,
		view.clockLabel,
		view.progress,
		layout.NewSpacer(),
		container.NewGridWithColumns(2, view.toggleButton, view.resetButton),
	))
	return view
}

// apply renders the countdown carried by event.
func (view *timerView) apply(event timekeeper.Event) {
	state := event.State
	view.cycleLabel.Text = state.CurrentCycle.Label()
	view.cycleLabel.Color = cycleColor(state.CurrentCycle)
	view.clockLabel.Text = model.FormatClock(state.RemainingSeconds)
	view.cycleLabel.Refresh()
	view.clockLabel.Refresh()

	view.progress.SetValue(event.Progress())

	if state.IsRunning {
		view.toggleButton.SetText("Pause")
		view.toggleButton.SetIcon(theme.MediaPauseIcon())
	} else {
		view.toggleButton.SetText("Start")
		view.toggleButton.SetIcon(theme.MediaPlayIcon())
	}
	if !state.IsRunning && state.Expired() {
		view.toggleButton.Disable()
	} else {
		view.toggleButton.Enable()
	}

	for cycle, button := range view.cycleButtons {
		if cycle == state.CurrentCycle {
			button.Importance = widget.HighImportance
		} else {
			button.Importance = widget.MediumImportance
		}
		button.Refresh()
	}
}

func cycleColor(cycle model.CycleType) color.Color {
	switch cycle {
	case model.CycleShortBreak:
		return color.NRGBA{R: 14, G: 165, B: 233, A: 255}
	case model.CycleLongBreak:
		return color.NRGBA{R: 34, G: 197, B: 94, A: 255}
	default:
		return color.NRGBA{R: 99, G: 102, B: 241, A: 255}
	}
}
