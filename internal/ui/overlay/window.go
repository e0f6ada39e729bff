package overlay

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"focusloop/internal/core/model"
	"focusloop/internal/core/notify"
)

// Config defines banner visuals.
type Config struct {
	Opacity uint8
}

// DefaultConfig returns the banner look used by the desktop frontend.
func DefaultConfig() Config {
	return Config{Opacity: 230}
}

// Window shows the completion banner driven by the notification coordinator.
type Window struct {
	window          fyne.Window
	config          Config
	background      *canvas.Rectangle
	messageLabel    *canvas.Text
	suggestionLabel *canvas.Text
	dismissButton   *widget.Button
	onDismiss       func()
	visible         bool
}

const (
	bannerWidth  = float32(420)
	bannerHeight = float32(120)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the banner window. It stays hidden until Apply receives a
// visible state.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow("FocusLoop")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(backgroundColor("", config.Opacity))

	messageLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	messageLabel.TextStyle = fyne.TextStyle{Bold: true}
	messageLabel.TextSize = 17

	suggestionLabel := canvas.NewText("", color.NRGBA{R: 232, G: 232, B: 240, A: 255})
	suggestionLabel.TextSize = 14

	banner := &Window{
		window:          window,
		config:          config,
		background:      background,
		messageLabel:    messageLabel,
		suggestionLabel: suggestionLabel,
	}
	banner.dismissButton = widget.NewButton("Dismiss", func() {
		if banner.onDismiss != nil {
			banner.onDismiss()
		}
	})

	content := container.NewPadded(container.NewBorder(nil, nil, nil,
		container.NewCenter(banner.dismissButton),
		container.NewVBox(messageLabel, suggestionLabel),
	))
	window.SetContent(container.NewStack(background, content))
	window.Resize(fyne.NewSize(bannerWidth, bannerHeight))
	window.SetCloseIntercept(func() {
		if banner.onDismiss != nil {
			banner.onDismiss()
		}
	})

	return banner
}

// SetOnDismiss sets the handler of the Dismiss button.
func (banner *Window) SetOnDismiss(handler func()) {
	banner.onDismiss = handler
}

// Apply renders state. Must run on the fyne goroutine.
func (banner *Window) Apply(state notify.State) {
	if !state.IsVisible {
		banner.hide()
		return
	}

	banner.messageLabel.Text = state.Message
	banner.suggestionLabel.Text = state.Suggestion
	banner.background.FillColor = backgroundColor(state.Cycle, banner.config.Opacity)
	banner.messageLabel.Refresh()
	banner.suggestionLabel.Refresh()
	canvas.Refresh(banner.background)

	if !banner.visible {
		banner.window.Resize(fyne.NewSize(bannerWidth, bannerHeight))
		banner.window.CenterOnScreen()
		banner.window.Show()
		banner.visible = true
	}
	banner.window.RequestFocus()
}

// Visible reports whether the banner is on screen.
func (banner *Window) Visible() bool {
	return banner.visible
}

func (banner *Window) hide() {
	if !banner.visible {
		return
	}
	banner.window.Hide()
	banner.visible = false
}

// backgroundColor tints the banner by the cycle that just finished.
func backgroundColor(cycle model.CycleType, opacity uint8) color.NRGBA {
	switch cycle {
	case model.CycleShortBreak:
		return color.NRGBA{R: 14, G: 116, B: 144, A: opacity}
	case model.CycleLongBreak:
		return color.NRGBA{R: 21, G: 128, B: 61, A: opacity}
	default:
		return color.NRGBA{R: 67, G: 56, B: 202, A: opacity}
	}
}
