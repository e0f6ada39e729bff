package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"focusloop/internal/core/model"
)

const menuTitle = "FocusLoop"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnToggle      func()
	OnReset       func()
	OnSwitch      func(model.CycleType)
	OnStatistics  func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	cycleItems map[model.CycleType]*fyne.MenuItem
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:        app,
		callbacks:  callbacks,
		cycleItems: make(map[model.CycleType]*fyne.MenuItem, len(model.Cycles)),
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggle != nil {
			manager.callbacks.OnToggle()
		}
	})

	for _, cycle := range model.Cycles {
		cycle := cycle
		manager.cycleItems[cycle] = fyne.NewMenuItem(cycle.Label(), func() {
			if manager.callbacks.OnSwitch != nil {
				manager.callbacks.OnSwitch(cycle)
			}
		})
	}

	manager.refreshMenu()
	return manager
}

// SetState updates the status line, the Start/Pause label and the checked
// cycle.
func (manager *Manager) SetState(state model.TimerState) {
	manager.statusItem.Label = StatusLabel(state)
	if state.IsRunning {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.toggleItem.Disabled = !state.IsRunning && state.Expired()
	for cycle, item := range manager.cycleItems {
		item.Checked = cycle == state.CurrentCycle
	}
	manager.refreshMenu()
}

// StatusLabel renders the tray status line for state.
func StatusLabel(state model.TimerState) string {
	status := fmt.Sprintf("%s %s", state.CurrentCycle.Label(), model.FormatClock(state.RemainingSeconds))
	switch {
	case state.IsRunning:
	case state.Expired():
		status += " (done)"
	default:
		status += " (paused)"
	}
	return status
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}

	cycleMenu := fyne.NewMenuItem("Switch to", nil)
	items := make([]*fyne.MenuItem, 0, len(model.Cycles))
	for _, cycle := range model.Cycles {
		items = append(items, manager.cycleItems[cycle])
	}
	cycleMenu.ChildMenu = fyne.NewMenu("", items...)

	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItem("Show timer", manager.call(manager.callbacks.OnShow)),
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		fyne.NewMenuItem("Reset", manager.call(manager.callbacks.OnReset)),
		cycleMenu,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Statistics", manager.call(manager.callbacks.OnStatistics)),
		fyne.NewMenuItem("Preferences", manager.call(manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", manager.call(manager.callbacks.OnQuit)),
	))
}

func (manager *Manager) call(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}
