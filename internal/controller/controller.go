// Package controller wires the timer, notifications and history together and
// persists user settings. Frontends talk only to a Controller.
package controller

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"focusloop/internal/core/history"
	"focusloop/internal/core/model"
	"focusloop/internal/core/notify"
	"focusloop/internal/core/timekeeper"
	"focusloop/internal/logging"
	"focusloop/internal/storage"
)

// Options configures a Controller. Store defaults to an in-memory store.
type Options struct {
	Store   storage.Store
	Clock   clockwork.Clock
	Logger  zerolog.Logger
	Sound   notify.SoundPlayer
	Alerter notify.SystemAlerter
}

// TimerSettingsPatch updates only the fields that are set.
type TimerSettingsPatch struct {
	WorkMinutes       *int
	ShortBreakMinutes *int
	LongBreakMinutes  *int
}

// Controller owns the engine, coordinator and recorder.
type Controller struct {
	engine      *timekeeper.TimeKeeper
	coordinator *notify.Coordinator
	recorder    *history.Recorder
	store       storage.Store
	logger      zerolog.Logger

	mu            sync.Mutex
	timerSettings model.TimerSettings
	closeOnce     sync.Once
}

// New loads persisted settings and history and connects completion to the
// coordinator and recorder.
func New(options Options) *Controller {
	if options.Store == nil {
		options.Store = storage.NewMemoryStore()
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	logger := options.Logger

	timerSettings := storage.LoadTimerSettings(options.Store, logger)
	notificationSettings := storage.LoadNotificationSettings(options.Store, logger)

	controller := &Controller{
		engine: timekeeper.New(timerSettings, timekeeper.Config{
			Clock:  options.Clock,
			Logger: logging.Component(logger, "timekeeper"),
		}),
		coordinator: notify.New(notify.Options{
			Clock:    options.Clock,
			Logger:   logging.Component(logger, "notify"),
			Sound:    options.Sound,
			Alerter:  options.Alerter,
			Settings: notificationSettings,
		}),
		recorder:      history.NewRecorder(options.Store, options.Clock, logging.Component(logger, "history")),
		store:         options.Store,
		logger:        logger,
		timerSettings: timerSettings,
	}
	controller.engine.SetOnComplete(controller.handleCompletion)
	return controller
}

// handleCompletion records before triggering so observers of the visible
// banner already see the finished session in the statistics.
func (controller *Controller) handleCompletion(completion timekeeper.Completion) {
	controller.recorder.Record(completion.Cycle, completion.DurationSeconds)
	controller.coordinator.Trigger(completion.Cycle)
}

// Timer controls.

func (controller *Controller) Start() { controller.engine.Start() }
func (controller *Controller) Pause() { controller.engine.Pause() }
func (controller *Controller) Toggle() { controller.engine.Toggle() }
func (controller *Controller) Reset() { controller.engine.Reset() }

// SwitchCycle loads a full countdown for cycle.
func (controller *Controller) SwitchCycle(cycle model.CycleType) error {
	return controller.engine.SwitchCycle(cycle)
}

// TimerState returns the countdown snapshot.
func (controller *Controller) TimerState() model.TimerState {
	return controller.engine.State()
}

// TotalSeconds returns the length of the displayed countdown.
func (controller *Controller) TotalSeconds() int {
	return controller.engine.Total()
}

// SubscribeTimer registers an observer of countdown changes.
func (controller *Controller) SubscribeTimer(buffer int) <-chan timekeeper.Event {
	return controller.engine.Subscribe(buffer)
}

// Notifications.

func (controller *Controller) Dismiss() { controller.coordinator.Dismiss() }

// Notification returns the banner snapshot.
func (controller *Controller) Notification() notify.State {
	return controller.coordinator.State()
}

// SubscribeNotifications registers an observer of banner changes.
func (controller *Controller) SubscribeNotifications(buffer int) <-chan notify.State {
	return controller.coordinator.Subscribe(buffer)
}

// SetFocused reports whether the frontend currently has focus.
func (controller *Controller) SetFocused(focused bool) {
	controller.coordinator.SetFocused(focused)
}

// RequestPermission asks for system notification permission.
func (controller *Controller) RequestPermission(ctx context.Context) (bool, error) {
	return controller.coordinator.RequestPermission(ctx)
}

// SystemAlertsAvailable reports whether the platform can show system
// notifications.
func (controller *Controller) SystemAlertsAvailable() bool {
	return controller.coordinator.SystemAvailable()
}

// NotificationSettings returns the alert channel selection.
func (controller *Controller) NotificationSettings() notify.Settings {
	return controller.coordinator.Settings()
}

// UpdateNotificationSettings persists settings and applies them.
func (controller *Controller) UpdateNotificationSettings(settings notify.Settings) {
	controller.coordinator.UpdateSettings(settings)
	storage.SaveNotificationSettings(controller.store, settings, controller.logger)
}

// SetAudioEnabled toggles the completion chime.
func (controller *Controller) SetAudioEnabled(enabled bool) {
	settings := controller.coordinator.Settings()
	settings.AudioEnabled = enabled
	controller.UpdateNotificationSettings(settings)
}

// SetSystemAlertsEnabled toggles system notifications. Enabling first asks
// for permission and leaves the setting off unless it is granted.
func (controller *Controller) SetSystemAlertsEnabled(ctx context.Context, enabled bool) (bool, error) {
	settings := controller.coordinator.Settings()
	if !enabled {
		settings.SystemEnabled = false
		controller.UpdateNotificationSettings(settings)
		return false, nil
	}

	granted, err := controller.coordinator.RequestPermission(ctx)
	if err != nil || !granted {
		return false, err
	}
	settings = controller.coordinator.Settings()
	settings.SystemEnabled = true
	controller.UpdateNotificationSettings(settings)
	return true, nil
}

// Timer settings.

// TimerSettings returns the configured cycle lengths.
func (controller *Controller) TimerSettings() model.TimerSettings {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.timerSettings
}

// UpdateTimerSettings merges patch, clamps, persists and hands the result to
// the engine. The running countdown is not changed.
func (controller *Controller) UpdateTimerSettings(patch TimerSettingsPatch) model.TimerSettings {
	controller.mu.Lock()
	updated := controller.timerSettings
	if patch.WorkMinutes != nil {
		updated.WorkMinutes = *patch.WorkMinutes
	}
	if patch.ShortBreakMinutes != nil {
		updated.ShortBreakMinutes = *patch.ShortBreakMinutes
	}
	if patch.LongBreakMinutes != nil {
		updated.LongBreakMinutes = *patch.LongBreakMinutes
	}
	updated = updated.Clamped()
	controller.timerSettings = updated
	controller.mu.Unlock()

	controller.engine.UpdateSettings(updated)
	storage.SaveTimerSettings(controller.store, updated, controller.logger)
	return updated
}

// SetCycleMinutes updates the length of a single cycle.
func (controller *Controller) SetCycleMinutes(cycle model.CycleType, minutes int) model.TimerSettings {
	var patch TimerSettingsPatch
	switch cycle {
	case model.CycleWork:
		patch.WorkMinutes = &minutes
	case model.CycleShortBreak:
		patch.ShortBreakMinutes = &minutes
	case model.CycleLongBreak:
		patch.LongBreakMinutes = &minutes
	default:
		return controller.TimerSettings()
	}
	return controller.UpdateTimerSettings(patch)
}

// PreviewMinutes clamps typed text for display while the user is still
// editing. Nothing is stored.
func PreviewMinutes(text string) (int, bool) {
	return model.ParseMinutes(text)
}

// CommitMinutes applies typed text for cycle once editing is finished.
// Text that is not a number commits the minimum. It returns the value the
// input should now show.
func (controller *Controller) CommitMinutes(cycle model.CycleType, text string) int {
	minutes, ok := model.ParseMinutes(text)
	if !ok {
		minutes = model.MinMinutes
	}
	return controller.SetCycleMinutes(cycle, minutes).Minutes(cycle)
}

// Statistics.

// Summarize aggregates recorded sessions for period.
func (controller *Controller) Summarize(period history.Period) history.Summary {
	return controller.recorder.Summarize(period)
}

// DailySeries returns per-day focus minutes for period.
func (controller *Controller) DailySeries(period history.Period) []history.DailyFocus {
	return controller.recorder.DailySeries(period)
}

// Sessions returns every recorded session.
func (controller *Controller) Sessions() []history.SessionRecord {
	return controller.recorder.Sessions()
}

// Close stops the engine, then the coordinator, then the store.
func (controller *Controller) Close() error {
	var err error
	controller.closeOnce.Do(func() {
		controller.engine.Stop()
		controller.coordinator.Close()
		err = controller.store.Close()
	})
	return err
}
