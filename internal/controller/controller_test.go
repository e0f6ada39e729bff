package controller

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusloop/internal/core/history"
	"focusloop/internal/core/model"
	"focusloop/internal/core/notify"
	"focusloop/internal/core/timekeeper"
	"focusloop/internal/storage"
)

type recordingSound struct {
	played chan model.CycleType
}

func (sound *recordingSound) Play(cycle model.CycleType) {
	sound.played <- cycle
}

type stubAlerter struct {
	available  bool
	permission notify.Permission
	answer     notify.Permission
	prompts    int
}

func (alerter *stubAlerter) Available() bool { return alerter.available }

func (alerter *stubAlerter) Permission() notify.Permission { return alerter.permission }

func (alerter *stubAlerter) Show(message, suggestion string) error { return nil }

func (alerter *stubAlerter) Prompt(ctx context.Context) (notify.Permission, error) {
	alerter.prompts++
	alerter.permission = alerter.answer
	return alerter.answer, nil
}

func newController(t *testing.T, store storage.Store, options Options) (*Controller, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.May, 5, 10, 0, 0, 0, time.UTC))
	options.Store = store
	options.Clock = clock
	options.Logger = zerolog.Nop()
	controller := New(options)
	t.Cleanup(func() { _ = controller.Close() })
	return controller, clock
}

func runToCompletion(t *testing.T, controller *Controller, clock clockwork.FakeClock) {
	t.Helper()
	events := controller.SubscribeTimer(8)
	controller.Start()
	for {
		select {
		case event := <-events:
			if event.Type == timekeeper.EventComplete {
				return
			}
			if event.State.IsRunning {
				clock.Advance(time.Second)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timer did not complete")
		}
	}
}

func TestNewLoadsPersistedSettings(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyTimerSettings, `{"workMinutes":40,"shortBreakMinutes":8}`))
	require.NoError(t, store.Set(storage.KeyNotificationSettings, `{"audioEnabled":false}`))

	controller, _ := newController(t, store, Options{})

	assert.Equal(t, model.TimerSettings{WorkMinutes: 40, ShortBreakMinutes: 8, LongBreakMinutes: 15}, controller.TimerSettings())
	assert.Equal(t, 2400, controller.TimerState().RemainingSeconds)
	assert.Equal(t, notify.Settings{AudioEnabled: false, SystemEnabled: false}, controller.NotificationSettings())
}

func TestCompletionTriggersBannerAndRecordsSession(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyTimerSettings, `{"workMinutes":1}`))
	sound := &recordingSound{played: make(chan model.CycleType, 1)}

	controller, clock := newController(t, store, Options{Sound: sound})
	banners := controller.SubscribeNotifications(4)

	runToCompletion(t, controller, clock)

	select {
	case banner := <-banners:
		assert.True(t, banner.IsVisible)
		assert.Equal(t, model.CycleWork, banner.Cycle)
	case <-time.After(time.Second):
		t.Fatal("no banner")
	}
	assert.Equal(t, model.CycleWork, <-sound.played)

	require.Eventually(t, func() bool { return len(controller.Sessions()) == 1 }, time.Second, 5*time.Millisecond)
	session := controller.Sessions()[0]
	assert.Equal(t, model.CycleWork, session.CycleType)
	assert.Equal(t, 60, session.DurationSeconds)

	summary := controller.Summarize(history.PeriodToday)
	assert.Equal(t, history.Summary{TotalFocusMinutes: 1, FocusSessions: 1}, summary)
	assert.Len(t, controller.DailySeries(history.PeriodLast7Days), 7)

	raw, ok, err := store.Get(storage.KeySessionHistory)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, raw, `"cycleType":"work"`)
}

type slowSound struct {
	delay time.Duration
}

func (sound slowSound) Play(model.CycleType) {
	time.Sleep(sound.delay)
}

func TestSessionIsRecordedBeforeBannerShows(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyTimerSettings, `{"workMinutes":1}`))

	controller, clock := newController(t, store, Options{Sound: slowSound{delay: 20 * time.Millisecond}})
	banners := controller.SubscribeNotifications(4)

	runToCompletion(t, controller, clock)

	select {
	case banner := <-banners:
		require.True(t, banner.IsVisible)
	case <-time.After(time.Second):
		t.Fatal("no banner")
	}
	summary := controller.Summarize(history.PeriodToday)
	assert.Equal(t, 1, summary.FocusSessions)
	assert.Equal(t, 1.0, summary.TotalFocusMinutes)
}

func TestUpdateTimerSettingsClampsPersistsAndDefers(t *testing.T) {
	store := storage.NewMemoryStore()
	controller, _ := newController(t, store, Options{})

	work := 500
	updated := controller.UpdateTimerSettings(TimerSettingsPatch{WorkMinutes: &work})
	assert.Equal(t, model.TimerSettings{WorkMinutes: 120, ShortBreakMinutes: 5, LongBreakMinutes: 15}, updated)
	assert.Equal(t, 1500, controller.TimerState().RemainingSeconds)

	controller.Reset()
	assert.Equal(t, 7200, controller.TimerState().RemainingSeconds)
	assert.Equal(t, updated, storage.LoadTimerSettings(store, zerolog.Nop()))
}

func TestSetCycleMinutes(t *testing.T) {
	controller, _ := newController(t, storage.NewMemoryStore(), Options{})

	settings := controller.SetCycleMinutes(model.CycleLongBreak, 0)
	assert.Equal(t, 1, settings.LongBreakMinutes)

	settings = controller.SetCycleMinutes(model.CycleType("nap"), 30)
	assert.Equal(t, controller.TimerSettings(), settings)
}

func TestPreviewAndCommitMinutes(t *testing.T) {
	controller, _ := newController(t, storage.NewMemoryStore(), Options{})

	preview, ok := PreviewMinutes("250")
	assert.True(t, ok)
	assert.Equal(t, 120, preview)
	assert.Equal(t, 25, controller.TimerSettings().WorkMinutes)

	_, ok = PreviewMinutes("")
	assert.False(t, ok)

	assert.Equal(t, 120, controller.CommitMinutes(model.CycleWork, "250"))
	assert.Equal(t, 1, controller.CommitMinutes(model.CycleShortBreak, "abc"))
	assert.Equal(t, 18, controller.CommitMinutes(model.CycleLongBreak, "18"))
	assert.Equal(t, model.TimerSettings{WorkMinutes: 120, ShortBreakMinutes: 1, LongBreakMinutes: 18}, controller.TimerSettings())
}

func TestNotificationSettingsPersist(t *testing.T) {
	store := storage.NewMemoryStore()
	controller, _ := newController(t, store, Options{})

	controller.SetAudioEnabled(false)
	assert.False(t, controller.NotificationSettings().AudioEnabled)
	assert.Equal(t, notify.Settings{}, storage.LoadNotificationSettings(store, zerolog.Nop()))
}

func TestSetSystemAlertsEnabledRequiresPermission(t *testing.T) {
	alerter := &stubAlerter{available: true, permission: notify.PermissionDefault, answer: notify.PermissionDenied}
	controller, _ := newController(t, storage.NewMemoryStore(), Options{Alerter: alerter})
	ctx := context.Background()

	enabled, err := controller.SetSystemAlertsEnabled(ctx, true)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.False(t, controller.NotificationSettings().SystemEnabled)
	assert.Equal(t, 1, alerter.prompts)

	enabled, err = controller.SetSystemAlertsEnabled(ctx, true)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, 1, alerter.prompts)
}

func TestSetSystemAlertsEnabledGranted(t *testing.T) {
	alerter := &stubAlerter{available: true, permission: notify.PermissionDefault, answer: notify.PermissionGranted}
	controller, _ := newController(t, storage.NewMemoryStore(), Options{Alerter: alerter})
	ctx := context.Background()

	enabled, err := controller.SetSystemAlertsEnabled(ctx, true)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.True(t, controller.NotificationSettings().SystemEnabled)

	enabled, err = controller.SetSystemAlertsEnabled(ctx, false)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.False(t, controller.NotificationSettings().SystemEnabled)
}

func TestSwitchCycleAndDismiss(t *testing.T) {
	controller, _ := newController(t, storage.NewMemoryStore(), Options{})

	require.NoError(t, controller.SwitchCycle(model.CycleLongBreak))
	assert.Equal(t, 900, controller.TimerState().RemainingSeconds)
	assert.Equal(t, 900, controller.TotalSeconds())
	assert.Error(t, controller.SwitchCycle("lunch"))

	controller.Dismiss()
	assert.False(t, controller.Notification().IsVisible)
}

func TestCloseIsIdempotentAndClosesStore(t *testing.T) {
	store := storage.NewMemoryStore()
	controller, _ := newController(t, store, Options{})

	require.NoError(t, controller.Close())
	require.NoError(t, controller.Close())

	_, _, err := store.Get(storage.KeyTimerSettings)
	assert.ErrorIs(t, err, storage.ErrClosed)
}
