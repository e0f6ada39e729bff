package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusloop/internal/core/model"
)

func newCoordinator(t *testing.T, options Options) (*Coordinator, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	options.Clock = clock
	coordinator := New(options)
	t.Cleanup(coordinator.Close)
	return coordinator, clock
}

func waitHidden(t *testing.T, coordinator *Coordinator) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !coordinator.State().IsVisible
	}, time.Second, 5*time.Millisecond)
}

func TestTriggerShowsMessageAndPlaysSound(t *testing.T) {
	ctrl := gomock.NewController(t)
	sound := NewMockSoundPlayer(ctrl)
	sound.EXPECT().Play(model.CycleWork).Times(1)

	coordinator, _ := newCoordinator(t, Options{Sound: sound, Settings: DefaultSettings()})
	coordinator.Trigger(model.CycleWork)

	state := coordinator.State()
	assert.True(t, state.IsVisible)
	assert.Equal(t, "Work session complete! Time for a break.", state.Message)
	assert.Equal(t, "Start your short break", state.Suggestion)
	assert.Equal(t, model.CycleWork, state.Cycle)
}

func TestTriggerMessagesForEveryCycle(t *testing.T) {
	coordinator, _ := newCoordinator(t, Options{})

	coordinator.Trigger(model.CycleShortBreak)
	assert.Equal(t, "Short break complete! Back to work.", coordinator.State().Message)
	assert.Equal(t, "Start your next work session", coordinator.State().Suggestion)

	coordinator.Trigger(model.CycleLongBreak)
	assert.Equal(t, "Long break complete! Ready for a new session.", coordinator.State().Message)
	assert.Equal(t, "Start a fresh work session", coordinator.State().Suggestion)
}

func TestAudioDisabledSkipsSound(t *testing.T) {
	ctrl := gomock.NewController(t)
	sound := NewMockSoundPlayer(ctrl)

	coordinator, _ := newCoordinator(t, Options{Sound: sound, Settings: Settings{AudioEnabled: false}})
	coordinator.Trigger(model.CycleWork)
	assert.True(t, coordinator.State().IsVisible)
}

func TestAutoDismissAfterExactlyFiveSeconds(t *testing.T) {
	coordinator, clock := newCoordinator(t, Options{})

	coordinator.Trigger(model.CycleWork)
	clock.Advance(4999 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.True(t, coordinator.State().IsVisible)

	clock.Advance(time.Millisecond)
	waitHidden(t, coordinator)
	assert.Equal(t, State{}, coordinator.State())
}

func TestRetriggerRestartsWindow(t *testing.T) {
	coordinator, clock := newCoordinator(t, Options{})

	coordinator.Trigger(model.CycleWork)
	clock.Advance(3 * time.Second)
	coordinator.Trigger(model.CycleShortBreak)
	clock.Advance(3 * time.Second)
	time.Sleep(20 * time.Millisecond)

	state := coordinator.State()
	require.True(t, state.IsVisible)
	assert.Equal(t, model.CycleShortBreak, state.Cycle)

	clock.Advance(2 * time.Second)
	waitHidden(t, coordinator)
}

func TestStaleDismissalIsIgnored(t *testing.T) {
	coordinator, _ := newCoordinator(t, Options{})

	coordinator.Trigger(model.CycleWork)
	coordinator.mu.Lock()
	stale := coordinator.generation
	coordinator.mu.Unlock()

	coordinator.Trigger(model.CycleLongBreak)
	coordinator.expire(stale)
	assert.True(t, coordinator.State().IsVisible)
	assert.Equal(t, model.CycleLongBreak, coordinator.State().Cycle)
}

func TestDismissIsIdempotent(t *testing.T) {
	coordinator, clock := newCoordinator(t, Options{})
	events := coordinator.Subscribe(8)

	coordinator.Trigger(model.CycleWork)
	coordinator.Dismiss()
	coordinator.Dismiss()
	assert.Equal(t, State{}, coordinator.State())

	assert.True(t, (<-events).IsVisible)
	assert.False(t, (<-events).IsVisible)
	select {
	case state := <-events:
		t.Fatalf("unexpected state %+v", state)
	default:
	}

	clock.Advance(10 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, events)
}

func TestSystemAlertShownWhenUnfocusedAndGranted(t *testing.T) {
	ctrl := gomock.NewController(t)
	alerter := NewMockSystemAlerter(ctrl)
	alerter.EXPECT().Available().Return(true)
	alerter.EXPECT().Permission().Return(PermissionGranted)
	alerter.EXPECT().Show("Work session complete! Time for a break.", "Start your short break").Return(nil)

	coordinator, _ := newCoordinator(t, Options{
		Alerter:  alerter,
		Settings: Settings{SystemEnabled: true},
	})
	coordinator.SetFocused(false)
	coordinator.Trigger(model.CycleWork)
}

func TestSystemAlertFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	alerter := NewMockSystemAlerter(ctrl)
	alerter.EXPECT().Available().Return(true)
	alerter.EXPECT().Permission().Return(PermissionGranted)
	alerter.EXPECT().Show(gomock.Any(), gomock.Any()).Return(errors.New("dbus down"))

	coordinator, _ := newCoordinator(t, Options{Alerter: alerter, Settings: Settings{SystemEnabled: true}})
	coordinator.Trigger(model.CycleLongBreak)
	assert.True(t, coordinator.State().IsVisible)
}

func TestSystemAlertSkippedWhenFocused(t *testing.T) {
	ctrl := gomock.NewController(t)
	alerter := NewMockSystemAlerter(ctrl)

	coordinator, _ := newCoordinator(t, Options{Alerter: alerter, Settings: Settings{SystemEnabled: true}})
	coordinator.SetFocused(true)
	coordinator.Trigger(model.CycleWork)
}

func TestSystemAlertSkippedWithoutPermission(t *testing.T) {
	ctrl := gomock.NewController(t)
	alerter := NewMockSystemAlerter(ctrl)
	alerter.EXPECT().Available().Return(true).Times(2)
	alerter.EXPECT().Permission().Return(PermissionDefault)
	alerter.EXPECT().Permission().Return(PermissionDenied)

	coordinator, _ := newCoordinator(t, Options{Alerter: alerter, Settings: Settings{SystemEnabled: true}})
	coordinator.Trigger(model.CycleWork)
	coordinator.Trigger(model.CycleWork)
}

func TestSystemAlertSkippedWhenDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	alerter := NewMockSystemAlerter(ctrl)

	coordinator, _ := newCoordinator(t, Options{Alerter: alerter, Settings: Settings{SystemEnabled: false}})
	coordinator.Trigger(model.CycleWork)
}

func TestRequestPermission(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		alerter := NewMockSystemAlerter(ctrl)
		alerter.EXPECT().Available().Return(false)

		coordinator, _ := newCoordinator(t, Options{Alerter: alerter})
		granted, err := coordinator.RequestPermission(ctx)
		require.NoError(t, err)
		assert.False(t, granted)
	})

	t.Run("no alerter", func(t *testing.T) {
		coordinator, _ := newCoordinator(t, Options{})
		granted, err := coordinator.RequestPermission(ctx)
		require.NoError(t, err)
		assert.False(t, granted)
	})

	t.Run("already granted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		alerter := NewMockSystemAlerter(ctrl)
		alerter.EXPECT().Available().Return(true)
		alerter.EXPECT().Permission().Return(PermissionGranted)

		coordinator, _ := newCoordinator(t, Options{Alerter: alerter})
		granted, err := coordinator.RequestPermission(ctx)
		require.NoError(t, err)
		assert.True(t, granted)
	})

	t.Run("already denied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		alerter := NewMockSystemAlerter(ctrl)
		alerter.EXPECT().Available().Return(true)
		alerter.EXPECT().Permission().Return(PermissionDenied)

		coordinator, _ := newCoordinator(t, Options{Alerter: alerter})
		granted, err := coordinator.RequestPermission(ctx)
		require.NoError(t, err)
		assert.False(t, granted)
	})

	t.Run("undecided prompts once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		alerter := NewMockSystemAlerter(ctrl)
		alerter.EXPECT().Available().Return(true)
		alerter.EXPECT().Permission().Return(PermissionDefault)
		alerter.EXPECT().Prompt(gomock.Any()).Return(PermissionGranted, nil).Times(1)

		coordinator, _ := newCoordinator(t, Options{Alerter: alerter})
		granted, err := coordinator.RequestPermission(ctx)
		require.NoError(t, err)
		assert.True(t, granted)
	})

	t.Run("prompt declined", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		alerter := NewMockSystemAlerter(ctrl)
		alerter.EXPECT().Available().Return(true)
		alerter.EXPECT().Permission().Return(PermissionDefault)
		alerter.EXPECT().Prompt(gomock.Any()).Return(PermissionDenied, nil)

		coordinator, _ := newCoordinator(t, Options{Alerter: alerter})
		granted, err := coordinator.RequestPermission(ctx)
		require.NoError(t, err)
		assert.False(t, granted)
	})

	t.Run("prompt unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		alerter := NewMockSystemAlerter(ctrl)
		alerter.EXPECT().Available().Return(true)
		alerter.EXPECT().Permission().Return(PermissionDefault)
		alerter.EXPECT().Prompt(gomock.Any()).Return(PermissionDefault, ErrPromptUnavailable)

		coordinator, _ := newCoordinator(t, Options{Alerter: alerter})
		granted, err := coordinator.RequestPermission(ctx)
		assert.ErrorIs(t, err, ErrPromptUnavailable)
		assert.False(t, granted)
	})
}

func TestSettingsRoundTrip(t *testing.T) {
	coordinator, _ := newCoordinator(t, Options{Settings: DefaultSettings()})
	assert.Equal(t, Settings{AudioEnabled: true}, coordinator.Settings())

	coordinator.UpdateSettings(Settings{AudioEnabled: false, SystemEnabled: true})
	assert.Equal(t, Settings{SystemEnabled: true}, coordinator.Settings())
}

func TestCloseStopsEverything(t *testing.T) {
	coordinator, clock := newCoordinator(t, Options{})
	events := coordinator.Subscribe(4)

	coordinator.Trigger(model.CycleWork)
	coordinator.Close()
	coordinator.Close()

	visible := <-events
	assert.True(t, visible.IsVisible)
	_, ok := <-events
	assert.False(t, ok)

	clock.Advance(10 * time.Second)
	coordinator.Trigger(model.CycleShortBreak)
	coordinator.Dismiss()
	assert.Equal(t, model.CycleWork, coordinator.State().Cycle)
}

func TestParsePermission(t *testing.T) {
	assert.Equal(t, PermissionGranted, ParsePermission("granted"))
	assert.Equal(t, PermissionDenied, ParsePermission("denied"))
	assert.Equal(t, PermissionDefault, ParsePermission(""))
	assert.Equal(t, PermissionDefault, ParsePermission("maybe"))
}
