package timekeeper

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusloop/internal/core/model"
)

func shortSettings() model.TimerSettings {
	return model.TimerSettings{WorkMinutes: 1, ShortBreakMinutes: 2, LongBreakMinutes: 3}
}

func newKeeper(t *testing.T, settings model.TimerSettings) (*TimeKeeper, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	keeper := New(settings, Config{Clock: clock})
	t.Cleanup(keeper.Stop)
	return keeper, clock
}

func nextEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case event, ok := <-events:
		require.True(t, ok, "event channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

// advance moves the fake clock one second and waits for the resulting event.
func advance(t *testing.T, clock clockwork.FakeClock, events <-chan Event) Event {
	t.Helper()
	clock.Advance(time.Second)
	return nextEvent(t, events)
}

func TestNewStartsWithFullWorkCycle(t *testing.T) {
	keeper, _ := newKeeper(t, model.DefaultTimerSettings())

	state := keeper.State()
	assert.Equal(t, model.CycleWork, state.CurrentCycle)
	assert.Equal(t, 1500, state.RemainingSeconds)
	assert.False(t, state.IsRunning)
	assert.Equal(t, 1500, keeper.Total())
}

func TestNewClampsSettings(t *testing.T) {
	keeper, _ := newKeeper(t, model.TimerSettings{WorkMinutes: 500, ShortBreakMinutes: 0, LongBreakMinutes: -3})

	assert.Equal(t, model.TimerSettings{WorkMinutes: 120, ShortBreakMinutes: 1, LongBreakMinutes: 1}, keeper.Settings())
	assert.Equal(t, 120*60, keeper.State().RemainingSeconds)
}

func TestTickDecrementsWhileRunning(t *testing.T) {
	keeper, clock := newKeeper(t, model.DefaultTimerSettings())
	events := keeper.Subscribe(16)

	keeper.Start()
	started := nextEvent(t, events)
	assert.Equal(t, EventStateChange, started.Type)
	assert.True(t, started.State.IsRunning)

	for i := 1; i <= 3; i++ {
		event := advance(t, clock, events)
		assert.Equal(t, EventTick, event.Type)
		assert.Equal(t, 1500-i, event.State.RemainingSeconds)
	}
	assert.Equal(t, 1497, keeper.State().RemainingSeconds)
}

func TestStartIsNoOpWhileRunning(t *testing.T) {
	keeper, clock := newKeeper(t, model.DefaultTimerSettings())
	events := keeper.Subscribe(16)

	keeper.Start()
	nextEvent(t, events)
	keeper.Start()
	keeper.Start()

	advance(t, clock, events)
	select {
	case event := <-events:
		t.Fatalf("unexpected extra event %v", event.Type)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 1499, keeper.State().RemainingSeconds)
}

func TestPausePreservesRemaining(t *testing.T) {
	keeper, clock := newKeeper(t, model.DefaultTimerSettings())
	events := keeper.Subscribe(16)

	keeper.Start()
	nextEvent(t, events)
	advance(t, clock, events)
	advance(t, clock, events)

	keeper.Pause()
	paused := nextEvent(t, events)
	assert.False(t, paused.State.IsRunning)
	assert.Equal(t, 1498, paused.State.RemainingSeconds)

	clock.Advance(10 * time.Second)
	assert.Equal(t, 1498, keeper.State().RemainingSeconds)
}

func TestPauseWhenIdleIsNoOp(t *testing.T) {
	keeper, _ := newKeeper(t, model.DefaultTimerSettings())
	events := keeper.Subscribe(4)

	keeper.Pause()
	select {
	case event := <-events:
		t.Fatalf("unexpected event %v", event.Type)
	default:
	}
	assert.Equal(t, 1500, keeper.State().RemainingSeconds)
}

func TestStaleTickIsIgnored(t *testing.T) {
	keeper, _ := newKeeper(t, model.DefaultTimerSettings())

	keeper.Start()
	keeper.mu.Lock()
	stale := keeper.stopCh
	keeper.mu.Unlock()

	keeper.Pause()
	keeper.Start()

	assert.False(t, keeper.tick(stale, time.Now()))
	assert.Equal(t, 1500, keeper.State().RemainingSeconds)

	keeper.mu.Lock()
	current := keeper.stopCh
	keeper.mu.Unlock()
	assert.True(t, keeper.tick(current, time.Now()))
	assert.Equal(t, 1499, keeper.State().RemainingSeconds)
}

func TestCompletionFiresExactlyOnce(t *testing.T) {
	keeper, clock := newKeeper(t, shortSettings())
	events := keeper.Subscribe(128)

	var mu sync.Mutex
	var completions []Completion
	keeper.SetOnComplete(func(completion Completion) {
		mu.Lock()
		completions = append(completions, completion)
		mu.Unlock()
	})

	keeper.Start()
	nextEvent(t, events)
	var last Event
	for i := 0; i < 60; i++ {
		last = advance(t, clock, events)
	}
	assert.Equal(t, EventComplete, last.Type)
	assert.Equal(t, 0, last.State.RemainingSeconds)
	assert.False(t, last.State.IsRunning)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(completions) == 1
	}, time.Second, 5*time.Millisecond)

	clock.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, completions, 1)
	assert.Equal(t, model.CycleWork, completions[0].Cycle)
	assert.Equal(t, 60, completions[0].DurationSeconds)
	assert.Equal(t, 0, keeper.State().RemainingSeconds)
}

func TestStartAtZeroIsNoOp(t *testing.T) {
	keeper, clock := newKeeper(t, shortSettings())
	events := keeper.Subscribe(128)

	keeper.Start()
	nextEvent(t, events)
	for i := 0; i < 60; i++ {
		advance(t, clock, events)
	}

	keeper.Start()
	assert.False(t, keeper.State().IsRunning)
	select {
	case event := <-events:
		t.Fatalf("unexpected event %v", event.Type)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestResetRefillsCurrentCycle(t *testing.T) {
	keeper, clock := newKeeper(t, shortSettings())
	events := keeper.Subscribe(16)

	require.NoError(t, keeper.SwitchCycle(model.CycleShortBreak))
	keeper.Start()
	nextEvent(t, events)
	nextEvent(t, events)
	advance(t, clock, events)

	keeper.Reset()
	state := keeper.State()
	assert.False(t, state.IsRunning)
	assert.Equal(t, model.CycleShortBreak, state.CurrentCycle)
	assert.Equal(t, 120, state.RemainingSeconds)
}

func TestSwitchCycleNeverCompletes(t *testing.T) {
	keeper, clock := newKeeper(t, shortSettings())
	events := keeper.Subscribe(16)
	fired := make(chan Completion, 1)
	keeper.SetOnComplete(func(completion Completion) { fired <- completion })

	keeper.Start()
	nextEvent(t, events)
	advance(t, clock, events)

	require.NoError(t, keeper.SwitchCycle(model.CycleLongBreak))
	state := keeper.State()
	assert.Equal(t, model.CycleLongBreak, state.CurrentCycle)
	assert.Equal(t, 180, state.RemainingSeconds)
	assert.False(t, state.IsRunning)
	assert.Equal(t, 180, keeper.Total())

	select {
	case <-fired:
		t.Fatal("switching cycles must not complete")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSwitchCycleRejectsUnknown(t *testing.T) {
	keeper, _ := newKeeper(t, shortSettings())

	err := keeper.SwitchCycle(model.CycleType("nap"))
	assert.ErrorIs(t, err, ErrUnknownCycle)
	assert.Equal(t, model.CycleWork, keeper.State().CurrentCycle)
}

func TestUpdateSettingsIsNotRetroactive(t *testing.T) {
	keeper, _ := newKeeper(t, model.DefaultTimerSettings())

	keeper.UpdateSettings(model.TimerSettings{WorkMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 20})
	assert.Equal(t, 1500, keeper.State().RemainingSeconds)

	keeper.Reset()
	assert.Equal(t, 3000, keeper.State().RemainingSeconds)

	require.NoError(t, keeper.SwitchCycle(model.CycleShortBreak))
	assert.Equal(t, 600, keeper.State().RemainingSeconds)
}

func TestSetOnCompleteReplacesHandler(t *testing.T) {
	keeper, _ := newKeeper(t, shortSettings())

	first := make(chan Completion, 1)
	second := make(chan Completion, 1)
	keeper.SetOnComplete(func(completion Completion) { first <- completion })
	keeper.SetOnComplete(func(completion Completion) { second <- completion })

	keeper.Start()
	keeper.mu.Lock()
	stop := keeper.stopCh
	keeper.remaining = 1
	keeper.mu.Unlock()
	keeper.tick(stop, time.Now())

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("current handler not called")
	}
	assert.Empty(t, first)
}

func TestHandlerMayCallBackIntoKeeper(t *testing.T) {
	keeper, _ := newKeeper(t, shortSettings())
	done := make(chan model.TimerState, 1)
	keeper.SetOnComplete(func(completion Completion) {
		_ = keeper.SwitchCycle(model.CycleShortBreak)
		done <- keeper.State()
	})

	keeper.Start()
	keeper.mu.Lock()
	stop := keeper.stopCh
	keeper.remaining = 1
	keeper.mu.Unlock()
	keeper.tick(stop, time.Now())

	state := <-done
	assert.Equal(t, model.CycleShortBreak, state.CurrentCycle)
	assert.Equal(t, 120, state.RemainingSeconds)
}

func TestStopSuppressesCompletionAndClosesObservers(t *testing.T) {
	keeper, _ := newKeeper(t, shortSettings())
	events := keeper.Subscribe(4)
	fired := make(chan Completion, 1)
	keeper.SetOnComplete(func(completion Completion) { fired <- completion })

	keeper.Start()
	keeper.mu.Lock()
	stop := keeper.stopCh
	keeper.remaining = 1
	keeper.mu.Unlock()

	keeper.Stop()
	assert.False(t, keeper.tick(stop, time.Now()))

	for range events {
	}
	assert.Empty(t, fired)

	keeper.Start()
	assert.False(t, keeper.State().IsRunning)
	assert.ErrorIs(t, keeper.SwitchCycle(model.CycleWork), ErrStopped)

	_, ok := <-keeper.Subscribe(1)
	assert.False(t, ok)
}

func TestEventProgress(t *testing.T) {
	event := Event{Total: 100, State: model.TimerState{RemainingSeconds: 25}}
	assert.InDelta(t, 0.75, event.Progress(), 1e-9)
	assert.Equal(t, 1.0, Event{}.Progress())
}

func TestToggleStartsAndPauses(t *testing.T) {
	keeper, _ := newKeeper(t, shortSettings())

	keeper.Toggle()
	assert.True(t, keeper.State().IsRunning)

	keeper.Toggle()
	state := keeper.State()
	assert.False(t, state.IsRunning)
	assert.Equal(t, 60, state.RemainingSeconds)
}

func TestStopWaitsForRunningCompletionHandler(t *testing.T) {
	keeper, _ := newKeeper(t, shortSettings())
	entered := make(chan struct{})
	release := make(chan struct{})
	keeper.SetOnComplete(func(completion Completion) {
		close(entered)
		<-release
	})

	keeper.Start()
	keeper.mu.Lock()
	stop := keeper.stopCh
	keeper.remaining = 1
	keeper.mu.Unlock()
	go keeper.tick(stop, time.Now())
	<-entered

	stopped := make(chan struct{})
	go func() {
		keeper.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the completion handler was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the handler finished")
	}
}
