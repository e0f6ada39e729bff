package timekeeper

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"focusloop/internal/core/model"
)

// ErrUnknownCycle is returned when switching to a cycle that does not exist.
var ErrUnknownCycle = errors.New("unknown cycle")

// ErrStopped is returned by operations on a TimeKeeper after Stop.
var ErrStopped = errors.New("timekeeper stopped")

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	Clock        clockwork.Clock
	Logger       zerolog.Logger
}

// TimeKeeper is the countdown state machine. At most one ticker goroutine
// exists per keeper; it is owned by stopCh.
type TimeKeeper struct {
	mu        sync.Mutex
	settings  model.TimerSettings
	options   Config
	cycle     model.CycleType
	remaining int
	total     int
	running   bool
	stopped   bool
	events    []chan Event
	stopCh    chan struct{}
	handlers  sync.WaitGroup

	onComplete atomic.Pointer[CompletionHandler]
}

// New creates a TimeKeeper showing a full work cycle.
func New(settings model.TimerSettings, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}

	keeper := &TimeKeeper{
		settings: settings.Clamped(),
		options:  options,
		cycle:    model.CycleWork,
	}
	keeper.resetRemainingLocked()
	return keeper
}

// SetOnComplete replaces the completion handler. A nil handler clears it.
func (keeper *TimeKeeper) SetOnComplete(handler CompletionHandler) {
	if handler == nil {
		keeper.onComplete.Store(nil)
		return
	}
	keeper.onComplete.Store(&handler)
}

// Subscribe registers a new observer channel. Channels are closed by Stop.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// State returns a snapshot of the countdown.
func (keeper *TimeKeeper) State() model.TimerState {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.stateLocked()
}

// Total returns the length in seconds the displayed countdown started from.
func (keeper *TimeKeeper) Total() int {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.total
}

// Settings returns the durations new countdowns are resolved from.
func (keeper *TimeKeeper) Settings() model.TimerSettings {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.settings
}

// Start begins counting down. It is a no-op while running or when nothing
// is left to count.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped || keeper.running || keeper.remaining <= 0 {
		return
	}
	keeper.running = true

	stop := make(chan struct{})
	keeper.stopCh = stop
	ticker := keeper.options.Clock.NewTicker(keeper.options.TickInterval)
	go keeper.run(ticker, stop)

	keeper.options.Logger.Debug().
		Str("cycle", string(keeper.cycle)).
		Int("remaining", keeper.remaining).
		Msg("timer started")
	keeper.emitLocked(EventStateChange)
}

// Pause freezes the countdown, keeping the remaining time.
func (keeper *TimeKeeper) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped || !keeper.running {
		return
	}
	keeper.stopTickerLocked()
	keeper.running = false
	keeper.emitLocked(EventStateChange)
}

// Toggle starts a paused countdown or pauses a running one.
func (keeper *TimeKeeper) Toggle() {
	if keeper.State().IsRunning {
		keeper.Pause()
		return
	}
	keeper.Start()
}

// Reset stops the countdown and refills it from the current cycle.
func (keeper *TimeKeeper) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		return
	}
	keeper.stopTickerLocked()
	keeper.running = false
	keeper.resetRemainingLocked()
	keeper.emitLocked(EventStateChange)
}

// SwitchCycle stops the countdown and loads a full countdown for cycle.
// It never fires the completion handler.
func (keeper *TimeKeeper) SwitchCycle(cycle model.CycleType) error {
	if !cycle.Valid() {
		return fmt.Errorf("switch to %q: %w", cycle, ErrUnknownCycle)
	}
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.stopped {
		return ErrStopped
	}
	keeper.stopTickerLocked()
	keeper.running = false
	keeper.cycle = cycle
	keeper.resetRemainingLocked()
	keeper.emitLocked(EventStateChange)
	return nil
}

// UpdateSettings replaces the durations used by later Reset and SwitchCycle
// calls. The displayed countdown keeps its remaining time.
func (keeper *TimeKeeper) UpdateSettings(settings model.TimerSettings) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.settings = settings.Clamped()
}

// Stop cancels the ticker and closes observers. A completion handler already
// running is waited for, so a handler must not call Stop. Nothing fires
// afterwards.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if keeper.stopped {
		keeper.mu.Unlock()
		return
	}
	keeper.stopped = true
	keeper.stopTickerLocked()
	keeper.running = false
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	keeper.onComplete.Store(nil)
	keeper.handlers.Wait()
	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) run(ticker clockwork.Ticker, stop chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case tickTime := <-ticker.Chan():
			if !keeper.tick(stop, tickTime) {
				return
			}
		}
	}
}

// tick advances the countdown by one second. It returns false once the tick
// source that delivered it is no longer current.
func (keeper *TimeKeeper) tick(stop chan struct{}, now time.Time) bool {
	keeper.mu.Lock()
	if keeper.stopped || !keeper.running || keeper.stopCh != stop {
		keeper.mu.Unlock()
		return false
	}

	keeper.remaining--
	if keeper.remaining > 0 {
		keeper.emitLocked(EventTick)
		keeper.mu.Unlock()
		return true
	}

	keeper.remaining = 0
	keeper.running = false
	keeper.stopTickerLocked()
	completion := Completion{
		Cycle:           keeper.cycle,
		DurationSeconds: keeper.total,
		At:              now,
	}
	keeper.emitLocked(EventComplete)
	handler := keeper.onComplete.Load()
	if handler != nil {
		keeper.handlers.Add(1)
	}
	keeper.mu.Unlock()

	keeper.options.Logger.Info().
		Str("cycle", string(completion.Cycle)).
		Int("seconds", completion.DurationSeconds).
		Msg("cycle complete")

	if handler != nil {
		defer keeper.handlers.Done()
		(*handler)(completion)
	}
	return false
}

func (keeper *TimeKeeper) stopTickerLocked() {
	if keeper.stopCh == nil {
		return
	}
	close(keeper.stopCh)
	keeper.stopCh = nil
}

func (keeper *TimeKeeper) resetRemainingLocked() {
	keeper.remaining = model.DurationSeconds(keeper.cycle, keeper.settings)
	keeper.total = keeper.remaining
}

func (keeper *TimeKeeper) stateLocked() model.TimerState {
	return model.TimerState{
		RemainingSeconds: keeper.remaining,
		IsRunning:        keeper.running,
		CurrentCycle:     keeper.cycle,
	}
}

func (keeper *TimeKeeper) emitLocked(eventType EventType) {
	event := Event{
		Type:  eventType,
		State: keeper.stateLocked(),
		Total: keeper.total,
		At:    keeper.options.Clock.Now(),
	}
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
