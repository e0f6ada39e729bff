package notify

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"focusloop/internal/core/model"
)

// AutoDismissAfter is how long a banner stays visible without interaction.
const AutoDismissAfter = 5000 * time.Millisecond

// Settings selects which alert channels fire on completion.
type Settings struct {
	AudioEnabled  bool `json:"audioEnabled"`
	SystemEnabled bool `json:"browserEnabled"`
}

// DefaultSettings enables sound only.
func DefaultSettings() Settings {
	return Settings{AudioEnabled: true, SystemEnabled: false}
}

// State is the in-app banner. Cycle is empty while hidden.
type State struct {
	IsVisible  bool
	Message    string
	Suggestion string
	Cycle      model.CycleType
}

// Options configures a Coordinator. Nil collaborators disable the channel
// they serve.
type Options struct {
	Clock    clockwork.Clock
	Logger   zerolog.Logger
	Sound    SoundPlayer
	Alerter  SystemAlerter
	Settings Settings
}

// Coordinator shows the completion banner, fans out to sound and system
// alerts, and hides the banner again after AutoDismissAfter.
type Coordinator struct {
	mu         sync.Mutex
	clock      clockwork.Clock
	logger     zerolog.Logger
	sound      SoundPlayer
	alerter    SystemAlerter
	settings   Settings
	state      State
	focused    bool
	timer      clockwork.Timer
	generation uint64
	events     []chan State
	closed     bool

	promptMu sync.Mutex
}

// New creates a hidden Coordinator.
func New(options Options) *Coordinator {
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	return &Coordinator{
		clock:    options.Clock,
		logger:   options.Logger,
		sound:    options.Sound,
		alerter:  options.Alerter,
		settings: options.Settings,
	}
}

// Trigger shows the banner for cycle and restarts the dismissal window.
func (coordinator *Coordinator) Trigger(cycle model.CycleType) {
	message, suggestion := MessageFor(cycle)

	coordinator.mu.Lock()
	if coordinator.closed {
		coordinator.mu.Unlock()
		return
	}
	coordinator.cancelTimerLocked()
	coordinator.state = State{
		IsVisible:  true,
		Message:    message,
		Suggestion: suggestion,
		Cycle:      cycle,
	}
	generation := coordinator.generation
	coordinator.timer = coordinator.clock.AfterFunc(AutoDismissAfter, func() {
		coordinator.expire(generation)
	})
	settings := coordinator.settings
	focused := coordinator.focused
	coordinator.emitLocked()
	coordinator.mu.Unlock()

	if settings.AudioEnabled && coordinator.sound != nil {
		coordinator.sound.Play(cycle)
	}
	if settings.SystemEnabled && !focused {
		coordinator.showSystemAlert(message, suggestion)
	}
}

func (coordinator *Coordinator) showSystemAlert(message, suggestion string) {
	alerter := coordinator.alerter
	if alerter == nil || !alerter.Available() {
		return
	}
	if alerter.Permission() != PermissionGranted {
		return
	}
	if err := alerter.Show(message, suggestion); err != nil {
		coordinator.logger.Warn().Err(err).Msg("system alert failed")
	}
}

// Dismiss hides the banner and cancels the pending dismissal.
func (coordinator *Coordinator) Dismiss() {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	if coordinator.closed {
		return
	}
	coordinator.cancelTimerLocked()
	if coordinator.state == (State{}) {
		return
	}
	coordinator.state = State{}
	coordinator.emitLocked()
}

func (coordinator *Coordinator) expire(generation uint64) {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	if coordinator.closed || generation != coordinator.generation {
		return
	}
	coordinator.timer = nil
	coordinator.generation++
	coordinator.state = State{}
	coordinator.emitLocked()
}

// RequestPermission asks for system notification permission. Only an
// undecided permission on a capable platform produces a prompt.
func (coordinator *Coordinator) RequestPermission(ctx context.Context) (bool, error) {
	alerter := coordinator.alerter
	if alerter == nil || !alerter.Available() {
		return false, nil
	}

	coordinator.promptMu.Lock()
	defer coordinator.promptMu.Unlock()

	switch alerter.Permission() {
	case PermissionGranted:
		return true, nil
	case PermissionDenied:
		return false, nil
	}

	permission, err := alerter.Prompt(ctx)
	if err != nil {
		coordinator.logger.Debug().Err(err).Msg("permission prompt failed")
		return false, err
	}
	coordinator.logger.Info().Str("permission", string(permission)).Msg("system alert permission")
	return permission == PermissionGranted, nil
}

// SystemAvailable reports whether system alerts can be shown at all.
func (coordinator *Coordinator) SystemAvailable() bool {
	return coordinator.alerter != nil && coordinator.alerter.Available()
}

// SetFocused records whether the application currently has focus.
func (coordinator *Coordinator) SetFocused(focused bool) {
	coordinator.mu.Lock()
	coordinator.focused = focused
	coordinator.mu.Unlock()
}

// UpdateSettings replaces the alert channel selection.
func (coordinator *Coordinator) UpdateSettings(settings Settings) {
	coordinator.mu.Lock()
	coordinator.settings = settings
	coordinator.mu.Unlock()
}

// Settings returns the alert channel selection.
func (coordinator *Coordinator) Settings() Settings {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.settings
}

// State returns the banner snapshot.
func (coordinator *Coordinator) State() State {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.state
}

// Subscribe registers an observer of banner changes.
func (coordinator *Coordinator) Subscribe(buffer int) <-chan State {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan State, buffer)
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	if coordinator.closed {
		close(ch)
		return ch
	}
	coordinator.events = append(coordinator.events, ch)
	return ch
}

// Close cancels the pending dismissal and closes observers.
func (coordinator *Coordinator) Close() {
	coordinator.mu.Lock()
	if coordinator.closed {
		coordinator.mu.Unlock()
		return
	}
	coordinator.closed = true
	coordinator.cancelTimerLocked()
	events := coordinator.events
	coordinator.events = nil
	coordinator.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (coordinator *Coordinator) cancelTimerLocked() {
	coordinator.generation++
	if coordinator.timer != nil {
		coordinator.timer.Stop()
		coordinator.timer = nil
	}
}

func (coordinator *Coordinator) emitLocked() {
	state := coordinator.state
	for _, ch := range coordinator.events {
		select {
		case ch <- state:
		default:
		}
	}
}
