// Package history records finished cycles and aggregates focus statistics.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"focusloop/internal/core/model"
	"focusloop/internal/storage"
)

// SessionRecord is one finished cycle.
type SessionRecord struct {
	ID              string          `json:"id"`
	CycleType       model.CycleType `json:"cycleType"`
	DurationSeconds int             `json:"durationSeconds"`
	CompletedAt     time.Time       `json:"completedAt"`
}

// Recorder keeps the session history in memory and mirrors it to a store.
// The in-memory sequence stays authoritative when the store fails.
type Recorder struct {
	mu       sync.RWMutex
	sessions []SessionRecord
	store    storage.Store
	clock    clockwork.Clock
	logger   zerolog.Logger
}

// NewRecorder loads the persisted history. Missing or malformed history
// starts empty.
func NewRecorder(store storage.Store, clock clockwork.Clock, logger zerolog.Logger) *Recorder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	recorder := &Recorder{store: store, clock: clock, logger: logger}

	var sessions []SessionRecord
	if store != nil && storage.LoadJSON(store, storage.KeySessionHistory, &sessions, logger) {
		recorder.sessions = sessions
	}
	logger.Debug().Int("sessions", len(recorder.sessions)).Msg("history loaded")
	return recorder
}

// Record appends a finished cycle stamped with the current time and
// persists the whole history.
func (recorder *Recorder) Record(cycle model.CycleType, durationSeconds int) SessionRecord {
	record := SessionRecord{
		ID:              uuid.NewString(),
		CycleType:       cycle,
		DurationSeconds: durationSeconds,
		CompletedAt:     recorder.clock.Now(),
	}

	recorder.mu.Lock()
	recorder.sessions = append(recorder.sessions, record)
	snapshot := append([]SessionRecord(nil), recorder.sessions...)
	recorder.mu.Unlock()

	if recorder.store != nil {
		storage.SaveJSON(recorder.store, storage.KeySessionHistory, snapshot, recorder.logger)
	}
	return record
}

// Sessions returns a copy of the history, oldest first.
func (recorder *Recorder) Sessions() []SessionRecord {
	recorder.mu.RLock()
	defer recorder.mu.RUnlock()
	return append([]SessionRecord(nil), recorder.sessions...)
}

// Summarize aggregates the history for period as of now.
func (recorder *Recorder) Summarize(period Period) Summary {
	recorder.mu.RLock()
	defer recorder.mu.RUnlock()
	return Summarize(recorder.sessions, period, recorder.clock.Now())
}

// DailySeries buckets focus minutes per day for period as of now.
func (recorder *Recorder) DailySeries(period Period) []DailyFocus {
	recorder.mu.RLock()
	defer recorder.mu.RUnlock()
	return DailySeries(recorder.sessions, period, recorder.clock.Now())
}
