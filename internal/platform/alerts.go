package platform

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"focusloop/internal/core/notify"
	"focusloop/internal/storage"
)

// Permission prompt text shown by every frontend.
const (
	PermissionPromptTitle    = "Allow notifications"
	PermissionPromptQuestion = "Show a system notification when a timer ends while FocusLoop is in the background?"
)

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, title, question string) (bool, error)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(ctx context.Context, title, question string) (bool, error)

func (fn PromptFunc) Confirm(ctx context.Context, title, question string) (bool, error) {
	return fn(ctx, title, question)
}

// SystemAlerts gates a Notifier behind a persisted user permission.
type SystemAlerts struct {
	notifier Notifier
	store    storage.Store
	logger   zerolog.Logger

	mu         sync.Mutex
	permission notify.Permission
	prompter   Prompter
}

// NewSystemAlerts restores the recorded permission from store.
func NewSystemAlerts(notifier Notifier, store storage.Store, logger zerolog.Logger) *SystemAlerts {
	permission := notify.PermissionDefault
	if store != nil {
		permission = storage.LoadPermission(store, logger)
	}
	return &SystemAlerts{
		notifier:   notifier,
		store:      store,
		logger:     logger,
		permission: permission,
	}
}

// SetPrompter installs the frontend that asks for permission.
func (alerts *SystemAlerts) SetPrompter(prompter Prompter) {
	alerts.mu.Lock()
	alerts.prompter = prompter
	alerts.mu.Unlock()
}

func (alerts *SystemAlerts) Available() bool {
	return alerts.notifier != nil && alerts.notifier.Available()
}

func (alerts *SystemAlerts) Permission() notify.Permission {
	alerts.mu.Lock()
	defer alerts.mu.Unlock()
	return alerts.permission
}

// Prompt asks once and records the answer. A cancelled or failed prompt
// leaves the permission undecided.
func (alerts *SystemAlerts) Prompt(ctx context.Context) (notify.Permission, error) {
	alerts.mu.Lock()
	prompter := alerts.prompter
	alerts.mu.Unlock()
	if prompter == nil {
		return notify.PermissionDefault, notify.ErrPromptUnavailable
	}

	allowed, err := prompter.Confirm(ctx, PermissionPromptTitle, PermissionPromptQuestion)
	if err != nil {
		return notify.PermissionDefault, err
	}

	permission := notify.PermissionDenied
	if allowed {
		permission = notify.PermissionGranted
	}
	alerts.mu.Lock()
	alerts.permission = permission
	alerts.mu.Unlock()
	if alerts.store != nil {
		storage.SavePermission(alerts.store, permission, alerts.logger)
	}
	return permission, nil
}

func (alerts *SystemAlerts) Show(message, suggestion string) error {
	if !alerts.Available() {
		return ErrUnsupported
	}
	return alerts.notifier.Send(message, suggestion)
}
