package notify

//go:generate mockgen -source=collaborators.go -destination=mock_collaborators_test.go -package=notify

import (
	"context"
	"errors"

	"focusloop/internal/core/model"
)

// ErrPromptUnavailable is returned when no frontend can ask the user.
var ErrPromptUnavailable = errors.New("permission prompt unavailable")

// Permission is the user's decision about system notifications.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission maps unknown values to PermissionDefault.
func ParsePermission(value string) Permission {
	switch Permission(value) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionDefault
	}
}

// SoundPlayer plays the completion chime for a cycle. Play must not block.
type SoundPlayer interface {
	Play(cycle model.CycleType)
}

// SystemAlerter shows notifications outside the application window.
type SystemAlerter interface {
	// Available reports whether the platform can show system notifications.
	Available() bool
	// Permission returns the last recorded decision.
	Permission() Permission
	// Prompt asks the user once and records the outcome.
	Prompt(ctx context.Context) (Permission, error)
	// Show displays a notification. It must not block on the user.
	Show(message, suggestion string) error
}
