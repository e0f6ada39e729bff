package preferences

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"focusloop/internal/controller"
	"focusloop/internal/core/model"
	"focusloop/internal/core/notify"
)

// Controller is the part of the application the preferences window edits.
type Controller interface {
	TimerSettings() model.TimerSettings
	CommitMinutes(cycle model.CycleType, text string) int
	NotificationSettings() notify.Settings
	SetAudioEnabled(enabled bool)
	SetSystemAlertsEnabled(ctx context.Context, enabled bool) (bool, error)
	SystemAlertsAvailable() bool
}

const unitLabel = "min"

// PreviewHint describes what typed text will commit to. It is empty when the
// text is already a valid value.
func PreviewHint(text string) string {
	text = strings.TrimSpace(text)
	minutes, ok := controller.PreviewMinutes(text)
	if !ok {
		return fmt.Sprintf("%s (uses %d)", unitLabel, model.MinMinutes)
	}
	if strconv.Itoa(minutes) == text {
		return unitLabel
	}
	return fmt.Sprintf("%s (uses %d)", unitLabel, minutes)
}

func minutesText(settings model.TimerSettings, cycle model.CycleType) string {
	return strconv.Itoa(settings.Minutes(cycle))
}
