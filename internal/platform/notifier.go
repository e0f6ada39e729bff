package platform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnsupported indicates the feature is not available on this system.
var ErrUnsupported = errors.New("unsupported on this platform")

const notifyTimeout = 10 * time.Second

// Notifier delivers a desktop notification.
type Notifier interface {
	Available() bool
	Send(title, body string) error
}

// CommandNotifier sends notifications with notify-send or osascript.
type CommandNotifier struct {
	appName string
	path    string
	args    func(appName, title, body string) []string
	logger  zerolog.Logger
}

// NewCommandNotifier looks up the platform notification command.
func NewCommandNotifier(appName string, logger zerolog.Logger) *CommandNotifier {
	notifier := &CommandNotifier{appName: appName, logger: logger}
	name, args := notificationCommand()
	if name == "" {
		return notifier
	}
	path, err := exec.LookPath(name)
	if err != nil {
		logger.Info().Str("command", name).Msg("notification command not found")
		return notifier
	}
	notifier.path = path
	notifier.args = args
	return notifier
}

func (notifier *CommandNotifier) Available() bool {
	return notifier.path != ""
}

// Send starts the notification command and returns without waiting for it.
func (notifier *CommandNotifier) Send(title, body string) error {
	if !notifier.Available() {
		return ErrUnsupported
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	command := exec.CommandContext(ctx, notifier.path, notifier.args(notifier.appName, title, body)...)
	var stderr strings.Builder
	command.Stderr = &stderr
	if err := command.Start(); err != nil {
		cancel()
		return fmt.Errorf("start notification command: %w", err)
	}

	go func() {
		defer cancel()
		if err := command.Wait(); err != nil {
			notifier.logger.Warn().Err(err).Str("stderr", strings.TrimSpace(stderr.String())).Msg("notification command failed")
		}
	}()
	return nil
}

func appleScriptEscape(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `"`, `\"`)
}
