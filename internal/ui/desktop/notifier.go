package desktop

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// Notifier sends system notifications through fyne.
type Notifier struct {
	app fyne.App
}

// NewNotifier wraps app.
func NewNotifier(app fyne.App) *Notifier {
	return &Notifier{app: app}
}

func (notifier *Notifier) Available() bool {
	return notifier.app != nil
}

func (notifier *Notifier) Send(title, body string) error {
	notifier.app.SendNotification(fyne.NewNotification(title, body))
	return nil
}

// Prompter asks yes/no questions with a confirm dialog over parent.
type Prompter struct {
	parent func() fyne.Window
}

// Confirm shows the dialog on the fyne goroutine and waits for the answer.
// It must not be called from the fyne goroutine itself.
func (prompter *Prompter) Confirm(ctx context.Context, title, question string) (bool, error) {
	answer := make(chan bool, 1)
	fyne.Do(func() {
		parent := prompter.parent()
		parent.Show()
		dialog.ShowConfirm(title, question, func(allowed bool) {
			answer <- allowed
		}, parent)
	})

	select {
	case allowed := <-answer:
		return allowed, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
