package terminal

import "context"

// promptRequest is a yes/no question waiting for the user.
type promptRequest struct {
	title    string
	question string
	answer   chan bool
}

// Prompter routes permission questions into the running program as a modal.
type Prompter struct {
	requests chan promptRequest
}

// NewPrompter creates a Prompter. Questions wait until the model shows them.
func NewPrompter() *Prompter {
	return &Prompter{requests: make(chan promptRequest)}
}

// Confirm blocks until the user answers with y or n, or ctx ends.
func (prompter *Prompter) Confirm(ctx context.Context, title, question string) (bool, error) {
	request := promptRequest{title: title, question: question, answer: make(chan bool, 1)}
	select {
	case prompter.requests <- request:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case allowed := <-request.answer:
		return allowed, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
