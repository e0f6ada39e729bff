package notify

import "focusloop/internal/core/model"

type messagePair struct {
	message    string
	suggestion string
}

var messages = map[model.CycleType]messagePair{
	model.CycleWork: {
		message:    "Work session complete! Time for a break.",
		suggestion: "Start your short break",
	},
	model.CycleShortBreak: {
		message:    "Short break complete! Back to work.",
		suggestion: "Start your next work session",
	},
	model.CycleLongBreak: {
		message:    "Long break complete! Ready for a new session.",
		suggestion: "Start a fresh work session",
	},
}

// MessageFor returns the banner text shown when cycle finishes.
func MessageFor(cycle model.CycleType) (message, suggestion string) {
	pair, ok := messages[cycle]
	if !ok {
		return "", ""
	}
	return pair.message, pair.suggestion
}
