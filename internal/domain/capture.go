package domain

import "time"

// TextCommandPrefix marks a capture payload that already holds text and
// must not be sent to speech-to-text.
const TextCommandPrefix = "__TEXT__:"

// CaptureWindow bounds a single listen attempt.
type CaptureWindow struct {
	// Timeout is the maximum wait for speech to start.
	Timeout time.Duration
	// PhraseLimit is the maximum length of the utterance once it started.
	PhraseLimit time.Duration
}

func DefaultCaptureWindow() CaptureWindow {
	return CaptureWindow{
		Timeout:     5 * time.Second,
		PhraseLimit: 8 * time.Second,
	}
}

// TextCommand wraps typed text as a capture payload.
func TextCommand(text string) []byte {
	return []byte(TextCommandPrefix + text)
}

// ParseTextCommand returns the text carried by a payload built with TextCommand.
func ParseTextCommand(data []byte) (string, bool) {
	if len(data) > len(TextCommandPrefix) && string(data[:len(TextCommandPrefix)]) == TextCommandPrefix {
		return string(data[len(TextCommandPrefix):]), true
	}
	return "", false
}
