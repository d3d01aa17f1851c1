package domain

import "errors"

// Capture outcomes. A listen attempt either yields text or one of these.
var (
	ErrNoSpeech           = errors.New("no speech detected")
	ErrUnintelligible     = errors.New("speech not understood")
	ErrServiceUnavailable = errors.New("speech service unavailable")
	ErrCaptureFailed      = errors.New("audio capture failed")
	// ErrSourceClosed means the input will never produce anything again.
	ErrSourceClosed = errors.New("audio source closed")
)

var (
	ErrSynthesis      = errors.New("speech synthesis failed")
	ErrUnknownInjury  = errors.New("unknown injury")
	ErrNoInstructions = errors.New("injury has no instructions")
)
