package audio

import "time"

// MicrophoneConfig tunes live capture.
type MicrophoneConfig struct {
	SampleRate int
	// Pause is the silence that ends an utterance.
	Pause time.Duration
	// Calibration is how long ambient noise is sampled before each capture.
	Calibration time.Duration
}

func (c MicrophoneConfig) withDefaults() MicrophoneConfig {
	if c.SampleRate == 0 {
		c.SampleRate = 16000
	}
	if c.Pause == 0 {
		c.Pause = 2 * time.Second
	}
	if c.Calibration == 0 {
		c.Calibration = time.Second
	}
	return c
}
