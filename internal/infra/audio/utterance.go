package audio

import (
	"context"
	"fmt"
	"math"

	"first-aid/internal/domain"
)

const (
	// minEnergy keeps the threshold usable in a perfectly silent room.
	minEnergy = 0.01
	// energyRatio is how far speech must rise above the ambient level.
	energyRatio = 1.5
)

// frameReader returns the next block of input samples. The slice may be
// overwritten by the following call.
type frameReader func() ([]float32, error)

// measureThreshold samples ambient noise for the given number of frames and
// returns the energy speech has to exceed.
func measureThreshold(next frameReader, frames int) (float64, error) {
	if frames <= 0 {
		return minEnergy, nil
	}

	var total float64
	for i := 0; i < frames; i++ {
		frame, err := next()
		if err != nil {
			return 0, fmt.Errorf("calibrating: %w", err)
		}
		total += rms(frame)
	}
	return math.Max(minEnergy, total/float64(frames)*energyRatio), nil
}

// utterance bounds one recording. Counts are in frames; zero onset or limit
// means unbounded.
type utterance struct {
	threshold float64
	onset     int
	limit     int
	pause     int
}

// record waits for speech onset, then keeps frames until a pause of silence
// or the phrase limit.
func (u utterance) record(ctx context.Context, next frameReader) ([]float32, error) {
	var (
		out      []float32
		speaking bool
		waited   int
		spoken   int
		silent   int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := next()
		if err != nil {
			return nil, err
		}

		loud := rms(frame) > u.threshold

		if !speaking {
			if !loud {
				waited++
				if u.onset > 0 && waited >= u.onset {
					return nil, domain.ErrNoSpeech
				}
				continue
			}
			speaking = true
		}

		out = append(out, frame...)
		spoken++

		if loud {
			silent = 0
		} else {
			silent++
		}

		if silent >= u.pause || (u.limit > 0 && spoken >= u.limit) {
			return out, nil
		}
	}
}
