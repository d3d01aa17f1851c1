package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// PCM is mono audio as float32 samples in [-1, 1].
type PCM struct {
	Samples    []float32
	SampleRate int
}

func (p PCM) Duration() float64 {
	if p.SampleRate == 0 {
		return 0
	}
	return float64(len(p.Samples)) / float64(p.SampleRate)
}

// Decode turns a WAV or MP3 clip into mono PCM at its native rate.
func Decode(data []byte) (PCM, error) {
	if len(data) < 4 {
		return PCM{}, errors.New("audio clip too short")
	}

	switch {
	case string(data[:4]) == "RIFF":
		return decodeWAV(bytes.NewReader(data))
	case string(data[:3]) == "ID3", data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return decodeMP3(bytes.NewReader(data))
	default:
		return PCM{}, fmt.Errorf("unsupported audio format (magic %q)", data[:4])
	}
}

func decodeWAV(r io.ReadSeeker) (PCM, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return PCM{}, errors.New("invalid wav")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return PCM{}, fmt.Errorf("reading wav samples: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return PCM{}, errors.New("empty wav")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	channels, sampleRate := 1, int(dec.SampleRate)
	if buf.Format != nil {
		if buf.Format.NumChannels > 0 {
			channels = buf.Format.NumChannels
		}
		if buf.Format.SampleRate > 0 {
			sampleRate = buf.Format.SampleRate
		}
	}

	samples := downmix(intsToFloat32(buf.Data, bitDepth), channels)
	return PCM{Samples: samples, SampleRate: sampleRate}, nil
}

func decodeMP3(r io.Reader) (PCM, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return PCM{}, fmt.Errorf("opening mp3: %w", err)
	}

	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return PCM{}, fmt.Errorf("decoding mp3: %w", err)
	}

	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(bytes.NewReader(raw.Bytes()), binary.LittleEndian, &ints); err != nil {
		return PCM{}, fmt.Errorf("reading mp3 samples: %w", err)
	}

	// go-mp3 always produces interleaved 16-bit stereo.
	samples := downmix(int16sToFloat32(ints), 2)
	return PCM{Samples: samples, SampleRate: dec.SampleRate()}, nil
}

// Resample converts p to rate with linear interpolation.
func Resample(p PCM, rate int) PCM {
	if p.SampleRate == rate || len(p.Samples) == 0 || p.SampleRate <= 0 {
		return PCM{Samples: p.Samples, SampleRate: rate}
	}

	ratio := float64(rate) / float64(p.SampleRate)
	n := int(math.Ceil(float64(len(p.Samples)) * ratio))
	out := make([]float32, n)

	for i := range out {
		src := float64(i) / ratio
		i0 := int(math.Floor(src))
		if i0 >= len(p.Samples)-1 {
			out[i] = p.Samples[len(p.Samples)-1]
			continue
		}
		frac := float32(src - float64(i0))
		out[i] = p.Samples[i0]*(1-frac) + p.Samples[i0+1]*frac
	}

	return PCM{Samples: out, SampleRate: rate}
}

func rms(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, x := range frame {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func intsToFloat32(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range data {
		out[i] = float32(clamp(float64(v)*scale, -1, 1))
	}
	return out
}

func int16sToFloat32(data []int16) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v) / 32768
	}
	return out
}

func downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	frames := len(in) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(in[i*channels+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
