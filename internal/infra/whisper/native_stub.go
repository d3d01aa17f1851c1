//go:build !whisper

package whisper

import (
	"context"
	"errors"
)

// Native stub when whisper.cpp is not linked in.
type Native struct{}

func NewNative(_, _ string) (*Native, error) {
	return nil, errors.New("native whisper not available: rebuild with -tags whisper")
}

func (n *Native) Close() error { return nil }

func (n *Native) Transcribe(_ context.Context, _ []byte) (string, error) {
	return "", errors.New("native whisper not available")
}
