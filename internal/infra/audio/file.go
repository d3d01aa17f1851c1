package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"first-aid/internal/domain"
)

const pollInterval = 200 * time.Millisecond

// FileSource replays recordings dropped into a directory, one per capture,
// in name order. Consumed files are renamed with a .processed suffix.
// A .txt file is treated as an already transcribed utterance.
type FileSource struct {
	dir       string
	logger    *slog.Logger
	processed map[string]bool
	mu        sync.Mutex
}

func NewFileSource(dir string, logger *slog.Logger) *FileSource {
	return &FileSource{
		dir:       dir,
		logger:    logger,
		processed: make(map[string]bool),
	}
}

func (f *FileSource) Name() string {
	return "file"
}

func (f *FileSource) Start(_ context.Context) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("creating audio dir: %w", err)
	}
	return nil
}

func (f *FileSource) Stop() error {
	return nil
}

// Capture returns the next file, or domain.ErrNoSpeech when none shows up
// within window.Timeout.
func (f *FileSource) Capture(ctx context.Context, window domain.CaptureWindow) ([]byte, error) {
	var deadline <-chan time.Time
	if window.Timeout > 0 {
		timer := time.NewTimer(window.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		data, err := f.checkForNewFile()
		if err != nil {
			return nil, err
		}
		if data != nil {
			return data, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, domain.ErrNoSpeech
		case <-ticker.C:
		}
	}
}

func (f *FileSource) checkForNewFile() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("reading dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".wav", ".mp3", ".txt":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(f.dir, name)
		if f.processed[path] {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", path, err)
		}

		f.processed[path] = true
		if err := os.Rename(path, path+".processed"); err != nil {
			f.logger.Warn("marking file processed", "path", path, "error", err)
		}

		f.logger.Debug("replaying file", "path", path, "bytes", len(data))

		if strings.EqualFold(filepath.Ext(name), ".txt") {
			text := strings.TrimSpace(string(data))
			if text == "" {
				return nil, domain.ErrNoSpeech
			}
			return domain.TextCommand(text), nil
		}
		return data, nil
	}

	return nil, nil
}
