package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"

	"first-aid/config"
	"first-aid/internal/application"
	"first-aid/internal/infra/anthropic"
	"first-aid/internal/infra/audio"
	"first-aid/internal/infra/catalog"
	"first-aid/internal/infra/console"
	"first-aid/internal/infra/espeak"
	"first-aid/internal/infra/gemini"
	"first-aid/internal/infra/gtts"
	"first-aid/internal/infra/nlp"
	"first-aid/internal/infra/openai"
	"first-aid/internal/infra/pushover"
	"first-aid/internal/infra/whisper"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.yaml", "path to config file")
	envFile := pflag.StringP("env", "e", ".env", "path to env file")
	pflag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("loading env file", "path", *envFile, "error", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	injuries, err := catalog.NewLoader(cfg.Catalog.Strict, logger).Load(cfg.Catalog.Path)
	if err != nil {
		logger.Error("loading first-aid catalog", "error", err)
		os.Exit(1)
	}

	source := createAudioSource(cfg, logger)

	stt, closeSTT, err := createSpeechToText(cfg.STT, logger)
	if err != nil {
		logger.Error("creating speech-to-text", "error", err)
		os.Exit(1)
	}
	defer closeSTT()

	listener := application.NewListener(source, stt, logger)
	announcer := application.NewAnnouncer(console.NewDisplay(os.Stdout), createSpeaker(cfg.TTS, logger), logger)

	var matcherOpts []application.MatcherOption
	if lemmatizer, err := nlp.NewLemmatizer(); err != nil {
		logger.Warn("lemmatizer unavailable, matching surface forms only", "error", err)
	} else {
		matcherOpts = append(matcherOpts, application.WithLemmatizer(lemmatizer))
	}
	if cfg.Matcher.Phonetic {
		var phoneticOpts []nlp.PhoneticOption
		if cfg.Matcher.PhoneticThreshold > 0 {
			phoneticOpts = append(phoneticOpts, nlp.WithFuzzyThreshold(cfg.Matcher.PhoneticThreshold))
		}
		matcherOpts = append(matcherOpts, application.WithPhonetic(nlp.NewPhonetic(phoneticOpts...)))
	}
	matcher := application.NewMatcher(injuries, logger, matcherOpts...)

	window := cfg.CaptureWindow()

	sessionOpts := []application.SessionOption{application.WithSessionWindow(window)}
	if cfg.Pushover.Enabled {
		sessionOpts = append(sessionOpts, application.WithAlerter(pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey)))
	}
	session := application.NewInstructionSession(injuries, listener, announcer, logger, sessionOpts...)

	assistantOpts := []application.AssistantOption{application.WithCaptureWindow(window)}
	if classifier := createClassifier(cfg, logger); classifier != nil {
		assistantOpts = append(assistantOpts, application.WithClassifier(classifier))
	}
	assistant := application.NewAssistant(listener, matcher, session, announcer, logger, assistantOpts...)

	if err := source.Start(ctx); err != nil {
		logger.Error("starting audio source", "source", source.Name(), "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := source.Stop(); err != nil {
			logger.Warn("stopping audio source", "error", err)
		}
	}()

	logger.Info("starting first-aid assistant",
		"audio_source", source.Name(),
		"stt", cfg.STT.Provider,
		"tts", cfg.TTS.IsEnabled(),
	)

	if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("assistant error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func createAudioSource(cfg *config.Config, logger *slog.Logger) application.AudioSource {
	switch cfg.Listen.Source {
	case "file":
		return audio.NewFileSource(cfg.Listen.FileDir, logger)
	case "console":
		return audio.NewConsoleSource(os.Stdin, cfg.Listen.ConsoleWait(), logger)
	default:
		return audio.NewMicrophoneSource(audio.MicrophoneConfig{
			SampleRate:  cfg.Listen.SampleRate,
			Pause:       cfg.Listen.PauseDuration(),
			Calibration: cfg.Listen.CalibrationDuration(),
		}, logger)
	}
}

func createSpeechToText(cfg config.STTConfig, logger *slog.Logger) (application.SpeechToText, func(), error) {
	noClose := func() {}

	switch cfg.Provider {
	case "openai":
		return openai.NewTranscriber(openai.Config{
			APIKey:     cfg.OpenAI.APIKey,
			Model:      cfg.OpenAI.Model,
			Language:   cfg.Language,
			BaseURL:    cfg.OpenAI.BaseURL,
			MaxRetries: cfg.OpenAI.MaxRetries,
		}), noClose, nil
	case "whisper-server":
		return whisper.NewServerClient(cfg.ServerURL, cfg.Language), noClose, nil
	case "whisper":
		native, err := whisper.NewNative(cfg.ModelPath, cfg.Language)
		if err != nil {
			return nil, noClose, fmt.Errorf("loading whisper model: %w", err)
		}
		return native, func() {
			if err := native.Close(); err != nil {
				logger.Warn("closing whisper model", "error", err)
			}
		}, nil
	default:
		return &application.NoopSTT{}, noClose, nil
	}
}

func createSpeaker(cfg config.TTSConfig, logger *slog.Logger) application.Speaker {
	if !cfg.IsEnabled() {
		return application.SilentSpeaker{}
	}

	var synths []application.Synthesizer
	for _, name := range cfg.Providers {
		switch name {
		case "gtts":
			if cfg.GTTSURL != "" {
				synths = append(synths, gtts.NewClientWithURL(cfg.GTTSURL, cfg.Language))
			} else {
				synths = append(synths, gtts.NewClient(cfg.Language))
			}
		case "espeak":
			synths = append(synths, espeak.NewSynthesizer(cfg.EspeakPath, cfg.Voice, cfg.Speed))
		}
	}

	return application.NewVoice(application.NewFallbackSynthesizer(logger, synths...), audio.NewPlayer(logger), logger)
}

func createClassifier(cfg *config.Config, logger *slog.Logger) application.InjuryClassifier {
	switch cfg.Matcher.Classifier {
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			logger.Warn("anthropic classifier selected without api key, disabling")
			return nil
		}
		return anthropic.NewClaudeClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			logger.Warn("gemini classifier selected without api key, disabling")
			return nil
		}
		return gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	default:
		return nil
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: level})
	}

	return slog.New(handler)
}
