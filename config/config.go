package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"first-aid/internal/domain"
)

type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Listen    ListenConfig    `yaml:"listen"`
	STT       STTConfig       `yaml:"stt"`
	TTS       TTSConfig       `yaml:"tts"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Pushover  PushoverConfig  `yaml:"pushover"`
	Log       LogConfig       `yaml:"log"`
}

type CatalogConfig struct {
	// Path to a JSON or YAML catalog. Empty uses the built-in one.
	Path   string `yaml:"path"`
	Strict bool   `yaml:"strict"`
}

type ListenConfig struct {
	Source         string `yaml:"source"`
	FileDir        string `yaml:"file_dir"`
	SampleRate     int    `yaml:"sample_rate"`
	Timeout        string `yaml:"timeout"`
	PhraseLimit    string `yaml:"phrase_limit"`
	Pause          string `yaml:"pause"`
	Calibration    string `yaml:"calibration"`
	ConsoleTimeout string `yaml:"console_timeout"`
}

type STTConfig struct {
	Provider  string       `yaml:"provider"`
	Language  string       `yaml:"language"`
	OpenAI    OpenAIConfig `yaml:"openai"`
	ServerURL string       `yaml:"server_url"`
	ModelPath string       `yaml:"model_path"`
}

type OpenAIConfig struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	MaxRetries int    `yaml:"max_retries"`
}

type TTSConfig struct {
	Enabled    *bool    `yaml:"enabled"`
	Providers  []string `yaml:"providers"`
	Language   string   `yaml:"language"`
	GTTSURL    string   `yaml:"gtts_url"`
	EspeakPath string   `yaml:"espeak_path"`
	Voice      string   `yaml:"voice"`
	Speed      int      `yaml:"speed"`
}

type MatcherConfig struct {
	Phonetic bool `yaml:"phonetic"`
	// PhoneticThreshold is the Jaro-Winkler score needed when pronunciation
	// codes differ. Zero keeps the built-in value.
	PhoneticThreshold float64 `yaml:"phonetic_threshold"`
	Classifier        string  `yaml:"classifier"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Enabled bool   `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var (
	sources      = []string{"microphone", "file", "console"}
	sttProviders = []string{"openai", "whisper-server", "whisper", "none"}
	ttsProviders = []string{"gtts", "espeak"}
	classifiers  = []string{"", "anthropic", "gemini"}
	logLevels    = []string{"debug", "info", "warn", "error"}
	logFormats   = []string{"text", "json"}
)

// Load reads path, expands ${VARS} from the environment and fills defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Listen.Source == "" {
		c.Listen.Source = "microphone"
	}
	if c.Listen.FileDir == "" {
		c.Listen.FileDir = "./audio"
	}
	if c.Listen.SampleRate == 0 {
		c.Listen.SampleRate = 16000
	}
	if c.Listen.Timeout == "" {
		c.Listen.Timeout = "5s"
	}
	if c.Listen.PhraseLimit == "" {
		c.Listen.PhraseLimit = "8s"
	}
	if c.Listen.Pause == "" {
		c.Listen.Pause = "2s"
	}
	if c.Listen.Calibration == "" {
		c.Listen.Calibration = "1s"
	}
	if c.Listen.ConsoleTimeout == "" {
		c.Listen.ConsoleTimeout = "0s"
	}
	if c.STT.Provider == "" {
		c.STT.Provider = "openai"
		if c.Listen.Source == "console" {
			c.STT.Provider = "none"
		}
	}
	if c.STT.Language == "" {
		c.STT.Language = "en"
	}
	if c.STT.OpenAI.Model == "" {
		c.STT.OpenAI.Model = "whisper-1"
	}
	if c.STT.OpenAI.MaxRetries == 0 {
		c.STT.OpenAI.MaxRetries = 2
	}
	if c.STT.ServerURL == "" {
		c.STT.ServerURL = "http://127.0.0.1:8080"
	}
	if c.TTS.Enabled == nil {
		enabled := true
		c.TTS.Enabled = &enabled
	}
	if len(c.TTS.Providers) == 0 {
		c.TTS.Providers = []string{"gtts", "espeak"}
	}
	if c.TTS.Language == "" {
		c.TTS.Language = "en"
	}
	if c.TTS.EspeakPath == "" {
		c.TTS.EspeakPath = "espeak-ng"
	}
	if c.TTS.Voice == "" {
		c.TTS.Voice = c.TTS.Language
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = "claude-sonnet-4-20250514"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	oneOf := func(field, value string, allowed []string) {
		if !slices.Contains(allowed, value) {
			errs = append(errs, fmt.Errorf("%s: %q is not one of %v", field, value, allowed))
		}
	}

	oneOf("listen.source", c.Listen.Source, sources)
	oneOf("stt.provider", c.STT.Provider, sttProviders)
	oneOf("matcher.classifier", c.Matcher.Classifier, classifiers)
	oneOf("log.level", c.Log.Level, logLevels)
	oneOf("log.format", c.Log.Format, logFormats)
	for _, p := range c.TTS.Providers {
		oneOf("tts.providers", p, ttsProviders)
	}

	durations := map[string]string{
		"listen.timeout":      c.Listen.Timeout,
		"listen.phrase_limit": c.Listen.PhraseLimit,
		"listen.pause":        c.Listen.Pause,
		"listen.calibration":  c.Listen.Calibration,
	}
	for _, field := range []string{"listen.timeout", "listen.phrase_limit", "listen.pause", "listen.calibration"} {
		if d, err := time.ParseDuration(durations[field]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		} else if d <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive", field))
		}
	}
	if d, err := time.ParseDuration(c.Listen.ConsoleTimeout); err != nil {
		errs = append(errs, fmt.Errorf("listen.console_timeout: %w", err))
	} else if d < 0 {
		errs = append(errs, errors.New("listen.console_timeout: must not be negative"))
	}

	if c.Matcher.PhoneticThreshold < 0 || c.Matcher.PhoneticThreshold > 1 {
		errs = append(errs, errors.New("matcher.phonetic_threshold: must be between 0 and 1"))
	}
	if c.Listen.SampleRate <= 0 {
		errs = append(errs, errors.New("listen.sample_rate: must be positive"))
	}
	if c.STT.Provider == "whisper" && c.STT.ModelPath == "" {
		errs = append(errs, errors.New("stt.model_path: required for the whisper provider"))
	}
	if c.Pushover.Enabled && (c.Pushover.Token == "" || c.Pushover.UserKey == "") {
		errs = append(errs, errors.New("pushover: token and user_key are required when enabled"))
	}

	return errors.Join(errs...)
}

// CaptureWindow returns the listen bounds. Call after Validate.
func (c *Config) CaptureWindow() domain.CaptureWindow {
	return domain.CaptureWindow{
		Timeout:     mustDuration(c.Listen.Timeout),
		PhraseLimit: mustDuration(c.Listen.PhraseLimit),
	}
}

func (l ListenConfig) PauseDuration() time.Duration       { return mustDuration(l.Pause) }
func (l ListenConfig) CalibrationDuration() time.Duration { return mustDuration(l.Calibration) }
func (l ListenConfig) ConsoleWait() time.Duration         { return mustDuration(l.ConsoleTimeout) }

func (t TTSConfig) IsEnabled() bool {
	return t.Enabled == nil || *t.Enabled
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
