package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	Title = "NERO"

	WindowWidth     = 950
	WindowHeight    = 650
	VisualizerWidth = 500 // the ring sits on the left, the transcript on the right
	ChatWidth       = WindowWidth - VisualizerWidth
	TitleBarHeight  = 35

	MaxVisibleMessages = 12

	VisualRingSize = 8192

	// Visualization parameters
	BarCount     = 90
	BarRadius    = 150
	BarMinHeight = 10
	BarMaxHeight = 160
	BarThickness = 7

	TPS = 60

	// Center glow around the ring
	GlowRadius   = 120
	GlowPulse    = 25
	LevelSamples = 2048

	// Simulated turn timings used when no speech backend is attached
	ListenDuration = 2 * time.Second
	ThinkDuration  = 1500 * time.Millisecond
	SpeakDuration  = 3 * time.Second
)

// Environment variables read by Load.
const (
	EnvBars   = "NERO_BARS"
	EnvTPS    = "NERO_TPS"
	EnvReply  = "NERO_REPLY"
	EnvListen = "NERO_LISTEN"
	EnvThink  = "NERO_THINK"
	EnvSpeak  = "NERO_SPEAK"
	EnvSay    = "NERO_SAY" // scripted utterances separated by "|"
)

// Config is the runtime configuration. Zero values are not meaningful; start from Default.
type Config struct {
	Bars   int
	TPS    int
	Reply  string // audio file played while speaking; empty means a timed silent turn
	Listen time.Duration
	Think  time.Duration
	Speak  time.Duration
	Seed   int64 // 0 seeds from the clock

	// Utterances are heard in order by the scripted listener; nil uses its defaults.
	Utterances []string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Bars:   BarCount,
		TPS:    TPS,
		Listen: ListenDuration,
		Think:  ThinkDuration,
		Speak:  SpeakDuration,
	}
}

// LoadEnvFile loads key=value pairs from path into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load returns Default overridden by any NERO_* environment variables.
func Load() (Config, error) {
	cfg := Default()

	if err := envInt(EnvBars, &cfg.Bars); err != nil {
		return cfg, err
	}
	if err := envInt(EnvTPS, &cfg.TPS); err != nil {
		return cfg, err
	}
	if v, ok := os.LookupEnv(EnvReply); ok {
		cfg.Reply = v
	}
	if v, ok := os.LookupEnv(EnvSay); ok && strings.TrimSpace(v) != "" {
		cfg.Utterances = splitUtterances(v)
	}
	if err := envDuration(EnvListen, &cfg.Listen); err != nil {
		return cfg, err
	}
	if err := envDuration(EnvThink, &cfg.Think); err != nil {
		return cfg, err
	}
	if err := envDuration(EnvSpeak, &cfg.Speak); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.Bars < 1:
		return fmt.Errorf("bars must be positive, got %d", c.Bars)
	case c.TPS < 1:
		return fmt.Errorf("tps must be positive, got %d", c.TPS)
	case c.Listen < 0 || c.Think < 0 || c.Speak < 0:
		return errors.New("turn durations must not be negative")
	}
	return nil
}

func splitUtterances(v string) []string {
	var out []string
	for _, part := range strings.Split(v, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
