// Package config loads snek's settings from an optional YAML file, a .env
// file and SNEK_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "go.yaml.in/yaml/v3"
)

// Host names.
const (
	HostWindow   = "window"
	HostTerminal = "terminal"
)

// ErrInvalid wraps every validation and parse failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full set of snek settings.
type Config struct {
	Board BoardConfig `yaml:"board"`
	Loop  LoopConfig  `yaml:"loop"`
	Host  string      `yaml:"host"`
	Log   LogConfig   `yaml:"log"`

	// Overlay shows the frame stats panel in window mode.
	Overlay bool `yaml:"overlay"`
}

// BoardConfig sizes the board. A zero Seed picks a random one.
type BoardConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	CellSize int    `yaml:"cell_size"`
	Seed     uint64 `yaml:"seed"`
}

// LoopConfig holds the step interval and the terminal refresh period as
// duration strings.
type LoopConfig struct {
	StepIntervalRaw string `yaml:"step_interval"`
	RefreshRaw      string `yaml:"refresh"`

	// Parsed by Validate.
	StepInterval time.Duration `yaml:"-"`
	Refresh      time.Duration `yaml:"-"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Board: BoardConfig{Width: 32, Height: 32, CellSize: 10},
		Loop: LoopConfig{
			StepIntervalRaw: "100ms",
			RefreshRaw:      "16ms",
		},
		Host: HostWindow,
		Log:  LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads path (skipped when empty), then .env, then the environment,
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("yaml decode: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from SNEK_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"SNEK_BOARD_WIDTH":  &c.Board.Width,
		"SNEK_BOARD_HEIGHT": &c.Board.Height,
		"SNEK_CELL_SIZE":    &c.Board.CellSize,
	}
	for key, dst := range ints {
		raw, ok := lookup(key)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %w", ErrInvalid, key, err)
		}
		*dst = v
	}

	if raw, ok := lookup("SNEK_SEED"); ok {
		v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SNEK_SEED must be an unsigned integer: %w", ErrInvalid, err)
		}
		c.Board.Seed = v
	}

	if raw, ok := lookup("SNEK_OVERLAY"); ok {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: SNEK_OVERLAY must be a boolean: %w", ErrInvalid, err)
		}
		c.Overlay = v
	}

	strs := map[string]*string{
		"SNEK_STEP_INTERVAL": &c.Loop.StepIntervalRaw,
		"SNEK_REFRESH":       &c.Loop.RefreshRaw,
		"SNEK_HOST":          &c.Host,
		"SNEK_LOG_LEVEL":     &c.Log.Level,
		"SNEK_LOG_FORMAT":    &c.Log.Format,
	}
	for key, dst := range strs {
		if raw, ok := lookup(key); ok {
			*dst = strings.TrimSpace(raw)
		}
	}
	return nil
}

// Validate checks ranges and parses the duration fields.
func (c *Config) Validate() error {
	var err error
	if c.Loop.StepInterval, err = parsePositiveDuration("loop.step_interval", c.Loop.StepIntervalRaw); err != nil {
		return err
	}
	if c.Loop.Refresh, err = parsePositiveDuration("loop.refresh", c.Loop.RefreshRaw); err != nil {
		return err
	}

	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("%w: board must be positive, got %dx%d", ErrInvalid, c.Board.Width, c.Board.Height)
	}
	if c.Board.CellSize <= 0 {
		return fmt.Errorf("%w: board.cell_size must be positive", ErrInvalid)
	}

	switch c.Host {
	case HostWindow, HostTerminal:
	default:
		return fmt.Errorf("%w: host must be %q or %q, got %q", ErrInvalid, HostWindow, HostTerminal, c.Host)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format must be console or json, got %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

func parsePositiveDuration(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: invalid duration %q: %w", ErrInvalid, path, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s: duration must be > 0", ErrInvalid, path)
	}
	return d, nil
}
