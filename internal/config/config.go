package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/kk-code-lab/rfind/internal/debuglog"
	"github.com/kk-code-lab/rfind/internal/find"
	"github.com/kk-code-lab/rfind/internal/textutil"
)

// ErrInvalid marks a config that parsed but holds unusable values.
var ErrInvalid = errors.New("invalid config")

// Config is the user configuration.
type Config struct {
	Find  FindSettings      `toml:"find"`
	View  ViewSettings      `toml:"view"`
	Theme map[string]string `toml:"theme"`
}

// FindSettings tune the find engine. Durations are in milliseconds.
type FindSettings struct {
	MaxHighlights    int     `toml:"max_highlights"`
	ChunkSize        int     `toml:"chunk_size"`
	StartDelayMS     int     `toml:"start_delay_ms"`
	ScrollDurationMS int     `toml:"scroll_duration_ms"`
	ScrollOffsetY    float64 `toml:"scroll_offset_y"`
}

// ViewSettings control the viewer.
type ViewSettings struct {
	Wrap     bool `toml:"wrap"`
	TabWidth int  `toml:"tab_width"`
	// ReloadDebounceMS is how long file events settle before a reload.
	ReloadDebounceMS int  `toml:"reload_debounce_ms"`
	Watch            bool `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Find: FindSettings{
			MaxHighlights:    find.DefaultMaxHighlights,
			ChunkSize:        find.DefaultChunkSize,
			StartDelayMS:     int(find.DefaultStartDelay / time.Millisecond),
			ScrollDurationMS: int(find.DefaultScrollDuration / time.Millisecond),
			ScrollOffsetY:    find.DefaultScrollOffsetY,
		},
		View: ViewSettings{
			Wrap:             true,
			TabWidth:         textutil.DefaultTabWidth,
			ReloadDebounceMS: 150,
			Watch:            true,
		},
	}
}

// Path resolves which config file to read: the explicit flag value, then
// $RFIND_CONFIG, then rfind/config.toml under the user config directory.
// It returns "" when no location applies.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("RFIND_CONFIG"); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rfind", "config.toml")
}

// Load reads the config at path over the defaults and applies environment
// overrides. A missing file is not an error unless it was named explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			debuglog.Printf("config: %s not found, using defaults", path)
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	applyEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v, ok := envInt(getenv, "RFIND_MAX_HIGHLIGHTS"); ok {
		cfg.Find.MaxHighlights = v
	}
	if v, ok := envInt(getenv, "RFIND_CHUNK_SIZE"); ok {
		cfg.Find.ChunkSize = v
	}
	if getenv("RFIND_NO_WRAP") == "1" {
		cfg.View.Wrap = false
	}
}

func envInt(getenv func(string) string, key string) (int, bool) {
	raw := getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		debuglog.Printf("config: ignoring %s=%q: %v", key, raw, err)
		return 0, false
	}
	return v, true
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Find.MaxHighlights <= 0:
		return fmt.Errorf("%w: find.max_highlights must be positive, got %d", ErrInvalid, c.Find.MaxHighlights)
	case c.Find.ChunkSize <= 0:
		return fmt.Errorf("%w: find.chunk_size must be positive, got %d", ErrInvalid, c.Find.ChunkSize)
	case c.Find.StartDelayMS < 0:
		return fmt.Errorf("%w: find.start_delay_ms must not be negative", ErrInvalid)
	case c.Find.ScrollDurationMS < 0:
		return fmt.Errorf("%w: find.scroll_duration_ms must not be negative", ErrInvalid)
	case c.View.TabWidth <= 0:
		return fmt.Errorf("%w: view.tab_width must be positive, got %d", ErrInvalid, c.View.TabWidth)
	case c.View.ReloadDebounceMS < 0:
		return fmt.Errorf("%w: view.reload_debounce_ms must not be negative", ErrInvalid)
	}
	for name, value := range c.Theme {
		if tcell.GetColor(value) == tcell.ColorDefault && value != "default" {
			return fmt.Errorf("%w: theme.%s: unknown color %q", ErrInvalid, name, value)
		}
	}
	return nil
}

// FindOptions converts the find settings to engine options.
func (c Config) FindOptions() find.Options {
	return find.Options{
		MaxHighlights:  c.Find.MaxHighlights,
		ChunkSize:      c.Find.ChunkSize,
		StartDelay:     millisOrImmediate(c.Find.StartDelayMS),
		ScrollDuration: millisOrImmediate(c.Find.ScrollDurationMS),
		ScrollOffsetY:  c.Find.ScrollOffsetY,
	}
}

// A configured 0 turns the wait off; the engine reads a zero Duration as
// "use the default".
func millisOrImmediate(ms int) time.Duration {
	if ms == 0 {
		return find.Immediate
	}
	return time.Duration(ms) * time.Millisecond
}

// ReloadDebounce returns the live reload settle time.
func (c Config) ReloadDebounce() time.Duration {
	return time.Duration(c.View.ReloadDebounceMS) * time.Millisecond
}
