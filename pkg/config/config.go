// Package config loads the optional accumap configuration file.
//
// The file is TOML with two sections:
//
//	[plot]
//	colors = ["red", "blue"]
//	background = "white"
//	accuracy = "phred"
//	normalize = true
//	threads = 8
//	output = "heatmap.png"
//
//	[cache]
//	enabled = true
//	dir = "/var/cache/accumap"
//	redis_url = "redis://localhost:6379/0"
//	namespace = "lab"
//	ttl = "72h"
//
// Every key is optional. Command-line flags override file values.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/accumap/pkg/cache"
	"github.com/matzehuels/accumap/pkg/errors"
)

// DefaultOutput is the image written when no output path is configured.
const DefaultOutput = "accuracy_heatmap.png"

// Config is the decoded configuration file.
type Config struct {
	Plot  Plot  `toml:"plot"`
	Cache Cache `toml:"cache"`
}

// Plot holds rendering defaults.
type Plot struct {
	Colors     []string `toml:"colors"`
	Background string   `toml:"background"`
	Accuracy   string   `toml:"accuracy"`
	Normalize  bool     `toml:"normalize"`
	Basecall   bool     `toml:"basecall"`
	Threads    int      `toml:"threads"`
	Output     string   `toml:"output"`
}

// Cache holds histogram cache settings.
type Cache struct {
	Enabled   bool   `toml:"enabled"`
	Dir       string `toml:"dir"`
	RedisURL  string `toml:"redis_url"`
	Namespace string `toml:"namespace"`
	TTL       string `toml:"ttl"`
}

// TTLDuration parses the TTL, falling back to cache.TTLHistogram when unset.
func (c Cache) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return cache.TTLHistogram, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeConfig, err, "invalid cache ttl %q", c.TTL)
	}
	if d <= 0 {
		return 0, errors.New(errors.ErrCodeConfig, "cache ttl must be positive, got %s", c.TTL)
	}
	return d, nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Plot: Plot{
			Background: "black",
			Accuracy:   "percent",
			Threads:    4,
			Output:     DefaultOutput,
		},
		Cache: Cache{
			Enabled: true,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/accumap/config.toml (or the platform
// equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "accumap", "config.toml"), nil
}

// Load reads the configuration at path over the defaults.
//
// An empty path selects DefaultPath, and a missing default file yields the
// defaults. An explicitly named file must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeIO, err, "cannot read config %s", path)
	}
	return Parse(data, path)
}

// Parse decodes TOML data over the defaults. Unknown keys are rejected so a
// misspelt option does not silently fall back to its default.
func Parse(data []byte, name string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "invalid config %s", name)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeConfig, "unknown keys in %s: %s", name, strings.Join(keys, ", "))
	}
	if cfg.Plot.Threads < 0 {
		return Config{}, errors.New(errors.ErrCodeConfig, "threads must not be negative, got %d", cfg.Plot.Threads)
	}
	if _, err := cfg.Cache.TTLDuration(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
