// Package config resolves plexport settings from defaults, a TOML file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	tomlenc "github.com/pelletier/go-toml/v2"

	"github.com/jacobfholland/plexport/internal/tabular"
)

const (
	appName = "plexport"

	// LocalFile is read from the working directory after the user config
	LocalFile = "plexport.toml"

	// AllSections in the section list means no filtering
	AllSections = "all_sections"

	SourceAPI      = "api"
	SourceDatabase = "database"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

var logLevels = []string{"trace", "debug", "info", "warn", "warning", "error"}

// Plex selects and configures the library source
type Plex struct {
	Source         string `koanf:"source" toml:"source"` // "api" or "database"
	URL            string `koanf:"url" toml:"url"`
	Token          string `koanf:"token" toml:"token"`
	Database       string `koanf:"database" toml:"database"` // path to com.plexapp.plugins.library.db
	TimeoutSeconds int    `koanf:"timeout_seconds" toml:"timeout_seconds"`
}

// Export controls what is written where
type Export struct {
	Dir      string   `koanf:"dir" toml:"dir"`
	Format   string   `koanf:"format" toml:"format"`
	Sections []string `koanf:"sections" toml:"sections"` // empty means every section
}

// Log controls the log file and verbosity
type Log struct {
	Dir   string `koanf:"dir" toml:"dir"`
	Level string `koanf:"level" toml:"level"`
}

// Config is built once at startup and not modified afterwards
type Config struct {
	Plex   Plex   `koanf:"plex" toml:"plex"`
	Export Export `koanf:"export" toml:"export"`
	Log    Log    `koanf:"log" toml:"log"`
}

// Default returns the settings used when nothing else is configured
func Default() Config {
	return Config{
		Plex: Plex{
			Source:         SourceAPI,
			TimeoutSeconds: 10,
		},
		Export: Export{
			Dir:    "exports",
			Format: "csv",
		},
		Log: Log{
			Dir:   "logs",
			Level: "info",
		},
	}
}

// Timeout is the per-request timeout for the Plex API
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Plex.TimeoutSeconds) * time.Second
}

// UserFile is the per-user config file path
func UserFile() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// envKeys maps the environment variables we honour to config keys
var envKeys = map[string]string{
	"PLEX_SOURCE":   "plex.source",
	"PLEX_URL":      "plex.url",
	"PLEX_TOKEN":    "plex.token",
	"PLEX_DB":       "plex.database",
	"PLEX_TIMEOUT":  "plex.timeout_seconds",
	"EXPORT_DIR":    "export.dir",
	"EXPORT_FORMAT": "export.format",
	"SECTIONS":      "export.sections",
	"LOG_DIR":       "log.dir",
	"LOG_LEVEL":     "log.level",
}

// LoadOptions controls where Load looks
type LoadOptions struct {
	// Path is an explicit config file; when set it must exist and the
	// default locations are not read
	Path string
	// Overrides are applied last, keyed like "export.dir"
	Overrides map[string]any
}

// Load resolves the configuration. The result is normalised but not
// validated.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(opts.Path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", opts.Path, err)
		}
	} else {
		for _, path := range []string{UserFile(), LocalFile} {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	err := k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		key, ok := envKeys[name]
		if !ok {
			return "", nil
		}
		if key == "export.sections" {
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("apply %s: %w", key, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Plex.Source = strings.ToLower(strings.TrimSpace(c.Plex.Source))
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	c.Plex.Database = expandPath(strings.TrimSpace(c.Plex.Database))
	c.Export.Dir = expandPath(strings.TrimSpace(c.Export.Dir))
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	c.Export.Sections = ParseSections(c.Export.Sections...)
	c.Log.Dir = expandPath(strings.TrimSpace(c.Log.Dir))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// ParseSections splits comma separated section lists, trims names and
// drops empties. A list containing AllSections means no filter (nil).
func ParseSections(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if name == AllSections {
				return nil
			}
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}

// Validate reports every problem at once
func (c *Config) Validate() error {
	var problems []string

	switch c.Plex.Source {
	case SourceAPI:
		if c.Plex.URL == "" {
			problems = append(problems, "plex.url is required (PLEX_URL)")
		}
		if c.Plex.Token == "" {
			problems = append(problems, "plex.token is required (PLEX_TOKEN)")
		}
		if c.Plex.TimeoutSeconds <= 0 {
			problems = append(problems, "plex.timeout_seconds must be positive")
		}
	case SourceDatabase:
		if c.Plex.Database == "" {
			problems = append(problems, "plex.database is required (PLEX_DB)")
		}
	default:
		problems = append(problems, fmt.Sprintf("plex.source must be %q or %q, got %q", SourceAPI, SourceDatabase, c.Plex.Source))
	}

	if c.Export.Dir == "" {
		problems = append(problems, "export.dir is required (EXPORT_DIR)")
	}
	if _, err := tabular.Lookup(c.Export.Format); err != nil {
		problems = append(problems, fmt.Sprintf("export.format: %v (supported: %s)", err, strings.Join(tabular.Names(), ", ")))
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		problems = append(problems, fmt.Sprintf("log.level must be one of %s, got %q", strings.Join(logLevels, ", "), c.Log.Level))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// Save writes the configuration as TOML, readable only by the owner since
// it holds the Plex token
func (c Config) Save(path string) error {
	data, err := tomlenc.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
