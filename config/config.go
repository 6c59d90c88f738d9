package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the editor configuration.
type Config struct {
	Editor  EditorConfig  `yaml:"editor"`
	Store   StoreConfig   `yaml:"store"`
	Spell   SpellConfig   `yaml:"spell"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// EditorConfig configures edit sessions and views.
type EditorConfig struct {
	Indent       int  `yaml:"indent"`        // print-indent default
	ShowID       bool `yaml:"show_id"`       // showId of newly loaded files
	RecordFailed bool `yaml:"record_failed"` // keep failed commands in the undo history
	StrictIDs    bool `yaml:"strict_ids"`    // reject duplicate ids
	RestoreState bool `yaml:"restore_state"` // reopen the last session on start
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend       string `yaml:"backend"` // file, memory, sqlite, firestore
	Dir           string `yaml:"dir"`
	StateFile     string `yaml:"state_file"`
	SQLitePath    string `yaml:"sqlite_path"`
	Project       string `yaml:"firestore_project"`
	Collection    string `yaml:"firestore_collection"`
	FlushInterval string `yaml:"flush_interval"` // write-behind cache; empty disables it
}

// SpellConfig configures the spell checker.
type SpellConfig struct {
	Dictionary string `yaml:"dictionary"` // word list file; empty uses the built-in list
	MarkTree   bool   `yaml:"mark_tree"`  // mark misspelled nodes in print-tree
}

// ServerConfig configures the remote console.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// ValidBackends lists the supported store backends.
var ValidBackends = []string{"file", "memory", "sqlite", "firestore"}

// ValidLevels lists the supported log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			Indent:       2,
			ShowID:       true,
			RecordFailed: true,
			RestoreState: true,
		},
		Store: StoreConfig{
			Backend:    "file",
			Dir:        ".",
			StateFile:  ".htmledit-session.yaml",
			SQLitePath: "htmledit.db",
			Collection: "documents",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from a YAML file on top of the defaults. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HTMLEDIT_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("HTMLEDIT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("FIRESTORE_PROJECT"); v != "" && c.Store.Project == "" {
		c.Store.Project = v
	}
}

// GetFlushInterval returns the write-behind flush interval, or 0 when the
// cache is disabled.
func (c *Config) GetFlushInterval() time.Duration {
	d, err := time.ParseDuration(c.Store.FlushInterval)
	if err != nil {
		return 0
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Editor.Indent < 1 {
		return fmt.Errorf("invalid editor indent: %d (must be positive)", c.Editor.Indent)
	}
	if !slices.Contains(ValidBackends, c.Store.Backend) {
		return fmt.Errorf("invalid store backend: %s (valid: %v)", c.Store.Backend, ValidBackends)
	}
	if c.Store.Backend == "firestore" && c.Store.Project == "" {
		return fmt.Errorf("firestore backend needs firestore_project (or FIRESTORE_PROJECT)")
	}
	if c.Store.FlushInterval != "" {
		d, err := time.ParseDuration(c.Store.FlushInterval)
		if err != nil {
			return fmt.Errorf("invalid flush interval %q: %w", c.Store.FlushInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid flush interval %q (must be positive)", c.Store.FlushInterval)
		}
	}
	if !slices.Contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	return nil
}
