// Package config handles loading todoapp.toml configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ihower/todoapp/internal/paths"
	"github.com/ihower/todoapp/internal/todoenv"
	"github.com/ihower/todoapp/internal/validation"
)

// Mode selects the backend a process persists todos through.
type Mode string

const (
	// ModeLocal keeps todos in memory, seeded with sample records.
	ModeLocal Mode = "local"

	// ModeRemote talks to the hosted data service.
	ModeRemote Mode = "remote"

	// ModeSQL uses a MySQL or PostgreSQL table directly.
	ModeSQL Mode = "sql"
)

// ErrInvalidMode is returned when the configured mode is unknown.
var ErrInvalidMode = errors.New("invalid mode")

// ValidModes returns all valid modes.
func ValidModes() []Mode {
	return []Mode{ModeLocal, ModeRemote, ModeSQL}
}

// IsValid returns true if the mode is a known value.
func (m Mode) IsValid() bool {
	for _, valid := range ValidModes() {
		if m == valid {
			return true
		}
	}
	return false
}

// ParseMode validates a mode name. Blank input selects ModeLocal.
func ParseMode(value string) (Mode, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ModeLocal, nil
	}
	mode := Mode(value)
	if !mode.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidMode, mode, ValidModes())
	}
	return mode, nil
}

// Config represents the todoapp.toml configuration file.
type Config struct {
	Backend Backend `toml:"backend"`
	Remote  Remote  `toml:"remote"`
	SQL     SQL     `toml:"sql"`
	Server  Server  `toml:"server"`
	Log     Log     `toml:"log"`
}

// Backend selects where todos are persisted.
type Backend struct {
	// Mode is "local", "remote", or "sql". Defaults to local.
	Mode string `toml:"mode"`
}

// Remote configures the hosted data service.
// SUPABASE_URL and SUPABASE_ANON_KEY override URL and Key.
type Remote struct {
	URL   string `toml:"url"`
	Key   string `toml:"key"`
	Table string `toml:"table"`
}

// SQL configures direct database access.
type SQL struct {
	// Driver is "mysql" or "postgres".
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
	Table  string `toml:"table"`
}

// Server configures the listen port for serve and web.
type Server struct {
	Port int `toml:"port"`
}

// Log configures diagnostics.
type Log struct {
	// Level is debug, info, warn, or error.
	Level string `toml:"level"`

	// Format is text, json, or logfmt.
	Format string `toml:"format"`
}

// Load loads configuration from dir and the global config file, then
// applies environment overrides. Returns an empty config if no config
// files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := paths.GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(paths.ProjectConfigPath(dir))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	applyEnv(merged)
	return merged, nil
}

// Mode returns the configured mode.
func (c *Config) Mode() (Mode, error) {
	return ParseMode(c.Backend.Mode)
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Backend.Mode = mergeString(projectMeta.IsDefined("backend", "mode"), projectCfg.Backend.Mode, globalCfg.Backend.Mode)
	merged.Remote.URL = mergeString(projectMeta.IsDefined("remote", "url"), projectCfg.Remote.URL, globalCfg.Remote.URL)
	merged.Remote.Key = mergeString(projectMeta.IsDefined("remote", "key"), projectCfg.Remote.Key, globalCfg.Remote.Key)
	merged.Remote.Table = mergeString(projectMeta.IsDefined("remote", "table"), projectCfg.Remote.Table, globalCfg.Remote.Table)
	merged.SQL.Driver = mergeString(projectMeta.IsDefined("sql", "driver"), projectCfg.SQL.Driver, globalCfg.SQL.Driver)
	merged.SQL.DSN = mergeString(projectMeta.IsDefined("sql", "dsn"), projectCfg.SQL.DSN, globalCfg.SQL.DSN)
	merged.SQL.Table = mergeString(projectMeta.IsDefined("sql", "table"), projectCfg.SQL.Table, globalCfg.SQL.Table)
	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)
	merged.Log.Format = mergeString(projectMeta.IsDefined("log", "format"), projectCfg.Log.Format, globalCfg.Log.Format)
	if projectMeta.IsDefined("server", "port") {
		merged.Server.Port = projectCfg.Server.Port
	} else if globalMeta.IsDefined("server", "port") {
		merged.Server.Port = globalCfg.Server.Port
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func applyEnv(cfg *Config) {
	if url, ok := todoenv.RemoteURL(); ok {
		cfg.Remote.URL = url
	}
	if key, ok := todoenv.RemoteKey(); ok {
		cfg.Remote.Key = key
	}
}
