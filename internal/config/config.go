// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nitindahiya-dev/terminalAI/internal/offline"
	"github.com/nitindahiya-dev/terminalAI/internal/router"
	"github.com/nitindahiya-dev/terminalAI/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete terminalAI configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Shell    ShellConfig    `toml:"shell" json:"shell"`
	Delegate DelegateConfig `toml:"delegate" json:"delegate"`
	History  HistoryConfig  `toml:"history" json:"history"`
	UI       UIConfig       `toml:"ui" json:"ui"`
	Logging  LoggingConfig  `toml:"logging" json:"logging"`
}

// ShellConfig controls how commands are classified and executed.
type ShellConfig struct {
	// Interpreter runs every command as `<interpreter> -c <command>`.
	Interpreter string `toml:"interpreter" json:"interpreter"`
	// Term is exported as TERM to every command.
	Term string `toml:"term" json:"term"`
	// KnownCommands is the allow-list of utilities that mark a line as a
	// literal shell command.
	KnownCommands []string `toml:"known_commands" json:"known_commands"`
	// MaxOutputBytes truncates captured output (0 = unlimited).
	MaxOutputBytes int `toml:"max_output_bytes" json:"max_output_bytes"`
}

// DelegateConfig selects and configures the natural-language translator.
type DelegateConfig struct {
	// Backend is "process", "http" or "ollama".
	Backend string `toml:"backend" json:"backend"`
	// Command and Args form the process backend's command line; the
	// instruction is appended as the last argument. An empty Command runs
	// this binary's "agent" subcommand.
	Command string   `toml:"command" json:"command"`
	Args    []string `toml:"args" json:"args"`
	// URL is the translation endpoint of the http backend.
	URL         string `toml:"url" json:"url"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`
	// RatePerMinute limits delegate calls (0 = unlimited).
	RatePerMinute int `toml:"rate_per_minute" json:"rate_per_minute"`
	// Cache stores translations in the local database.
	Cache         bool   `toml:"cache" json:"cache"`
	CacheTTLHours int    `toml:"cache_ttl_hours" json:"cache_ttl_hours"`
	OllamaURL     string `toml:"ollama_url" json:"ollama_url"`
	OllamaModel   string `toml:"ollama_model" json:"ollama_model"`
	// Offline restricts url and ollama_url to loopback hosts.
	Offline bool `toml:"offline" json:"offline"`
}

// HistoryConfig controls the persistent history database.
type HistoryConfig struct {
	Persist    bool   `toml:"persist" json:"persist"`
	Path       string `toml:"path" json:"path"`
	MaxEntries int    `toml:"max_entries" json:"max_entries"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme string `toml:"theme" json:"theme"`
	// TickMs is how often finished commands are collected.
	TickMs int `toml:"tick_ms" json:"tick_ms"`
	// Highlight colours prompt echo lines as shell syntax.
	Highlight bool `toml:"highlight" json:"highlight"`
	// User and Host override the prompt echo identity.
	User string `toml:"user" json:"user"`
	Host string `toml:"host" json:"host"`
}

// LoggingConfig contains log settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" json:"level"`
	// File receives JSON log lines. Empty means ~/.terminalai/terminalai.log.
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Backend names.
const (
	BackendProcess = "process"
	BackendHTTP    = "http"
	BackendOllama  = "ollama"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",
		Shell: ShellConfig{
			Interpreter:   "sh",
			Term:          "xterm-256color",
			KnownCommands: append([]string(nil), router.DefaultKnownCommands...),
		},
		Delegate: DelegateConfig{
			Backend:       BackendProcess,
			URL:           "http://127.0.0.1:5500/",
			TimeoutSecs:   10,
			Cache:         true,
			CacheTTLHours: 168,
			OllamaURL:     "http://127.0.0.1:11434",
			OllamaModel:   "qwen2.5-coder:7b",
		},
		History: HistoryConfig{
			Persist:    true,
			MaxEntries: 10000,
		},
		UI: UIConfig{
			Theme:     "auto",
			TickMs:    50,
			Highlight: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the terminalAI configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".terminalai"), nil
}

// ConfigPath returns the path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// resolvePath returns path, or the default config path when path is empty.
func resolvePath(path string) (string, error) {
	if path != "" {
		return util.ExpandHome(path), nil
	}
	return ConfigPath()
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from path, or from the default location when
// path is empty. A missing file yields the defaults. Environment overrides
// are applied last, then the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(resolved); statErr == nil {
		if err := LoadTOML(cfg, resolved); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", resolved, err)
		}
	} else if path != "" && !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", resolved, statErr)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep
// their current values; unknown keys are an error.
func LoadTOML(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// SetDefaults fills zero values that would make the config unusable.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Shell.Interpreter == "" {
		c.Shell.Interpreter = d.Shell.Interpreter
	}
	if c.Shell.Term == "" {
		c.Shell.Term = d.Shell.Term
	}
	if len(c.Shell.KnownCommands) == 0 {
		c.Shell.KnownCommands = d.Shell.KnownCommands
	}
	if c.Delegate.Backend == "" {
		c.Delegate.Backend = d.Delegate.Backend
	}
	if c.Delegate.URL == "" {
		c.Delegate.URL = d.Delegate.URL
	}
	if c.Delegate.TimeoutSecs == 0 {
		c.Delegate.TimeoutSecs = d.Delegate.TimeoutSecs
	}
	if c.Delegate.CacheTTLHours == 0 {
		c.Delegate.CacheTTLHours = d.Delegate.CacheTTLHours
	}
	if c.Delegate.OllamaURL == "" {
		c.Delegate.OllamaURL = d.Delegate.OllamaURL
	}
	if c.Delegate.OllamaModel == "" {
		c.Delegate.OllamaModel = d.Delegate.OllamaModel
	}
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = d.History.MaxEntries
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.TickMs == 0 {
		c.UI.TickMs = d.UI.TickMs
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to path (the default location when
// empty) with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# terminalAI configuration file")
	fmt.Fprintln(&buf, "# Generated by terminalai - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(resolved, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Shell
	if strings.TrimSpace(c.Shell.Interpreter) == "" {
		add("shell.interpreter", "must not be empty")
	}
	if c.Shell.MaxOutputBytes < 0 {
		add("shell.max_output_bytes", "must be >= 0, got %d", c.Shell.MaxOutputBytes)
	}
	for _, name := range c.Shell.KnownCommands {
		if strings.ContainsAny(name, " \t") || name == "" {
			add("shell.known_commands", "invalid command name %q", name)
		}
	}

	// Delegate
	switch strings.ToLower(c.Delegate.Backend) {
	case BackendProcess, BackendHTTP, BackendOllama:
	default:
		add("delegate.backend", "invalid backend '%s', must be one of: process, http, ollama", c.Delegate.Backend)
	}
	if strings.EqualFold(c.Delegate.Backend, BackendHTTP) {
		if err := offline.ValidateURL(c.Delegate.URL, c.Delegate.Offline); err != nil {
			add("delegate.url", "%v", err)
		}
	}
	if strings.EqualFold(c.Delegate.Backend, BackendOllama) {
		if err := offline.ValidateURL(c.Delegate.OllamaURL, c.Delegate.Offline); err != nil {
			add("delegate.ollama_url", "%v", err)
		}
		if c.Delegate.OllamaModel == "" {
			add("delegate.ollama_model", "must not be empty")
		}
	}
	if c.Delegate.TimeoutSecs < 1 || c.Delegate.TimeoutSecs > 600 {
		add("delegate.timeout_secs", "must be between 1 and 600, got %d", c.Delegate.TimeoutSecs)
	}
	if c.Delegate.RatePerMinute < 0 {
		add("delegate.rate_per_minute", "must be >= 0, got %d", c.Delegate.RatePerMinute)
	}
	if c.Delegate.CacheTTLHours < 0 {
		add("delegate.cache_ttl_hours", "must be >= 0, got %d", c.Delegate.CacheTTLHours)
	}

	// History
	if c.History.MaxEntries < 0 {
		add("history.max_entries", "must be >= 0, got %d", c.History.MaxEntries)
	}

	// UI
	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		add("ui.theme", "invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme)
	}
	if c.UI.TickMs < 10 || c.UI.TickMs > 5000 {
		add("ui.tick_ms", "must be between 10 and 5000, got %d", c.UI.TickMs)
	}

	// Logging
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - TERMINALAI_DELEGATE: overrides delegate.backend
//   - TERMINALAI_DELEGATE_COMMAND: overrides delegate.command
//   - TERMINALAI_AGENT_URL: overrides delegate.url
//   - TERMINALAI_OLLAMA_URL: overrides delegate.ollama_url
//   - TERMINALAI_MODEL: overrides delegate.ollama_model
//   - TERMINALAI_OFFLINE: "1" or "true" sets delegate.offline
//   - TERMINALAI_SHELL: overrides shell.interpreter
//   - TERMINALAI_NO_HISTORY: "1" or "true" disables history.persist
//   - TERMINALAI_THEME: overrides ui.theme
//   - TERMINALAI_LOG_LEVEL: overrides logging.level
//   - TERMINALAI_LOG_FILE: overrides logging.file
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("TERMINALAI_DELEGATE"); v != "" {
		c.Delegate.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("TERMINALAI_DELEGATE_COMMAND"); v != "" {
		c.Delegate.Command = v
	}
	if v := os.Getenv("TERMINALAI_AGENT_URL"); v != "" {
		c.Delegate.URL = v
	}
	if v := os.Getenv("TERMINALAI_OLLAMA_URL"); v != "" {
		c.Delegate.OllamaURL = v
	}
	if v := os.Getenv("TERMINALAI_MODEL"); v != "" {
		c.Delegate.OllamaModel = v
	}
	if v := os.Getenv("TERMINALAI_OFFLINE"); v != "" {
		c.Delegate.Offline = v == "1" || strings.ToLower(v) == "true"
	}
	if v := os.Getenv("TERMINALAI_SHELL"); v != "" {
		c.Shell.Interpreter = v
	}
	if v := os.Getenv("TERMINALAI_NO_HISTORY"); v != "" {
		c.History.Persist = !(v == "1" || strings.ToLower(v) == "true")
	}
	if v := os.Getenv("TERMINALAI_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("TERMINALAI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TERMINALAI_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "delegate.backend").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type; lists are comma separated.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strings.ToLower(strVal))
			if err != nil {
				boolVal = strings.ToLower(strVal) == "yes"
			}
			field.SetBool(boolVal)
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, item := range strings.Split(strVal, ",") {
					if item = strings.TrimSpace(item); item != "" {
						items = append(items, item)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"shell.interpreter",
		"shell.term",
		"shell.known_commands",
		"shell.max_output_bytes",
		"delegate.backend",
		"delegate.command",
		"delegate.args",
		"delegate.url",
		"delegate.timeout_secs",
		"delegate.rate_per_minute",
		"delegate.cache",
		"delegate.cache_ttl_hours",
		"delegate.ollama_url",
		"delegate.ollama_model",
		"history.persist",
		"history.path",
		"history.max_entries",
		"ui.theme",
		"ui.tick_ms",
		"ui.highlight",
		"ui.user",
		"ui.host",
		"logging.level",
		"logging.file",
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// DelegateTimeout returns the delegate timeout as a duration.
func (c *Config) DelegateTimeout() time.Duration {
	return time.Duration(c.Delegate.TimeoutSecs) * time.Second
}

// CacheTTL returns the translation cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Delegate.CacheTTLHours) * time.Hour
}

// TickInterval returns the result polling interval.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.UI.TickMs) * time.Millisecond
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Shell.KnownCommands = append([]string(nil), c.Shell.KnownCommands...)
	clone.Delegate.Args = append([]string(nil), c.Delegate.Args...)
	return &clone
}

// String returns a JSON representation for debugging. Credentials embedded
// in URLs are redacted.
func (c *Config) String() string {
	safe := c.Clone()
	safe.Delegate.URL = redactURL(safe.Delegate.URL)
	safe.Delegate.OllamaURL = redactURL(safe.Delegate.OllamaURL)

	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.User("REDACTED")
	return u.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// Global returns the global configuration, loading the default file on
// first access. Load errors fall back to the defaults.
func Global() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		loaded, err := Load("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			loaded = Default()
		}
		globalConfig = loaded
	}
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	SetGlobal(nil)
}
