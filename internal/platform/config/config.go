// Package config loads the portal configuration from YAML and hands out
// immutable snapshots. Reload swaps the whole snapshot atomically so a request
// never observes a partially updated view.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	platformstrings "github.com/Traveler1145141/TRWhitelist/pkg/platform/strings"
)

// Config is one immutable configuration snapshot. Do not mutate a snapshot
// after it has been published; reload builds a fresh one instead.
type Config struct {
	Port                 int               `yaml:"port"`
	VerificationCode     string            `yaml:"verification-code"`
	AllowedEmailSuffixes []string          `yaml:"allowed-email-suffixes"`
	Email                EmailConfig       `yaml:"email"`
	Admin                AdminConfig       `yaml:"admin"`
	Storage              StorageConfig     `yaml:"storage"`
	DataDir              string            `yaml:"data-dir"`
	LogLevel             string            `yaml:"log-level"`
	Messages             map[string]string `yaml:"messages"`
}

// EmailConfig controls the address-based registration flow. When disabled the
// portal only asks for a username and code, and no dedup state is kept.
type EmailConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AdminConfig guards the administrative endpoints. An empty token disables them.
type AdminConfig struct {
	Token string `yaml:"token"`
}

// StorageConfig selects the allow-list store backend.
type StorageConfig struct {
	Backend  string `yaml:"backend"` // "yaml", "redis" or "memory"
	RedisURL string `yaml:"redis-url"`
}

// Backend names accepted by StorageConfig.
const (
	BackendYAML   = "yaml"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// defaultMessages is the built-in message set. Loaded configuration never has
// a value overwritten, only absent keys back-filled, so the templater never
// meets an undefined placeholder silently.
var defaultMessages = map[string]string{
	"success":                  "<h1 style='color:green'>Success! Player added.</h1>",
	"missing_parameters":       "<h1>Missing parameters</h1>",
	"invalid_code":             "<h1 style='color:red'>Invalid code!</h1>",
	"email_required":           "<h1 style='color:red'>Email is required!</h1>",
	"invalid_email":            "<h1 style='color:red'>Invalid email format!</h1>",
	"email_suffix_not_allowed": "<h1 style='color:red'>Email suffix not allowed! Allowed: {suffixes}</h1>",
	"email_already_registered": "<h1 style='color:red'>This email is already registered!</h1>",
	"console_success":          "Added {player} to whitelist",
	"console_error":            "Error: {error}",
	"index_title":              "TR WhiteList Portal",
	"username_label":           "Minecraft Username",
	"email_label":              "Email Address",
	"code_label":               "Verification Code",
	"submit_button":            "Add to Whitelist",
}

// Default returns a snapshot populated entirely from built-in defaults.
func Default() *Config {
	cfg := &Config{
		Port:             11434,
		VerificationCode: "default",
		Email:            EmailConfig{Enabled: true},
		Storage:          StorageConfig{Backend: BackendYAML},
		DataDir:          ".",
		LogLevel:         "info",
		Messages:         map[string]string{},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path. A missing file yields the defaults; any
// other read or parse failure is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Unmarshal over a pre-populated snapshot so absent scalar keys keep
	// their defaults without a second pass.
	cfg := &Config{
		Port:             11434,
		VerificationCode: "default",
		Email:            EmailConfig{Enabled: true},
		Storage:          StorageConfig{Backend: BackendYAML},
		DataDir:          ".",
		LogLevel:         "info",
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults back-fills required message keys and normalizes the suffix
// allow-list. Explicitly configured message values are never overwritten.
func (c *Config) applyDefaults() {
	c.AllowedEmailSuffixes = platformstrings.DedupeAndTrimLower(c.AllowedEmailSuffixes)
	if c.Messages == nil {
		c.Messages = map[string]string{}
	}
	for key, value := range defaultMessages {
		if _, ok := c.Messages[key]; !ok {
			c.Messages[key] = value
		}
	}
}

// Manager owns the current configuration snapshot and the reload operation.
type Manager struct {
	path    string
	logger  *slog.Logger
	current atomic.Pointer[Config]
}

// NewManager loads the initial snapshot from path.
func NewManager(path string, logger *slog.Logger) (*Manager, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	m := &Manager{path: path, logger: logger}
	m.current.Store(cfg)
	return m, nil
}

// Current returns the active snapshot. Callers must treat it as read-only.
func (m *Manager) Current() *Config {
	return m.current.Load()
}

// Reload re-reads the file and publishes the new snapshot atomically.
// On failure the previous snapshot stays active.
func (m *Manager) Reload() (*Config, error) {
	cfg, err := Load(m.path)
	if err != nil {
		return nil, err
	}
	m.current.Store(cfg)
	m.logger.Info("configuration reloaded", "path", m.path, "port", cfg.Port)
	return cfg, nil
}
