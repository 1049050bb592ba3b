/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config is the user-editable configuration persisted to a YAML
// file in the user scope. Environment variables are read-only overrides at
// runtime; the backend token never touches disk and lives in the OS
// keychain.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type BackendConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	TLSInsecure bool   `yaml:"tls_insecure"`
	// Token is not stored on disk; it lives in the OS keychain.
}

type EditingConfig struct {
	// QuietMs is the input-inactivity window before a pending edit
	// commits, in milliseconds.
	QuietMs int `yaml:"quiet_ms"`
	// PresetDB is the preset database path; empty resolves next to the
	// config file.
	PresetDB string `yaml:"preset_db"`
	// HistoryMaxBytes caps the in-memory edit history.
	HistoryMaxBytes int `yaml:"history_max_bytes"`
	// HistoryMaxPerAsset caps snapshots kept per asset.
	HistoryMaxPerAsset int `yaml:"history_max_per_asset"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Backend       BackendConfig `yaml:"backend"`
	Editing       EditingConfig `yaml:"editing"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Backend:       BackendConfig{BaseURL: "http://localhost:8000", TimeoutMs: 15000, TLSInsecure: false},
		Editing:       EditingConfig{QuietMs: 350, PresetDB: "", HistoryMaxBytes: 8 * 1024 * 1024, HistoryMaxPerAsset: 100},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvBackendURL       = "QFX_BACKEND_URL"
	EnvBackendTimeoutMs = "QFX_BACKEND_TIMEOUT_MS"
	EnvBackendTLSInsec  = "QFX_TLS_INSECURE"
	EnvQuietMs          = "QFX_QUIET_MS"
	EnvPresetDB         = "QFX_PRESET_DB"
	EnvLogLevel         = "QFX_LOG_LEVEL"
	EnvLogFormat        = "QFX_LOG_FORMAT"
	EnvLogSource        = "QFX_LOG_SOURCE"
	EnvLogFile          = "QFX_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "QuickFix"
	keyringToken   = "backend_token"
)

// tokenStore abstracts keyring, so we can stub in tests.
var tokenStore TokenStore = &osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements TokenStore using the OS keyring via
// github.com/zalando/go-keyring.
type osKeyring struct{}

func (k *osKeyring) Get(service, key string) (string, error) {
	return keyringGet(service, key)
}
func (k *osKeyring) Set(service, key, value string) error {
	return keyringSet(service, key, value)
}
func (k *osKeyring) Delete(service, key string) error {
	return keyringDelete(service, key)
}

// The following vars are defined in keyring_real.go or keyring_stub.go
// depending on build tags.
var (
	keyringGet    func(service, key string) (string, error)
	keyringSet    func(service, key, value string) error
	keyringDelete func(service, key string) error
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "QuickFix")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "QuickFix")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "quickfix")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// PresetDBPath resolves the configured preset database path, defaulting
// to presets.sqlite next to the config file.
func PresetDBPath(cfg AppConfig) (string, error) {
	if strings.TrimSpace(cfg.Editing.PresetDB) != "" {
		return cfg.Editing.PresetDB, nil
	}
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), "presets.sqlite"), nil
}

// Load reads the user config file (if present), applies defaults, and
// merges environment overrides. The backend token comes from the keyring
// and is returned separately, never kept inside the struct.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into the OS
// keyring (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

// ClearToken removes the stored backend token.
func ClearToken() error {
	return tokenStore.Delete(keyringService, keyringToken)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Backend.BaseURL != "" {
		dst.Backend.BaseURL = src.Backend.BaseURL
	}
	if src.Backend.TimeoutMs != 0 {
		dst.Backend.TimeoutMs = src.Backend.TimeoutMs
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Backend.TLSInsecure = src.Backend.TLSInsecure
	if src.Editing.QuietMs > 0 {
		dst.Editing.QuietMs = src.Editing.QuietMs
	}
	if strings.TrimSpace(src.Editing.PresetDB) != "" {
		dst.Editing.PresetDB = strings.TrimSpace(src.Editing.PresetDB)
	}
	if src.Editing.HistoryMaxBytes > 0 {
		dst.Editing.HistoryMaxBytes = src.Editing.HistoryMaxBytes
	}
	if src.Editing.HistoryMaxPerAsset > 0 {
		dst.Editing.HistoryMaxPerAsset = src.Editing.HistoryMaxPerAsset
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTLSInsec)); v != "" {
		cfg.Backend.TLSInsecure = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvQuietMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editing.QuietMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvPresetDB)); v != "" {
		cfg.Editing.PresetDB = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}
