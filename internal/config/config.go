// Package config loads the silverconnect.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/silverconnect/internal/i18n"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "silverconnect.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config is the platform configuration.
type Config struct {
	Locale       string      `yaml:"locale" validate:"locale"`
	LogLevel     string      `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    string      `yaml:"log_format" validate:"oneof=text json"`
	CatalogPath  string      `yaml:"catalog_path"`
	WatchCatalog bool        `yaml:"watch_catalog"`
	ChatTarget   string      `yaml:"chat_target" validate:"oneof=first selected"`
	MaxAttempts  int         `yaml:"max_attempts" validate:"min=1,max=10"`
	Store        StoreConfig `yaml:"store"`
}

// StoreConfig selects where session snapshots live.
type StoreConfig struct {
	Backend     string        `yaml:"backend" validate:"oneof=memory redis sqlite file"`
	RedisAddr   string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPrefix string        `yaml:"redis_prefix"`
	TTL         time.Duration `yaml:"ttl" validate:"min=0"`
	SQLitePath  string        `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
	// Dir holds one JSON file per session for the file backend.
	Dir string `yaml:"dir"`

	// EncryptionKey is a base64 AES-256 key sealing snapshot fields at rest.
	// FallbackKeys still decrypt during a key rotation.
	EncryptionKey string   `yaml:"encryption_key" validate:"omitempty,base64"`
	FallbackKeys  []string `yaml:"fallback_keys" validate:"dive,base64"`
	// Redact lists field name patterns whose values are masked before saving.
	Redact []string `yaml:"redact"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Locale:      "en",
		LogLevel:    "info",
		LogFormat:   "text",
		ChatTarget:  "first",
		MaxAttempts: 3,
		Store: StoreConfig{
			Backend:     BackendMemory,
			RedisPrefix: "silverconnect:",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		_, ok := i18n.ParseTag(fl.Field().String())
		return ok
	})
	return v
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
