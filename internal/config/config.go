// Package config resolves gradecalc settings from defaults, an optional YAML
// file, a .env file and GRADECALC_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/storage"
)

// Config holds every tunable setting. Field tags name the YAML key and the
// environment variable for each one.
type Config struct {
	Store         string        `yaml:"store"           env:"GRADECALC_STORE"           validate:"required"`
	RecordKey     string        `yaml:"record_key"      env:"GRADECALC_RECORD_KEY"      validate:"required"`
	Debounce      time.Duration `yaml:"debounce"        env:"GRADECALC_DEBOUNCE"`
	Debug         bool          `yaml:"debug"           env:"GRADECALC_DEBUG"`
	LogDir        string        `yaml:"log_dir"         env:"GRADECALC_LOG_DIR"`
	MaxBackups    int           `yaml:"max_backups"     env:"GRADECALC_MAX_BACKUPS"     validate:"min=1"`
	BackupOnStart bool          `yaml:"backup_on_start" env:"GRADECALC_BACKUP_ON_START"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Store:         constants.DefaultStorePath,
		RecordKey:     constants.DefaultRecordKey,
		Debounce:      constants.DefaultDebounce,
		MaxBackups:    constants.MaxBackups,
		BackupOnStart: true,
	}
}

// Options controls where Load looks for its sources.
type Options struct {
	// Path is the YAML file. A missing file is an error only when Explicit is set.
	Path     string
	Explicit bool
	// EnvFile is an optional dotenv file; variables already set win.
	EnvFile string
}

var validate = validator.New()

// Load layers the configured sources over Default and validates the result.
func Load(opts Options) (Config, error) {
	cfg := Default()

	if opts.Path != "" {
		if err := loadFile(opts.Path, opts.Explicit, &cfg); err != nil {
			return cfg, err
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load env file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, explicit bool, cfg *Config) error {
	resolved, err := storage.ExpandPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("invalid config: debounce must not be negative, got %s", c.Debounce)
	}
	return nil
}

// ConfigDir is the directory logs and lockfiles live in. File stores keep
// them beside the store; remote stores use the default directory.
func (c Config) ConfigDir() (string, error) {
	switch storage.KindOf(c.Store) {
	case storage.KindSQLite, storage.KindJSON:
		path, err := storage.ExpandPath(c.Store)
		if err != nil {
			return "", err
		}
		return filepath.Dir(path), nil
	default:
		return storage.ExpandPath(constants.DefaultConfigDir)
	}
}

// Write saves c as YAML at path, creating parent directories.
func Write(path string, c Config) error {
	resolved, err := storage.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
