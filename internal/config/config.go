// internal/config/config.go
//
// Process configuration.
// Responsibilities:
//   - Read settings from the environment (after main has loaded .env).
//   - Overlay an optional YAML file named by GAME_CONFIG; keys present in the
//     file win over the environment.
//   - Validate the result before anything starts.

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the host process.
type Config struct {
	Port                 string  `yaml:"port"`
	LogLevel             string  `yaml:"log_level"`
	RoundDurationSeconds int     `yaml:"round_duration_seconds"`
	DictionaryFile       string  `yaml:"dictionary_file"`
	DBPath               string  `yaml:"db_path"`
	JournalDir           string  `yaml:"journal_dir"`
	HostPassword         string  `yaml:"host_password"`
	JWTSecret            string  `yaml:"jwt_secret"`
	PublicURL            string  `yaml:"public_url"`
	ClientOrigin         string  `yaml:"client_origin"`
	BoardSalt            string  `yaml:"board_salt"`
	WSRatePerSec         float64 `yaml:"ws_rate_per_sec"`
	WSRateBurst          int     `yaml:"ws_rate_burst"`
}

// DefaultJWTSecret is used when JWT_SECRET is unset. Validate refuses it once a
// host password is configured, since anyone can sign tokens with it.
const DefaultJWTSecret = "dev_secret_change_me"

// Load reads the process environment and the optional GAME_CONFIG file.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	env := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}

	var errs []error
	atoi := func(k, def string) int {
		n, err := strconv.Atoi(env(k, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
		}
		return n
	}
	atof := func(k, def string) float64 {
		f, err := strconv.ParseFloat(env(k, def), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
		}
		return f
	}

	cfg := Config{
		Port:                 env("PORT", "5175"),
		LogLevel:             env("LOG_LEVEL", "info"),
		RoundDurationSeconds: atoi("ROUND_DURATION_SECONDS", "180"),
		DictionaryFile:       env("DICTIONARY_FILE", ""),
		DBPath:               env("DB_PATH", ""),
		JournalDir:           env("JOURNAL_DIR", ""),
		HostPassword:         env("HOST_PASSWORD", ""),
		JWTSecret:            env("JWT_SECRET", DefaultJWTSecret),
		PublicURL:            env("PUBLIC_URL", ""),
		ClientOrigin:         env("CLIENT_ORIGIN", "http://localhost:5173"),
		BoardSalt:            env("BOARD_SALT", ""),
		WSRatePerSec:         atof("WS_RATE_PER_SEC", "10"),
		WSRateBurst:          atoi("WS_RATE_BURST", "20"),
	}
	if err := errors.Join(errs...); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	if path := strings.TrimSpace(getenv("GAME_CONFIG")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + cfg.Port
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings no host can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is empty"))
	} else if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("port %q out of range", c.Port))
	}
	if c.RoundDurationSeconds <= 0 {
		errs = append(errs, fmt.Errorf("round_duration_seconds must be positive, got %d", c.RoundDurationSeconds))
	}
	if c.WSRatePerSec <= 0 {
		errs = append(errs, fmt.Errorf("ws_rate_per_sec must be positive, got %g", c.WSRatePerSec))
	}
	if c.WSRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("ws_rate_burst must be positive, got %d", c.WSRateBurst))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is empty"))
	} else if c.HostPassword != "" && c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("jwt_secret must be set when host_password is set"))
	}
	return errors.Join(errs...)
}
