package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func envOf(kv map[string]string) func(string) string {
	return func(k string) string { return kv[k] }
}

func TestDefaults(t *testing.T) {
	cfg, err := load(envOf(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Port:                 "5175",
		LogLevel:             "info",
		RoundDurationSeconds: 180,
		JWTSecret:            DefaultJWTSecret,
		PublicURL:            "http://localhost:5175",
		ClientOrigin:         "http://localhost:5173",
		WSRatePerSec:         10,
		WSRateBurst:          20,
	}
	if cfg != want {
		t.Fatalf("defaults = %+v, want %+v", cfg, want)
	}
}

func TestEnvironment(t *testing.T) {
	cfg, err := load(envOf(map[string]string{
		"PORT":                   "8080",
		"ROUND_DURATION_SECONDS": "90",
		"DB_PATH":                "./data/rounds.db",
		"PUBLIC_URL":             "https://play.example.com/",
		"WS_RATE_PER_SEC":        "2.5",
		"BOARD_SALT":             "club",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.RoundDurationSeconds != 90 || cfg.DBPath != "./data/rounds.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.PublicURL != "https://play.example.com" {
		t.Fatalf("PublicURL = %q, want trailing slash trimmed", cfg.PublicURL)
	}
	if cfg.WSRatePerSec != 2.5 || cfg.BoardSalt != "club" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	yml := "round_duration_seconds: 60\nhost_password: hunter2\njwt_secret: s3cret\nport: \"9000\"\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := load(envOf(map[string]string{
		"GAME_CONFIG":            path,
		"ROUND_DURATION_SECONDS": "120",
		"JOURNAL_DIR":            "/var/journal",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RoundDurationSeconds != 60 {
		t.Fatalf("yaml should win: RoundDurationSeconds = %d", cfg.RoundDurationSeconds)
	}
	if cfg.JournalDir != "/var/journal" {
		t.Fatalf("env key absent from yaml was lost: %q", cfg.JournalDir)
	}
	if cfg.HostPassword != "hunter2" || cfg.PublicURL != "http://localhost:9000" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "unparsable duration", env: map[string]string{"ROUND_DURATION_SECONDS": "soon"}, want: "ROUND_DURATION_SECONDS"},
		{name: "zero duration", env: map[string]string{"ROUND_DURATION_SECONDS": "0"}, want: "round_duration_seconds"},
		{name: "negative burst", env: map[string]string{"WS_RATE_BURST": "-1"}, want: "ws_rate_burst"},
		{name: "bad port", env: map[string]string{"PORT": "http"}, want: "port"},
		{name: "missing yaml", env: map[string]string{"GAME_CONFIG": "/nonexistent/game.yaml"}, want: "game.yaml"},
		{name: "password with default secret", env: map[string]string{"HOST_PASSWORD": "hunter2"}, want: "jwt_secret"},
		{name: "password with spelled-out default secret", env: map[string]string{"HOST_PASSWORD": "hunter2", "JWT_SECRET": DefaultJWTSecret}, want: "jwt_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(envOf(tt.env))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestHostPasswordWithOwnSecret(t *testing.T) {
	cfg, err := load(envOf(map[string]string{"HOST_PASSWORD": "hunter2", "JWT_SECRET": "s3cret"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("JWTSecret = %q", cfg.JWTSecret)
	}
}

func TestBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte("round_duration_seconds: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := load(envOf(map[string]string{"GAME_CONFIG": path})); err == nil {
		t.Fatalf("malformed yaml should fail")
	}
}
