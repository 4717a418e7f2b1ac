package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv blanks every variable the loader reads so host settings do
// not leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"FT_DB_PATH", "FT_CORRECTIONS_PATH",
		"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET",
		"DISCOGS_TOKEN", "GEMINI_API_KEY",
		"FT_WORKERS", "FT_SOURCE_TIMEOUT",
		"FT_LOG_LEVEL", "FT_LOG_FORMAT", "FT_LOG_PATH",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if !strings.HasSuffix(cfg.Database.Path, filepath.Join(".flowtag", "cache.db")) {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if !strings.HasSuffix(cfg.Corrections.Path, filepath.Join(".flowtag", "corrections.json")) {
		t.Errorf("Corrections.Path = %q", cfg.Corrections.Path)
	}
	if cfg.Analysis.Workers != 4 || cfg.Analysis.SourceTimeout != 10 {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("Workers = %d, want defaults", cfg.Analysis.Workers)
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  path: /data/cache.db
sources:
  discogs_token: file-token
analysis:
  workers: 8
  source_timeout_seconds: 30
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/data/cache.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Sources.DiscogsToken != "file-token" {
		t.Errorf("DiscogsToken = %q", cfg.Sources.DiscogsToken)
	}
	if cfg.Analysis.Workers != 8 || cfg.Analysis.SourceTimeout != 30 {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	// Fields the file omits keep their defaults.
	if cfg.Corrections.Path == "" {
		t.Error("Corrections.Path lost its default")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sources:\n  discogs_token: file-token\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DISCOGS_TOKEN", "env-token")
	t.Setenv("FT_WORKERS", "2")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sources.DiscogsToken != "env-token" {
		t.Errorf("DiscogsToken = %q, env must win", cfg.Sources.DiscogsToken)
	}
	if cfg.Analysis.Workers != 2 {
		t.Errorf("Workers = %d", cfg.Analysis.Workers)
	}
	if cfg.Sources.GeminiAPIKey != "env-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.Sources.GeminiAPIKey)
	}
}

func TestLoad_InvalidEnvNumberIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("FT_WORKERS", "many")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("Workers = %d, want the default for an unparseable override", cfg.Analysis.Workers)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"zero workers", map[string]string{"FT_WORKERS": "0"}, "worker count"},
		{"negative timeout", map[string]string{"FT_SOURCE_TIMEOUT": "-5"}, "source timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
