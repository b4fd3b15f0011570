package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "memory"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Match.PerfectThreshold != 85 || cfg.Recommend.NeighborCount != 3 || cfg.Recommend.MinRating != 4 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := validConfig()
	cfg.Content.Budget.Action = "invalid_action"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `content.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	for _, action := range []string{"", "warn", "reject"} {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.Content.Budget.Action = action
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver"},
		{"addrs", func(c *Config) { c.Database.Driver = "valkey" }, "database.addrs"},
		{"threshold", func(c *Config) { c.Match.PerfectThreshold = 80 }, "perfect_threshold"},
		{"strategy", func(c *Config) { c.Match.BaseStrategy = "gaussian" }, "base_strategy"},
		{"fixed base high", func(c *Config) { c.Match.BaseStrategy = "fixed"; c.Match.FixedBase = 85 }, "fixed_base"},
		{"fixed base low", func(c *Config) { c.Match.BaseStrategy = "fixed"; c.Match.FixedBase = 10 }, "fixed_base"},
		{"counts", func(c *Config) { c.Recommend.DefaultCount = 60 }, "default_count"},
		{"min rating", func(c *Config) { c.Recommend.MinRating = 6 }, "min_rating"},
		{"alternate", func(c *Config) { c.Recommend.Alternate.Enabled = true }, "alternate.command"},
		{"temperature", func(c *Config) { c.Content.Temperature = 3 }, "temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FMF_SET", "value")
	t.Setenv("FMF_EMPTY", "")

	got := string(expandEnvVars([]byte("a: ${FMF_SET}\nb: ${FMF_EMPTY:-fallback}\nc: ${FMF_UNSET_X:-7}\nd: ${FMF_UNSET_X}")))
	want := "a: value\nb: fallback\nc: 7\nd: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParse_LocalFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "config", "local.yaml"))
	if err != nil {
		t.Fatalf("read local.yaml: %v", err)
	}
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("PORT", "9090")

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.Database.Driver != "memory" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Recommend.Alternate.Enabled {
		t.Error("alternate engine should default to disabled locally")
	}
	if got := cfg.Recommend.Alternate.Args; len(got) != 1 || got[0] != "recommend" {
		t.Errorf("alternate args = %v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FMF_DOTENV_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FMF_DOTENV_TEST", "")
	os.Unsetenv("FMF_DOTENV_TEST")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("FMF_DOTENV_TEST"); got != "from-file" {
		t.Errorf("FMF_DOTENV_TEST = %q", got)
	}
}
