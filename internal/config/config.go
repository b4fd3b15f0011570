package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the findmyfood configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Content   ContentConfig   `yaml:"content"`
	Match     MatchConfig     `yaml:"match"`
	Recommend RecommendConfig `yaml:"recommend"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds key-value store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey, memory (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ContentConfig holds the restaurant content provider settings.
type ContentConfig struct {
	APIKey      string       `yaml:"api_key"`
	BaseURL     string       `yaml:"base_url"`
	Model       string       `yaml:"model"`
	Temperature float32      `yaml:"temperature"`
	MaxTokens   int          `yaml:"max_tokens"`
	TimeoutSec  int          `yaml:"timeout_sec"`
	User        string       `yaml:"user"`
	CacheTTLSec int          `yaml:"cache_ttl_sec"` // 0 = no expiry
	Budget      BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// MatchConfig holds menu scoring settings.
type MatchConfig struct {
	PerfectThreshold int    `yaml:"perfect_threshold"` // fixed at 85
	BaseStrategy     string `yaml:"base_strategy"`     // random (default) | fixed
	FixedBase        int    `yaml:"fixed_base"`
	Seed             uint64 `yaml:"seed"` // 0 = time-based
}

// RecommendConfig holds recommendation settings.
type RecommendConfig struct {
	DatasetPath     string          `yaml:"dataset_path"` // empty = embedded seed
	DefaultCount    int             `yaml:"default_count"`
	MaxCount        int             `yaml:"max_count"`
	NeighborCount   int             `yaml:"neighbor_count"`
	MinRating       float64         `yaml:"min_rating"`
	MemoTTLSec      int             `yaml:"memo_ttl_sec"`
	SuggestionCount int             `yaml:"suggestion_count"`
	Alternate       AlternateConfig `yaml:"alternate"`
}

// AlternateConfig holds the external recommendation engine settings.
type AlternateConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Command          string   `yaml:"command"`
	Args             []string `yaml:"args"`
	TimeoutSec       int      `yaml:"timeout_sec"`
	FailureThreshold uint32   `yaml:"failure_threshold"`
	OpenTimeoutSec   int      `yaml:"open_timeout_sec"`
}

// Scoring bounds enforced by Validate.
const (
	perfectThreshold = 85
	minFixedBase     = 60
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands environment variables in data, decodes it and applies defaults.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadDotEnv loads variables from .env files into the process environment.
// Variables already set win. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Content.Model == "" {
		c.Content.Model = "gpt-4o-mini"
	}
	if c.Content.MaxTokens <= 0 {
		c.Content.MaxTokens = 2500
	}
	if c.Content.TimeoutSec <= 0 {
		c.Content.TimeoutSec = 45
	}
	if c.Match.PerfectThreshold == 0 {
		c.Match.PerfectThreshold = perfectThreshold
	}
	if c.Match.BaseStrategy == "" {
		c.Match.BaseStrategy = "random"
	}
	if c.Match.FixedBase == 0 {
		c.Match.FixedBase = 70
	}
	if c.Recommend.DefaultCount <= 0 {
		c.Recommend.DefaultCount = 4
	}
	if c.Recommend.MaxCount <= 0 {
		c.Recommend.MaxCount = 50
	}
	if c.Recommend.NeighborCount <= 0 {
		c.Recommend.NeighborCount = 3
	}
	if c.Recommend.MinRating == 0 {
		c.Recommend.MinRating = 4
	}
	if c.Recommend.MemoTTLSec <= 0 {
		c.Recommend.MemoTTLSec = 300
	}
	if c.Recommend.SuggestionCount <= 0 {
		c.Recommend.SuggestionCount = 3
	}
	if c.Recommend.Alternate.TimeoutSec <= 0 {
		c.Recommend.Alternate.TimeoutSec = 5
	}
	if c.Recommend.Alternate.FailureThreshold == 0 {
		c.Recommend.Alternate.FailureThreshold = 3
	}
	if c.Recommend.Alternate.OpenTimeoutSec <= 0 {
		c.Recommend.Alternate.OpenTimeoutSec = 30
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "redis", "valkey":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required")
		}
	case "memory":
	default:
		return fmt.Errorf("database.driver must be \"redis\", \"valkey\" or \"memory\", got %q", c.Database.Driver)
	}
	switch c.Content.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("content.budget.action must be \"warn\" or \"reject\", got %q", c.Content.Budget.Action)
	}
	if c.Content.Temperature < 0 || c.Content.Temperature > 2 {
		return fmt.Errorf("content.temperature must be between 0 and 2, got %v", c.Content.Temperature)
	}
	if c.Match.PerfectThreshold != perfectThreshold {
		return fmt.Errorf("match.perfect_threshold is fixed at %d, got %d", perfectThreshold, c.Match.PerfectThreshold)
	}
	switch c.Match.BaseStrategy {
	case "random":
	case "fixed":
		if c.Match.FixedBase < minFixedBase || c.Match.FixedBase >= perfectThreshold {
			return fmt.Errorf("match.fixed_base must be in [%d,%d), got %d",
				minFixedBase, perfectThreshold, c.Match.FixedBase)
		}
	default:
		return fmt.Errorf("match.base_strategy must be \"random\" or \"fixed\", got %q", c.Match.BaseStrategy)
	}
	if c.Recommend.DefaultCount > c.Recommend.MaxCount {
		return fmt.Errorf("recommend.default_count (%d) exceeds recommend.max_count (%d)",
			c.Recommend.DefaultCount, c.Recommend.MaxCount)
	}
	if c.Recommend.MinRating < 1 || c.Recommend.MinRating > 5 {
		return fmt.Errorf("recommend.min_rating must be between 1 and 5, got %v", c.Recommend.MinRating)
	}
	if c.Recommend.Alternate.Enabled && c.Recommend.Alternate.Command == "" {
		return fmt.Errorf("recommend.alternate.command is required when the alternate engine is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
