package findmyfood

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "memory" (default), "valkey" or "redis"
	addrs    []string
	password string

	content     ContentSource
	openAIKey   string
	openAIModel string
	openAIURL   string
	cacheTTL    time.Duration

	datasetPath   string
	neighborCount int
	minRating     float64
	fixedBase     int
	seed          uint64

	alternateCommand string
	alternateArgs    []string

	dailyTokens      int64
	monthlyTokens    int64
	rejectOverBudget bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey caches generated content in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis caches generated content in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithOpenAI generates restaurant menus with an OpenAI-compatible chat model.
// An empty model selects gpt-4o-mini.
func WithOpenAI(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIModel = model
	})
}

// WithOpenAIBaseURL points WithOpenAI at a compatible endpoint.
func WithOpenAIBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIURL = url
	})
}

// WithContentSource sets a custom content source. It takes precedence over WithOpenAI.
func WithContentSource(s ContentSource) Option {
	return optionFunc(func(c *clientConfig) {
		c.content = s
	})
}

// WithContentCacheTTL sets how long generated content stays cached. Zero keeps it forever.
// Default: 24h.
func WithContentCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithContentBudget caps generated tokens per day and month (0 = unlimited).
// When reject is set, calls over budget fail with ErrContentQuotaExceeded.
func WithContentBudget(daily, monthly int64, reject bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyTokens = daily
		c.monthlyTokens = monthly
		c.rejectOverBudget = reject
	})
}

// WithDataset loads the rating history from a YAML file instead of the embedded seed.
func WithDataset(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.datasetPath = path
	})
}

// WithNeighborCount sets how many similar diners back each recommendation. Default: 3.
func WithNeighborCount(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.neighborCount = n
	})
}

// WithMinRating sets the lowest neighbor rating that endorses a dish. Default: 4.
func WithMinRating(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.minRating = v
	})
}

// WithFixedBaseScore makes match scores deterministic. The base must lie in [60,85).
func WithFixedBaseScore(base int) Option {
	return optionFunc(func(c *clientConfig) {
		c.fixedBase = base
	})
}

// WithSeed seeds the random base score. Ignored with WithFixedBaseScore.
func WithSeed(seed uint64) Option {
	return optionFunc(func(c *clientConfig) {
		c.seed = seed
	})
}

// WithAlternateEngine tries an external recommendation command before the
// built-in engine. The command receives the user id and count as its last two
// arguments and must print the recommendation JSON contract.
func WithAlternateEngine(command string, args ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.alternateCommand = command
		c.alternateArgs = args
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
