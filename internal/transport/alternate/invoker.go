package alternate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
)

// Invoker defaults.
const (
	DefaultTimeout          = 5 * time.Second
	DefaultFailureThreshold = 3
	DefaultOpenTimeout      = 30 * time.Second
	maxStderr               = 512
)

// Config holds the external engine settings.
type Config struct {
	Enabled          bool
	Command          string
	Args             []string
	Env              []string // appended to the parent environment
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
	Logger           *zap.Logger
}

// Invoker runs `<command> <args...> <user_id> <count>` and parses stdout as
// the recommendation JSON contract. Every failure is reported as
// domain.ErrAlternateUnavailable. Consecutive failures open a circuit breaker
// so a broken engine is skipped without spawning.
type Invoker struct {
	cfg     Config
	breaker *gobreaker.CircuitBreaker[[]recommendation.Dish]
	logger  *zap.Logger
}

// NewInvoker creates an invoker.
func NewInvoker(cfg Config) *Invoker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = DefaultOpenTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	threshold := cfg.FailureThreshold
	settings := gobreaker.Settings{
		Name:        "alternate-engine",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Invoker{
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker[[]recommendation.Dish](settings),
		logger:  logger,
	}
}

// State reports the breaker state for monitoring.
func (i *Invoker) State() string {
	return i.breaker.State().String()
}

// Recommend implements recommend.Provider.
func (i *Invoker) Recommend(ctx context.Context, userID, count int) ([]recommendation.Dish, error) {
	if !i.cfg.Enabled || i.cfg.Command == "" {
		return nil, fmt.Errorf("disabled: %w", domain.ErrAlternateUnavailable)
	}

	dishes, err := i.breaker.Execute(func() ([]recommendation.Dish, error) {
		return i.run(ctx, userID, count)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlternateUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrAlternateUnavailable, err)
	}
	return dishes, nil
}

func (i *Invoker) run(ctx context.Context, userID, count int) ([]recommendation.Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
	defer cancel()

	args := append(append([]string{}, i.cfg.Args...), strconv.Itoa(userID), strconv.Itoa(count))
	cmd := exec.CommandContext(ctx, i.cfg.Command, args...) //nolint:gosec // command comes from operator config
	if len(i.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), i.cfg.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w after %s", ctx.Err(), duration)
		}
		i.logger.Warn("Alternate engine failed",
			zap.Int("user_id", userID),
			zap.Duration("duration", duration),
			zap.String("stderr", truncate(stderr.String(), maxStderr)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("run %s: %w: %w", i.cfg.Command, domain.ErrAlternateUnavailable, err)
	}

	dishes, err := Decode(stdout.Bytes())
	if err != nil {
		i.logger.Warn("Alternate engine returned malformed output",
			zap.Int("user_id", userID),
			zap.Int("bytes", stdout.Len()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrAlternateUnavailable, err)
	}

	i.logger.Debug("Alternate engine answered",
		zap.Int("user_id", userID),
		zap.Int("dishes", len(dishes)),
		zap.Duration("duration", duration),
	)
	return dishes, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
