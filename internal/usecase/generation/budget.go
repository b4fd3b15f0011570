// Package generation guards the content source with a token budget and request logging.
package generation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/domain"
)

// BudgetAction defines behavior when the token budget is spent.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request with domain.ErrContentQuotaExceeded.
	BudgetActionReject BudgetAction = "reject"
)

// BudgetStore persists budget counters. IncrBy may be called repeatedly.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// Budget tracks daily and monthly token spend for one model.
// Check is in-memory only; Record updates memory first, then writes behind to the store.
// A zero limit means unlimited.
type Budget struct {
	mu           sync.Mutex
	model        string
	dailyLimit   int64
	monthlyLimit int64
	action       BudgetAction

	dailyUsed   int64
	monthlyUsed int64
	day         time.Time
	month       time.Time

	store  BudgetStore
	now    func() time.Time
	logger *zap.Logger
}

// NewBudget creates a tracker for model.
func NewBudget(model string, dailyLimit, monthlyLimit int64, action BudgetAction, logger *zap.Logger) *Budget {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Budget{
		model:        model,
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		action:       action,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
	now := b.now()
	b.day, b.month = startOfDay(now), startOfMonth(now)
	return b
}

// WithStore attaches persistence and loads the current period's counters.
func (b *Budget) WithStore(ctx context.Context, store BudgetStore) *Budget {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	now := b.now()
	if v, err := store.Get(ctx, b.dailyKey(now)); err == nil {
		b.dailyUsed = v
	} else {
		b.logger.Warn("Failed to load daily content budget", zap.Error(err))
	}
	if v, err := store.Get(ctx, b.monthlyKey(now)); err == nil {
		b.monthlyUsed = v
	} else {
		b.logger.Warn("Failed to load monthly content budget", zap.Error(err))
	}

	b.logger.Info("Content budget loaded",
		zap.String("model", b.model),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("monthly_used", b.monthlyUsed),
	)
	return b
}

func (b *Budget) dailyKey(t time.Time) string {
	return fmt.Sprintf("%sbudget:%s:daily:%s", domain.KeyPrefix, b.model, t.Format("2006-01-02"))
}

func (b *Budget) monthlyKey(t time.Time) string {
	return fmt.Sprintf("%sbudget:%s:monthly:%s", domain.KeyPrefix, b.model, t.Format("2006-01"))
}

// Check reports whether another generation call is allowed.
func (b *Budget) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()

	dailyOver := b.dailyLimit > 0 && b.dailyUsed >= b.dailyLimit
	monthlyOver := b.monthlyLimit > 0 && b.monthlyUsed >= b.monthlyLimit
	if !dailyOver && !monthlyOver {
		return nil
	}
	if b.action == BudgetActionReject {
		return domain.ErrContentQuotaExceeded
	}

	b.logger.Warn("Content token budget exceeded",
		zap.String("model", b.model),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("daily_limit", b.dailyLimit),
		zap.Int64("monthly_used", b.monthlyUsed),
		zap.Int64("monthly_limit", b.monthlyLimit),
	)
	return nil
}

// Record adds spent tokens.
func (b *Budget) Record(tokens int64) {
	if tokens <= 0 {
		return
	}
	b.mu.Lock()
	b.rollover()
	b.dailyUsed += tokens
	b.monthlyUsed += tokens
	store := b.store
	now := b.now()
	b.mu.Unlock()

	if store == nil {
		return
	}

	// Write-behind, detached from the caller's context.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, key := range []string{b.dailyKey(now), b.monthlyKey(now)} {
		if err := store.IncrBy(ctx, key, tokens); err != nil {
			b.logger.Warn("Failed to persist content budget", zap.String("key", key), zap.Error(err))
		}
	}
}

// Snapshot is a point-in-time view of the budget. Remaining is -1 when unlimited.
type Snapshot struct {
	DailyLimit       int64
	DailyUsed        int64
	DailyRemaining   int64
	MonthlyLimit     int64
	MonthlyUsed      int64
	MonthlyRemaining int64
}

// Snapshot returns the current counters.
func (b *Budget) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return Snapshot{
		DailyLimit:       b.dailyLimit,
		DailyUsed:        b.dailyUsed,
		DailyRemaining:   remaining(b.dailyLimit, b.dailyUsed),
		MonthlyLimit:     b.monthlyLimit,
		MonthlyUsed:      b.monthlyUsed,
		MonthlyRemaining: remaining(b.monthlyLimit, b.monthlyUsed),
	}
}

func remaining(limit, used int64) int64 {
	if limit == 0 {
		return -1
	}
	if used >= limit {
		return 0
	}
	return limit - used
}

// rollover zeroes counters when the day or month changes. Callers hold mu.
func (b *Budget) rollover() {
	now := b.now()
	if d := startOfDay(now); d.After(b.day) {
		b.dailyUsed = 0
		b.day = d
	}
	if m := startOfMonth(now); m.After(b.month) {
		b.monthlyUsed = 0
		b.month = m
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
