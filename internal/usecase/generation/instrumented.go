package generation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
	"github.com/kailas-cloud/findmyfood/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	Snapshot() Snapshot
}

// InstrumentedSource wraps a content source with budget enforcement and logging.
// Transport metrics live in transport/openai; this layer owns budget metrics only.
type InstrumentedSource struct {
	inner  domain.ContentSource
	model  string
	budget BudgetChecker
	logger *zap.Logger
}

// NewInstrumentedSource wraps inner. budget may be nil.
func NewInstrumentedSource(
	inner domain.ContentSource, model string, budget BudgetChecker, logger *zap.Logger,
) *InstrumentedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedSource{inner: inner, model: model, budget: budget, logger: logger}
}

// Restaurant checks the budget, generates a restaurant, and records usage.
func (s *InstrumentedSource) Restaurant(ctx context.Context, q menu.Query) (domain.RestaurantResult, error) {
	if err := s.checkBudget(ctx, "restaurant"); err != nil {
		return domain.RestaurantResult{}, err
	}

	start := time.Now()
	res, err := s.inner.Restaurant(ctx, q)
	duration := time.Since(start)
	if err != nil {
		s.logger.Error("Restaurant generation failed",
			zap.String("model", s.model),
			zap.String("restaurant", q.RestaurantName),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.RestaurantResult{}, fmt.Errorf("generate restaurant: %w", err)
	}

	s.record(res.Usage)
	s.logger.Debug("Restaurant generated",
		zap.String("model", s.model),
		zap.String("restaurant", q.RestaurantName),
		zap.Int("menu_items", len(res.Restaurant.Menu)),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", res.Usage.TotalTokens),
	)
	return res, nil
}

// Suggest checks the budget, generates suggestions, and records usage.
func (s *InstrumentedSource) Suggest(ctx context.Context, q menu.SuggestionQuery) (domain.SuggestionsResult, error) {
	if err := s.checkBudget(ctx, "suggestions"); err != nil {
		return domain.SuggestionsResult{}, err
	}

	start := time.Now()
	res, err := s.inner.Suggest(ctx, q)
	duration := time.Since(start)
	if err != nil {
		s.logger.Error("Suggestion generation failed",
			zap.String("model", s.model),
			zap.Strings("cuisines", q.Cuisines),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.SuggestionsResult{}, fmt.Errorf("generate suggestions: %w", err)
	}

	s.record(res.Usage)
	s.logger.Debug("Suggestions generated",
		zap.String("model", s.model),
		zap.Int("count", len(res.Suggestions)),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", res.Usage.TotalTokens),
	)
	return res, nil
}

// HealthCheck delegates to the inner source when it supports health checks.
func (s *InstrumentedSource) HealthCheck(ctx context.Context) error {
	if hc, ok := s.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("content health check: %w", err)
		}
	}
	return nil
}

func (s *InstrumentedSource) checkBudget(ctx context.Context, kind string) error {
	if s.budget == nil {
		return nil
	}
	if err := s.budget.Check(ctx); err != nil {
		s.logger.Warn("Content budget exceeded",
			zap.String("model", s.model),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return fmt.Errorf("budget check: %w", err)
	}
	return nil
}

func (s *InstrumentedSource) record(u domain.TokenUsage) {
	if s.budget == nil || u.TotalTokens <= 0 {
		return
	}
	s.budget.Record(int64(u.TotalTokens))
	snap := s.budget.Snapshot()
	metrics.ContentBudgetTokensRemaining.WithLabelValues(s.model, "daily").Set(float64(snap.DailyRemaining))
	metrics.ContentBudgetTokensRemaining.WithLabelValues(s.model, "monthly").Set(float64(snap.MonthlyRemaining))
}
