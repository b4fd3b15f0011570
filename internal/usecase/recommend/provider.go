package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
	"github.com/kailas-cloud/findmyfood/internal/metrics"
)

// Provider sources, used as metric labels.
const (
	SourceAlternate = "alternate"
	SourceLocal     = "local"
)

// LocalProvider runs the in-process engine over the injected dataset.
type LocalProvider struct {
	data   DatasetSource
	engine *Engine
}

// NewLocalProvider creates the self-contained provider.
func NewLocalProvider(data DatasetSource, engine *Engine) *LocalProvider {
	return &LocalProvider{data: data, engine: engine}
}

// Recommend loads the dataset and ranks dishes for userID.
func (p *LocalProvider) Recommend(ctx context.Context, userID, count int) ([]recommendation.Dish, error) {
	ds, err := p.data.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return p.engine.Recommend(userID, count, ds), nil
}

// NamedProvider labels a provider for logs and metrics.
type NamedProvider struct {
	Name     string
	Provider Provider
}

// FallbackProvider tries providers in order. An error or an empty list from
// any provider but the last moves on to the next one; the last provider's
// answer is returned as is.
type FallbackProvider struct {
	chain  []NamedProvider
	logger *zap.Logger
}

// NewFallbackProvider creates a provider chain.
func NewFallbackProvider(logger *zap.Logger, chain ...NamedProvider) *FallbackProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackProvider{chain: chain, logger: logger}
}

// Recommend returns the first usable answer in the chain.
func (f *FallbackProvider) Recommend(ctx context.Context, userID, count int) ([]recommendation.Dish, error) {
	if len(f.chain) == 0 {
		return nil, errors.New("no recommendation providers configured")
	}

	for i, p := range f.chain {
		last := i == len(f.chain)-1

		start := time.Now()
		dishes, err := p.Provider.Recommend(ctx, userID, count)
		metrics.RecommendDuration.WithLabelValues(p.Name).Observe(time.Since(start).Seconds())

		switch {
		case err != nil:
			metrics.RecommendRequestsTotal.WithLabelValues(p.Name, "error").Inc()
			if last {
				return nil, fmt.Errorf("%s provider: %w", p.Name, err)
			}
			metrics.RecommendFallbacksTotal.WithLabelValues(p.Name, "error").Inc()
			f.logger.Warn("recommendation provider failed, falling back",
				zap.String("provider", p.Name),
				zap.String("next", f.chain[i+1].Name),
				zap.Int("user_id", userID),
				zap.Error(err),
			)
			continue
		case len(dishes) == 0:
			metrics.RecommendRequestsTotal.WithLabelValues(p.Name, "empty").Inc()
			if last {
				return []recommendation.Dish{}, nil
			}
			metrics.RecommendFallbacksTotal.WithLabelValues(p.Name, "empty").Inc()
			f.logger.Info("recommendation provider returned nothing, falling back",
				zap.String("provider", p.Name),
				zap.String("next", f.chain[i+1].Name),
				zap.Int("user_id", userID),
			)
			continue
		}

		metrics.RecommendRequestsTotal.WithLabelValues(p.Name, "ok").Inc()
		return dishes, nil
	}

	return []recommendation.Dish{}, nil
}
