package domain

import (
	"context"

	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

// ContentSource is the shared restaurant-content contract between layers.
type ContentSource interface {
	Restaurant(ctx context.Context, q menu.Query) (RestaurantResult, error)
	Suggest(ctx context.Context, q menu.SuggestionQuery) (SuggestionsResult, error)
}

// HealthChecker verifies a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// TokenUsage is the cost of one generation call. It is zero on cache hits.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// RestaurantResult carries a generated restaurant and its token usage through the decorator chain.
type RestaurantResult struct {
	Restaurant menu.Restaurant
	Usage      TokenUsage
}

// SuggestionsResult carries generated suggestions and their token usage.
type SuggestionsResult struct {
	Suggestions []menu.Suggestion
	Usage       TokenUsage
}
