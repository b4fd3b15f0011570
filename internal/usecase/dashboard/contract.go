package dashboard

import (
	"context"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
)

// Recommender answers the per-user questions the dashboard needs.
type Recommender interface {
	Recommend(ctx context.Context, userID, count int) ([]recommendation.Dish, error)
	FavoriteCuisines(ctx context.Context, userID int) ([]string, error)
}

// Suggester proposes restaurants for a set of cuisines.
type Suggester interface {
	Suggest(ctx context.Context, q menu.SuggestionQuery) (domain.SuggestionsResult, error)
}
