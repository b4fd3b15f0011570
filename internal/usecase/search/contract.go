package search

import (
	"context"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/diet"
	"github.com/kailas-cloud/findmyfood/internal/domain/match"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

// ContentSource produces restaurant records for a search.
type ContentSource interface {
	Restaurant(ctx context.Context, q menu.Query) (domain.RestaurantResult, error)
}

// Scorer rates a menu item against a diner profile.
type Scorer interface {
	Score(item menu.Item, taste []string, requirements, allergens diet.Set) match.Result
}
