package findmyfood

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
	dashboarduc "github.com/kailas-cloud/findmyfood/internal/usecase/dashboard"
	searchuc "github.com/kailas-cloud/findmyfood/internal/usecase/search"
)

// contentAdapter wraps a public ContentSource to satisfy domain.ContentSource.
type contentAdapter struct {
	inner ContentSource
}

func (a *contentAdapter) Restaurant(ctx context.Context, q menu.Query) (domain.RestaurantResult, error) {
	r, usage, err := a.inner.Restaurant(ctx, RestaurantQuery{
		Name:          q.RestaurantName,
		Location:      q.Location,
		TasteKeywords: q.TasteKeywords,
		Requirements:  q.Requirements,
		Allergens:     q.Allergens,
	})
	if err != nil {
		return domain.RestaurantResult{}, fmt.Errorf("restaurant: %w", err)
	}
	return domain.RestaurantResult{Restaurant: restaurantToDomain(r), Usage: usageToDomain(usage)}, nil
}

func (a *contentAdapter) Suggest(ctx context.Context, q menu.SuggestionQuery) (domain.SuggestionsResult, error) {
	ss, usage, err := a.inner.Suggest(ctx, SuggestionQuery{Cuisines: q.Cuisines, Location: q.Location, Count: q.Count})
	if err != nil {
		return domain.SuggestionsResult{}, fmt.Errorf("suggest: %w", err)
	}
	out := make([]menu.Suggestion, len(ss))
	for i, s := range ss {
		out[i] = menu.Suggestion{Name: s.Name, Cuisine: s.Cuisine, Reason: s.Reason}
	}
	return domain.SuggestionsResult{Suggestions: out, Usage: usageToDomain(usage)}, nil
}

// HealthCheck delegates when the inner source can check itself.
func (a *contentAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// noopContent fails every call (used when no content source is configured).
type noopContent struct{}

var errNoContent = fmt.Errorf(
	"findmyfood: content source not configured (use WithOpenAI or WithContentSource): %w",
	domain.ErrContentUnavailable,
)

func (noopContent) Restaurant(context.Context, menu.Query) (domain.RestaurantResult, error) {
	return domain.RestaurantResult{}, errNoContent
}

func (noopContent) Suggest(context.Context, menu.SuggestionQuery) (domain.SuggestionsResult, error) {
	return domain.SuggestionsResult{}, errNoContent
}

func (noopContent) HealthCheck(context.Context) error {
	return errors.New("content source not configured")
}

func usageToDomain(u TokenUsage) domain.TokenUsage {
	return domain.TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

func restaurantToDomain(r Restaurant) menu.Restaurant {
	items := make([]menu.Item, len(r.Menu))
	for i, it := range r.Menu {
		items[i] = menu.Item{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Rating:      it.Rating,
			ReviewCount: it.ReviewCount,
			Tags:        it.Tags,
		}
		if n := it.Nutrition; n != nil {
			items[i].Nutrition = &menu.Nutrition{
				Calories:    n.Calories,
				Protein:     n.Protein,
				Carbs:       n.Carbs,
				Fat:         n.Fat,
				DietaryTags: n.DietaryTags,
				Note:        n.Note,
			}
		}
	}
	return menu.Restaurant{
		Name:               r.Name,
		Location:           r.Location,
		Cuisine:            r.Cuisine,
		Rating:             r.Rating,
		PriceTier:          r.PriceTier,
		Hours:              r.Hours,
		SimilarRestaurants: r.SimilarRestaurants,
		Popularity:         r.Popularity,
		Menu:               items,
	}
}

func restaurantFromDomain(r menu.Restaurant) Restaurant {
	out := Restaurant{
		Name:               r.Name,
		Location:           r.Location,
		Cuisine:            r.Cuisine,
		Rating:             r.Rating,
		PriceTier:          r.PriceTier,
		Hours:              r.Hours,
		SimilarRestaurants: r.SimilarRestaurants,
		Popularity:         r.Popularity,
		Menu:               make([]MenuItem, len(r.Menu)),
	}
	for i, it := range r.Menu {
		out.Menu[i] = itemFromDomain(it)
	}
	return out
}

func itemFromDomain(it menu.Item) MenuItem {
	out := MenuItem{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Rating:      it.Rating,
		ReviewCount: it.ReviewCount,
		Tags:        it.Tags,
	}
	if n := it.Nutrition; n != nil {
		out.Nutrition = &Nutrition{
			Calories:    n.Calories,
			Protein:     n.Protein,
			Carbs:       n.Carbs,
			Fat:         n.Fat,
			DietaryTags: n.DietaryTags,
			Note:        n.Note,
		}
	}
	return out
}

func searchResultFromDomain(r searchuc.Result) SearchResult {
	return SearchResult{
		Restaurant:     restaurantFromDomain(r.Restaurant),
		Items:          scoredFromDomain(r.Items),
		PerfectMatches: scoredFromDomain(r.PerfectMatches),
		TokensUsed:     r.Usage.TotalTokens,
	}
}

func scoredFromDomain(items []searchuc.ScoredItem) []ScoredItem {
	out := make([]ScoredItem, len(items))
	for i, it := range items {
		out[i] = ScoredItem{
			Item:         itemFromDomain(it.Item),
			Score:        it.Match.Score,
			Reasons:      it.Match.Reasons,
			PerfectMatch: it.IsPerfectMatch(),
		}
	}
	return out
}

func dishesFromDomain(dishes []recommendation.Dish) []Dish {
	out := make([]Dish, len(dishes))
	for i, d := range dishes {
		out[i] = Dish{
			Name:            d.DishName,
			Restaurant:      d.Restaurant,
			PredictedRating: d.PredictedRating,
			IsNewRestaurant: d.IsNewRestaurant,
			Supporters:      make([]Supporter, len(d.Supporters)),
		}
		for j, s := range d.Supporters {
			sup := Supporter{
				NeighborID:   s.NeighborID,
				NeighborName: s.NeighborName,
				Similarity:   s.Similarity,
				Rating:       s.Rating,
				CommonItems:  make([]CommonItem, len(s.CommonItems)),
			}
			for k, c := range s.CommonItems {
				sup.CommonItems[k] = CommonItem{
					Type:           CommonItemType(c.Type),
					Restaurant:     c.Restaurant,
					Dish:           c.Dish,
					UserRating:     c.UserRating,
					NeighborRating: c.NeighborRating,
					UserDish:       c.UserDish,
					NeighborDish:   c.NeighborDish,
				}
			}
			out[i].Supporters[j] = sup
		}
	}
	return out
}

func neighborsFromDomain(ns []recommendation.Neighbor) []Neighbor {
	out := make([]Neighbor, len(ns))
	for i, n := range ns {
		out[i] = Neighbor{ID: n.ID, Name: n.Name, Similarity: n.Similarity, CommonRestaurants: n.CommonRestaurants}
	}
	return out
}

func dashboardFromDomain(d dashboarduc.Dashboard) Dashboard {
	out := Dashboard{
		UserID:               d.UserID,
		Location:             d.Location,
		FavoriteCuisines:     d.FavoriteCuisines,
		Recommendations:      dishesFromDomain(d.Recommendations.Items),
		RecommendationsState: SectionState(d.Recommendations.State),
		RecommendationsErr:   d.Recommendations.Err,
		Suggestions:          make([]Suggestion, len(d.Suggestions.Items)),
		SuggestionsState:     SectionState(d.Suggestions.State),
		SuggestionsErr:       d.Suggestions.Err,
	}
	for i, s := range d.Suggestions.Items {
		out.Suggestions[i] = Suggestion{Name: s.Name, Cuisine: s.Cuisine, Reason: s.Reason}
	}
	return out
}
