package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/diet"
	"github.com/kailas-cloud/findmyfood/internal/domain/match"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

// Query is a restaurant search with the diner's profile.
type Query struct {
	RestaurantName string
	Location       string
	TasteKeywords  []string
	Requirements   []string
	Allergens      []string
}

// ScoredItem is one menu item with its match outcome.
type ScoredItem struct {
	Item  menu.Item
	Match match.Result
}

// IsPerfectMatch reports whether the item belongs to the perfect-match surface.
func (s ScoredItem) IsPerfectMatch() bool { return s.Match.IsPerfectMatch() }

// Result is the outcome of one search. Items keep menu order;
// PerfectMatches holds the perfect-match subset, best first.
type Result struct {
	Restaurant     menu.Restaurant
	Items          []ScoredItem
	PerfectMatches []ScoredItem
	Usage          domain.TokenUsage
}

// Service orchestrates content lookup, dietary filtering and scoring.
type Service struct {
	content ContentSource
	scorer  Scorer
	logger  *zap.Logger
}

// New creates a search service.
func New(content ContentSource, scorer Scorer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{content: content, scorer: scorer, logger: logger}
}

// Search fetches the restaurant and scores every menu item for the diner.
// An empty menu yields an empty result, not an error.
func (s *Service) Search(ctx context.Context, q Query) (Result, error) {
	name := strings.TrimSpace(q.RestaurantName)
	if name == "" {
		return Result{}, fmt.Errorf("%w: restaurant name is required", domain.ErrInvalidRequest)
	}

	requirements := diet.NewSet(q.Requirements...)
	allergens := diet.NewSet(q.Allergens...)
	taste := cleanKeywords(q.TasteKeywords)

	res, err := s.content.Restaurant(ctx, menu.Query{
		RestaurantName: name,
		Location:       strings.TrimSpace(q.Location),
		TasteKeywords:  taste,
		Requirements:   requirements.Labels(),
		Allergens:      allergens.Labels(),
	})
	if err != nil {
		return Result{}, contentError(err)
	}

	out := Result{
		Restaurant:     res.Restaurant,
		Items:          make([]ScoredItem, 0, len(res.Restaurant.Menu)),
		PerfectMatches: []ScoredItem{},
		Usage:          res.Usage,
	}
	for _, item := range res.Restaurant.Menu {
		scored := ScoredItem{Item: item, Match: s.scorer.Score(item, taste, requirements, allergens)}
		out.Items = append(out.Items, scored)
		if scored.IsPerfectMatch() {
			out.PerfectMatches = append(out.PerfectMatches, scored)
		}
	}
	sort.SliceStable(out.PerfectMatches, func(i, j int) bool {
		return out.PerfectMatches[i].Match.Score > out.PerfectMatches[j].Match.Score
	})

	s.logger.Debug("search scored",
		zap.String("restaurant", name),
		zap.Int("items", len(out.Items)),
		zap.Int("perfect_matches", len(out.PerfectMatches)),
	)
	return out, nil
}

// contentError keeps quota and cancellation errors intact and
// classifies everything else as a recoverable upstream failure.
func contentError(err error) error {
	switch {
	case errors.Is(err, domain.ErrContentQuotaExceeded),
		errors.Is(err, domain.ErrContentUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("fetch restaurant: %w", err)
	default:
		return fmt.Errorf("fetch restaurant: %w: %w", domain.ErrContentUnavailable, err)
	}
}

func cleanKeywords(kw []string) []string {
	out := make([]string, 0, len(kw))
	for _, k := range kw {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
