package recommend

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
)

// Count limits for a recommendation request.
const (
	DefaultCount = 4
	MaxCount     = 50
)

// User is one entry of the diner directory.
type User struct {
	ID          int
	Name        string
	RatingCount int
}

// Service answers recommendation, neighbor, and directory queries.
type Service struct {
	data         DatasetSource
	provider     Provider
	engine       *Engine
	defaultCount int
	maxCount     int
}

// New creates a recommendation service. Non-positive counts fall back to the defaults.
func New(data DatasetSource, provider Provider, engine *Engine, defaultCount, maxCount int) *Service {
	if defaultCount <= 0 {
		defaultCount = DefaultCount
	}
	if maxCount <= 0 {
		maxCount = MaxCount
	}
	if defaultCount > maxCount {
		defaultCount = maxCount
	}
	return &Service{
		data:         data,
		provider:     provider,
		engine:       engine,
		defaultCount: defaultCount,
		maxCount:     maxCount,
	}
}

// DefaultCount returns the count used when a request leaves it at zero.
func (s *Service) DefaultCount() int { return s.defaultCount }

// Recommend returns up to count dishes for userID. Zero count means the default.
func (s *Service) Recommend(ctx context.Context, userID, count int) ([]recommendation.Dish, error) {
	if count == 0 {
		count = s.defaultCount
	}
	if count < 0 || count > s.maxCount {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", domain.ErrInvalidRequest, s.maxCount)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	dishes, err := s.provider.Recommend(ctx, userID, count)
	if err != nil {
		return nil, fmt.Errorf("recommend for user %d: %w", userID, err)
	}
	if len(dishes) > count {
		dishes = dishes[:count]
	}
	if dishes == nil {
		dishes = []recommendation.Dish{}
	}
	return dishes, nil
}

// Neighbors lists diners similar to userID, most similar first.
func (s *Service) Neighbors(ctx context.Context, userID int) ([]recommendation.Neighbor, error) {
	ds, err := s.data.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if !ds.HasUser(userID) {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	out := s.engine.Neighbors(userID, ds)
	if out == nil {
		out = []recommendation.Neighbor{}
	}
	return out, nil
}

// FavoriteCuisines returns the cuisines userID rates at or above the endorsement threshold.
func (s *Service) FavoriteCuisines(ctx context.Context, userID int) ([]string, error) {
	ds, err := s.data.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if !ds.HasUser(userID) {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return ds.FavoriteCuisines(userID, s.engine.minRating), nil
}

// Users lists every known diner by ascending id.
func (s *Service) Users(ctx context.Context) ([]User, error) {
	ds, err := s.data.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	counts := make(map[int]int)
	for _, r := range ds.Ratings {
		counts[r.UserID]++
	}
	ids := ds.UserIDs()
	out := make([]User, 0, len(ids))
	for _, id := range ids {
		out = append(out, User{ID: id, Name: ds.Users.Name(id), RatingCount: counts[id]})
	}
	return out, nil
}

func (s *Service) requireUser(ctx context.Context, userID int) error {
	ds, err := s.data.Dataset(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if !ds.HasUser(userID) {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}
