package contentcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/db"
	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

type mockSource struct {
	restaurant  domain.RestaurantResult
	suggestions domain.SuggestionsResult
	err         error
	calls       int
}

func (m *mockSource) Restaurant(_ context.Context, _ menu.Query) (domain.RestaurantResult, error) {
	m.calls++
	return m.restaurant, m.err
}

func (m *mockSource) Suggest(_ context.Context, _ menu.SuggestionQuery) (domain.SuggestionsResult, error) {
	m.calls++
	return m.suggestions, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn func(ctx context.Context, key string) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockKVStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func newTestCached(t *testing.T, inner *mockSource) (*Cached, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, time.Hour, nil, zap.NewNop()), ms
}

func sampleRestaurant() menu.Restaurant {
	return menu.Restaurant{
		Name:      "Dishoom",
		Location:  "London",
		Cuisine:   "Indian",
		Rating:    4.6,
		PriceTier: "££",
		Menu: []menu.Item{
			{ID: "1", Name: "House Black Daal", Tags: []string{"Vegetarian"}, Price: 8.5},
			{ID: "2", Name: "Chicken Ruby", Nutrition: &menu.Nutrition{Calories: 640, DietaryTags: []string{"Gluten-Free"}}},
		},
	}
}
