package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/match"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

type mockContent struct {
	fn    func(ctx context.Context, q menu.Query) (domain.RestaurantResult, error)
	calls int
	last  menu.Query
}

func (m *mockContent) Restaurant(ctx context.Context, q menu.Query) (domain.RestaurantResult, error) {
	m.calls++
	m.last = q
	return m.fn(ctx, q)
}

func restaurantWith(items ...menu.Item) func(context.Context, menu.Query) (domain.RestaurantResult, error) {
	return func(_ context.Context, q menu.Query) (domain.RestaurantResult, error) {
		return domain.RestaurantResult{
			Restaurant: menu.Restaurant{Name: q.RestaurantName, Menu: items},
			Usage:      domain.TokenUsage{TotalTokens: 42},
		}, nil
	}
}

func TestSearch_RequiresRestaurant(t *testing.T) {
	content := &mockContent{fn: restaurantWith()}
	svc := New(content, match.NewScorer(nil), nil)

	_, err := svc.Search(context.Background(), Query{RestaurantName: "   "})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if content.calls != 0 {
		t.Error("content source must not be called")
	}
}

func TestSearch_ScoresAndSelectsPerfectMatches(t *testing.T) {
	items := []menu.Item{
		{ID: "1", Name: "Grilled Tofu Bowl", Description: "spicy tofu with greens", Tags: []string{"Vegan"}},
		{ID: "2", Name: "Chicken Tikka", Description: "spicy chicken"},
		{ID: "3", Name: "Garden Salad", Description: "fresh greens"},
		{ID: "4", Name: "Peanut Noodles", Description: "peanut sauce"},
	}
	content := &mockContent{fn: restaurantWith(items...)}
	svc := New(content, match.NewScorer(match.FixedBase(70)), nil)

	res, err := svc.Search(context.Background(), Query{
		RestaurantName: "Kiln",
		TasteKeywords:  []string{"spicy", " "},
		Requirements:   []string{"vegan", "Vegan"},
		Allergens:      []string{"peanut"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != len(items) {
		t.Fatalf("items = %d, want %d", len(res.Items), len(items))
	}
	wantScores := []int{100, 0, 100, 0}
	for i, it := range res.Items {
		if it.Match.Score != wantScores[i] {
			t.Errorf("item %s score = %d, want %d", it.Item.Name, it.Match.Score, wantScores[i])
		}
	}
	if len(res.PerfectMatches) != 2 {
		t.Fatalf("perfect matches = %d, want 2", len(res.PerfectMatches))
	}
	if res.PerfectMatches[0].Item.ID != "1" || res.PerfectMatches[1].Item.ID != "3" {
		t.Errorf("equal scores must keep menu order: %+v", res.PerfectMatches)
	}
	if got := content.last.Requirements; !reflect.DeepEqual(got, []string{"vegan"}) {
		t.Errorf("requirements forwarded = %v", got)
	}
	if got := content.last.TasteKeywords; !reflect.DeepEqual(got, []string{"spicy"}) {
		t.Errorf("taste forwarded = %v", got)
	}
	if res.Usage.TotalTokens != 42 {
		t.Errorf("usage = %+v", res.Usage)
	}
}

func TestSearch_PerfectMatchesSortedByScore(t *testing.T) {
	items := []menu.Item{
		{ID: "a", Name: "Plain Rice"},
		{ID: "b", Name: "Smoky Aubergine"},
	}
	svc := New(&mockContent{fn: restaurantWith(items...)}, match.NewScorer(match.FixedBase(75)), nil)

	res, err := svc.Search(context.Background(), Query{RestaurantName: "Kiln", TasteKeywords: []string{"smoky"}})
	if err != nil {
		t.Fatal(err)
	}
	// 75 alone is below the threshold; 75+15 qualifies.
	if len(res.PerfectMatches) != 1 || res.PerfectMatches[0].Item.ID != "b" {
		t.Errorf("perfect matches = %+v", res.PerfectMatches)
	}
}

func TestSearch_EmptyMenu(t *testing.T) {
	svc := New(&mockContent{fn: restaurantWith()}, match.NewScorer(nil), nil)
	res, err := svc.Search(context.Background(), Query{RestaurantName: "Ghost Kitchen"})
	if err != nil {
		t.Fatalf("empty menu must not fail: %v", err)
	}
	if res.Items == nil || res.PerfectMatches == nil {
		t.Error("slices must be non-nil")
	}
	if len(res.Items) != 0 || len(res.PerfectMatches) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestSearch_ContentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"generic", errors.New("boom"), domain.ErrContentUnavailable},
		{"unavailable", domain.ErrContentUnavailable, domain.ErrContentUnavailable},
		{"quota", domain.ErrContentQuotaExceeded, domain.ErrContentQuotaExceeded},
		{"canceled", context.Canceled, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := &mockContent{fn: func(context.Context, menu.Query) (domain.RestaurantResult, error) {
				return domain.RestaurantResult{}, tt.err
			}}
			_, err := New(content, match.NewScorer(nil), nil).Search(context.Background(), Query{RestaurantName: "x"})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	t.Run("quota is not unavailable", func(t *testing.T) {
		content := &mockContent{fn: func(context.Context, menu.Query) (domain.RestaurantResult, error) {
			return domain.RestaurantResult{}, domain.ErrContentQuotaExceeded
		}}
		_, err := New(content, match.NewScorer(nil), nil).Search(context.Background(), Query{RestaurantName: "x"})
		if errors.Is(err, domain.ErrContentUnavailable) {
			t.Error("quota errors must not be reported as retryable unavailability")
		}
	})
}
