package findmyfood

import (
	"context"

	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
	dashboarduc "github.com/kailas-cloud/findmyfood/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/findmyfood/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/findmyfood/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/findmyfood/internal/usecase/search"
	usageuc "github.com/kailas-cloud/findmyfood/internal/usecase/usage"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, q searchuc.Query) (searchuc.Result, error)
}

func (m *mockSearchUC) Search(ctx context.Context, q searchuc.Query) (searchuc.Result, error) {
	return m.searchFn(ctx, q)
}

// --- recommendUseCase mock ---

type mockRecommendUC struct {
	recommendFn func(ctx context.Context, userID, count int) ([]recommendation.Dish, error)
	neighborsFn func(ctx context.Context, userID int) ([]recommendation.Neighbor, error)
	usersFn     func(ctx context.Context) ([]recommenduc.User, error)
}

func (m *mockRecommendUC) Recommend(ctx context.Context, userID, count int) ([]recommendation.Dish, error) {
	return m.recommendFn(ctx, userID, count)
}

func (m *mockRecommendUC) Neighbors(ctx context.Context, userID int) ([]recommendation.Neighbor, error) {
	return m.neighborsFn(ctx, userID)
}

func (m *mockRecommendUC) Users(ctx context.Context) ([]recommenduc.User, error) {
	return m.usersFn(ctx)
}

// --- dashboardUseCase mock ---

type mockDashboardUC struct {
	loadFn      func(ctx context.Context, userID int, location string) (dashboarduc.Dashboard, error)
	invalidated []int
}

func (m *mockDashboardUC) Load(ctx context.Context, userID int, location string) (dashboarduc.Dashboard, error) {
	return m.loadFn(ctx, userID, location)
}

func (m *mockDashboardUC) Invalidate(userID int) {
	m.invalidated = append(m.invalidated, userID)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- usageUseCase mock ---

type mockUsageUC struct {
	getReportFn func(ctx context.Context, period usageuc.Period) usageuc.Report
}

func (m *mockUsageUC) GetReport(ctx context.Context, period usageuc.Period) usageuc.Report {
	return m.getReportFn(ctx, period)
}

// --- public ContentSource mock ---

type mockContent struct {
	restaurantFn func(ctx context.Context, q RestaurantQuery) (Restaurant, TokenUsage, error)
	suggestFn    func(ctx context.Context, q SuggestionQuery) ([]Suggestion, TokenUsage, error)
	calls        int
}

func (m *mockContent) Restaurant(ctx context.Context, q RestaurantQuery) (Restaurant, TokenUsage, error) {
	m.calls++
	return m.restaurantFn(ctx, q)
}

func (m *mockContent) Suggest(ctx context.Context, q SuggestionQuery) ([]Suggestion, TokenUsage, error) {
	if m.suggestFn == nil {
		return []Suggestion{}, TokenUsage{}, nil
	}
	return m.suggestFn(ctx, q)
}

func kiln(_ context.Context, q RestaurantQuery) (Restaurant, TokenUsage, error) {
	return Restaurant{
		Name:    q.Name,
		Cuisine: "Thai",
		Menu: []MenuItem{
			{ID: "1", Name: "Jungle Curry", Description: "spicy and herbal", Tags: []string{"spicy"}},
			{ID: "2", Name: "Garden Salad", Description: "fresh greens", Tags: []string{"vegan"}},
		},
	}, TokenUsage{PromptTokens: 80, CompletionTokens: 40, TotalTokens: 120}, nil
}
