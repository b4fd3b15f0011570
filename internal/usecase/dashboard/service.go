package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
	"github.com/kailas-cloud/findmyfood/internal/metrics"
)

// Dashboard defaults.
const (
	DefaultRecommendationCount = 4
	DefaultSuggestionCount     = 3
	DefaultMemoTTL             = 5 * time.Minute
)

// Section names, used as metric labels.
const (
	SectionRecommendations = "recommendations"
	SectionSuggestions     = "suggestions"
)

// SectionState is the outcome of one dashboard section.
type SectionState string

// Section states.
const (
	SectionOK    SectionState = "ok"
	SectionEmpty SectionState = "empty"
	SectionError SectionState = "error"
)

// Section is one independently loaded part of the dashboard.
// Err is set only in the error state.
type Section[T any] struct {
	State SectionState
	Items []T
	Err   error
}

// Dashboard is the personalised landing view of one diner.
type Dashboard struct {
	UserID           int
	Location         string
	FavoriteCuisines []string
	Recommendations  Section[recommendation.Dish]
	Suggestions      Section[menu.Suggestion]
}

// Service loads dashboards. Recommendations are memoized per user.
type Service struct {
	recs            Recommender
	suggest         Suggester
	recCount        int
	suggestionCount int
	memo            *Memo[[]recommendation.Dish]
	logger          *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRecommendationCount sets how many dishes the dashboard shows.
func WithRecommendationCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recCount = n
		}
	}
}

// WithSuggestionCount sets how many restaurant suggestions are requested.
func WithSuggestionCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.suggestionCount = n
		}
	}
}

// WithMemoTTL sets how long memoized recommendations live.
func WithMemoTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.memo = newRecommendationMemo(ttl)
	}
}

// New creates a dashboard service.
func New(recs Recommender, suggest Suggester, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		recs:            recs,
		suggest:         suggest,
		recCount:        DefaultRecommendationCount,
		suggestionCount: DefaultSuggestionCount,
		memo:            newRecommendationMemo(DefaultMemoTTL),
		logger:          logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func newRecommendationMemo(ttl time.Duration) *Memo[[]recommendation.Dish] {
	return NewMemo("recommendations", ttl, func(d []recommendation.Dish) bool { return len(d) == 0 })
}

// Load assembles the dashboard. The sections load concurrently and fail independently;
// only an unknown user or a dataset failure fails the whole call.
func (s *Service) Load(ctx context.Context, userID int, location string) (Dashboard, error) {
	cuisines, err := s.recs.FavoriteCuisines(ctx, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("favorite cuisines: %w", err)
	}

	d := Dashboard{
		UserID:           userID,
		Location:         strings.TrimSpace(location),
		FavoriteCuisines: cuisines,
	}

	var g errgroup.Group
	g.Go(func() error {
		d.Recommendations = s.loadRecommendations(ctx, userID)
		return nil
	})
	g.Go(func() error {
		d.Suggestions = s.loadSuggestions(ctx, cuisines, d.Location)
		return nil
	})
	_ = g.Wait()

	return d, nil
}

// Invalidate drops the memoized recommendations of userID.
func (s *Service) Invalidate(userID int) {
	key := recommendationKey(userID, s.recCount)
	if st, ok := s.memo.Peek(key); ok {
		s.logger.Debug("dropping memoized recommendations",
			zap.Int("user_id", userID),
			zap.String("state", string(st)),
		)
	}
	s.memo.Invalidate(key)
}

func (s *Service) loadRecommendations(ctx context.Context, userID int) Section[recommendation.Dish] {
	dishes, _, err := s.memo.Get(ctx, recommendationKey(userID, s.recCount),
		func(ctx context.Context) ([]recommendation.Dish, error) {
			return s.recs.Recommend(ctx, userID, s.recCount)
		})
	if err != nil {
		s.logger.Warn("dashboard recommendations failed", zap.Int("user_id", userID), zap.Error(err))
		return failed[recommendation.Dish](SectionRecommendations, err)
	}
	return loaded(SectionRecommendations, dishes)
}

func (s *Service) loadSuggestions(ctx context.Context, cuisines []string, location string) Section[menu.Suggestion] {
	if len(cuisines) == 0 {
		return loaded[menu.Suggestion](SectionSuggestions, nil)
	}
	res, err := s.suggest.Suggest(ctx, menu.SuggestionQuery{
		Cuisines: cuisines,
		Location: location,
		Count:    s.suggestionCount,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrContentUnavailable) && !errors.Is(err, domain.ErrContentQuotaExceeded) {
			err = fmt.Errorf("%w: %w", domain.ErrContentUnavailable, err)
		}
		s.logger.Warn("dashboard suggestions failed", zap.Strings("cuisines", cuisines), zap.Error(err))
		return failed[menu.Suggestion](SectionSuggestions, err)
	}
	items := res.Suggestions
	if len(items) > s.suggestionCount {
		items = items[:s.suggestionCount]
	}
	return loaded(SectionSuggestions, items)
}

func loaded[T any](name string, items []T) Section[T] {
	state := SectionOK
	if len(items) == 0 {
		state = SectionEmpty
		items = []T{}
	}
	metrics.DashboardSectionsTotal.WithLabelValues(name, string(state)).Inc()
	return Section[T]{State: state, Items: items}
}

func failed[T any](name string, err error) Section[T] {
	metrics.DashboardSectionsTotal.WithLabelValues(name, string(SectionError)).Inc()
	return Section[T]{State: SectionError, Items: []T{}, Err: err}
}

func recommendationKey(userID, count int) string {
	return strconv.Itoa(userID) + ":" + strconv.Itoa(count)
}
