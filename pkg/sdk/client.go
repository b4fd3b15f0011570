package findmyfood

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/cli"
	"github.com/kailas-cloud/findmyfood/internal/db"
	"github.com/kailas-cloud/findmyfood/internal/db/memory"
	dbRedis "github.com/kailas-cloud/findmyfood/internal/db/redis"
	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/match"
	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
	"github.com/kailas-cloud/findmyfood/internal/metrics"
	budgetrepo "github.com/kailas-cloud/findmyfood/internal/repository/budget"
	"github.com/kailas-cloud/findmyfood/internal/repository/contentcache"
	"github.com/kailas-cloud/findmyfood/internal/repository/dataset"
	"github.com/kailas-cloud/findmyfood/internal/transport/alternate"
	openaiGen "github.com/kailas-cloud/findmyfood/internal/transport/openai"
	dashboarduc "github.com/kailas-cloud/findmyfood/internal/usecase/dashboard"
	"github.com/kailas-cloud/findmyfood/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/findmyfood/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/findmyfood/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/findmyfood/internal/usecase/search"
	usageuc "github.com/kailas-cloud/findmyfood/internal/usecase/usage"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 24 * time.Hour
	defaultModel            = "gpt-4o-mini"
	defaultTemperature      = 0.7
	defaultMaxTokens        = 2500
	defaultContentTimeout   = 45 * time.Second
)

// Internal interfaces so tests can swap the use cases.
type searchUseCase interface {
	Search(ctx context.Context, q searchuc.Query) (searchuc.Result, error)
}

type recommendUseCase interface {
	Recommend(ctx context.Context, userID, count int) ([]recommendation.Dish, error)
	Neighbors(ctx context.Context, userID int) ([]recommendation.Neighbor, error)
	Users(ctx context.Context) ([]recommenduc.User, error)
}

type dashboardUseCase interface {
	Load(ctx context.Context, userID int, location string) (dashboarduc.Dashboard, error)
	Invalidate(userID int)
}

// Client is the findmyfood SDK entry point. It is safe for concurrent use.
type Client struct {
	store        db.Store
	searchSvc    searchUseCase
	recommendSvc recommendUseCase
	dashboardSvc dashboardUseCase
	healthSvc    healthUseCase
	usageSvc     usageUseCase
	obs          *observer
}

// New creates a Client. The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:   db.DriverMemory,
		cacheTTL: defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.fixedBase != 0 && (cfg.fixedBase < match.MinBase || cfg.fixedBase >= match.MaxBase) {
		return nil, fmt.Errorf("findmyfood: fixed base score must be in [%d,%d), got %d",
			match.MinBase, match.MaxBase, cfg.fixedBase)
	}

	data, err := dataset.Open(cfg.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("findmyfood: %w", err)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("findmyfood: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(ctx, store, data, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case db.DriverMemory:
		return memory.NewStore(), nil
	case db.DriverValkey, db.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("findmyfood: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("findmyfood: unknown driver %q", cfg.driver)
	}
}

// contentChain is what the services need from the wrapped content source.
type contentChain interface {
	domain.ContentSource
	domain.HealthChecker
}

func wireClient(ctx context.Context, store db.Store, data *dataset.Repo, cfg *clientConfig, obs *observer) *Client {
	// Services log through zap; SDK callers observe through WithLogger.
	logger := zap.NewNop()

	model := cfg.openAIModel
	if model == "" {
		model = defaultModel
	}

	var base contentChain = noopContent{}
	switch {
	case cfg.content != nil:
		base = &contentAdapter{inner: cfg.content}
	case cfg.openAIKey != "":
		base = openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:      cfg.openAIKey,
			BaseURL:     cfg.openAIURL,
			Model:       model,
			Temperature: defaultTemperature,
			MaxTokens:   defaultMaxTokens,
			Timeout:     defaultContentTimeout,
			Logger:      logger,
		})
	}

	var budgetChecker generation.BudgetChecker
	var budgetReader usageuc.BudgetReader
	if cfg.dailyTokens > 0 || cfg.monthlyTokens > 0 {
		action := generation.BudgetActionWarn
		if cfg.rejectOverBudget {
			action = generation.BudgetActionReject
		}
		budget := generation.NewBudget(model, cfg.dailyTokens, cfg.monthlyTokens, action, logger).
			WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
		budgetChecker, budgetReader = budget, budget
	}

	cached := contentcache.New(base, store, cfg.cacheTTL, metrics.ContentCacheTotal, logger)
	content := generation.NewInstrumentedSource(cached, model, budgetChecker, logger)

	var scoreBase match.BaseScorer
	if cfg.fixedBase != 0 {
		scoreBase = match.FixedBase(cfg.fixedBase)
	} else {
		seed := cfg.seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano()) //nolint:gosec // non-negative clock
		}
		scoreBase = match.NewRandomBase(seed)
	}

	var engineOpts []recommenduc.EngineOption
	if cfg.neighborCount > 0 {
		engineOpts = append(engineOpts, recommenduc.WithNeighborCount(cfg.neighborCount))
	}
	if cfg.minRating > 0 {
		engineOpts = append(engineOpts, recommenduc.WithMinRating(cfg.minRating))
	}
	engine := recommenduc.NewEngine(engineOpts...)

	chain := []recommenduc.NamedProvider{{Name: "local", Provider: recommenduc.NewLocalProvider(data, engine)}}
	if cfg.alternateCommand != "" {
		invoker := alternate.NewInvoker(alternate.Config{
			Enabled: true,
			Command: cfg.alternateCommand,
			Args:    cfg.alternateArgs,
			Env:     cli.EngineEnv(cfg.datasetPath, cfg.neighborCount, cfg.minRating),
			Logger:  logger,
		})
		chain = append([]recommenduc.NamedProvider{{Name: "alternate", Provider: invoker}}, chain...)
	}
	recommendSvc := recommenduc.New(data, recommenduc.NewFallbackProvider(logger, chain...), engine, 0, 0)

	return &Client{
		store:        store,
		searchSvc:    searchuc.New(content, match.NewScorer(scoreBase), logger),
		recommendSvc: recommendSvc,
		dashboardSvc: dashboarduc.New(recommendSvc, content, logger),
		healthSvc:    healthuc.New(store, content, data),
		usageSvc:     usageuc.New(budgetReader, model),
		obs:          obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search generates the restaurant's menu and scores every item for the diner.
func (c *Client) Search(ctx context.Context, q SearchQuery) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	out, err := c.searchSvc.Search(ctx, searchuc.Query{
		RestaurantName: q.Restaurant,
		Location:       q.Location,
		TasteKeywords:  q.TasteKeywords,
		Requirements:   q.Requirements,
		Allergens:      q.Allergens,
	})
	if err != nil {
		return SearchResult{}, fmt.Errorf("search %q: %w", q.Restaurant, err)
	}
	c.obs.addTokens(out.Usage.TotalTokens)
	return searchResultFromDomain(out), nil
}

// Recommend returns up to count dishes for userID. Zero count means 4.
func (c *Client) Recommend(ctx context.Context, userID, count int) (dishes []Dish, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	out, err := c.recommendSvc.Recommend(ctx, userID, count)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return dishesFromDomain(out), nil
}

// Neighbors lists the diners most similar to userID.
func (c *Client) Neighbors(ctx context.Context, userID int) (ns []Neighbor, err error) {
	start := time.Now()
	defer func() { c.obs.observe("neighbors", start, err) }()

	out, err := c.recommendSvc.Neighbors(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("neighbors: %w", err)
	}
	return neighborsFromDomain(out), nil
}

// Users lists every diner in the dataset.
func (c *Client) Users(ctx context.Context) (users []User, err error) {
	start := time.Now()
	defer func() { c.obs.observe("users", start, err) }()

	out, err := c.recommendSvc.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	users = make([]User, len(out))
	for i, u := range out {
		users[i] = User{ID: u.ID, Name: u.Name, RatingCount: u.RatingCount}
	}
	return users, nil
}

// Dashboard loads the recommendations and suggestions of userID concurrently.
// Only an unknown user fails the call; section failures are reported per section.
func (c *Client) Dashboard(ctx context.Context, userID int, location string) (d Dashboard, err error) {
	start := time.Now()
	defer func() { c.obs.observe("dashboard", start, err) }()

	out, err := c.dashboardSvc.Load(ctx, userID, location)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	return dashboardFromDomain(out), nil
}

// RefreshDashboard drops the memoized recommendations of userID.
func (c *Client) RefreshDashboard(userID int) {
	c.dashboardSvc.Invalidate(userID)
}
