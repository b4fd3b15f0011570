package findmyfood

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	users, err := c.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 5 {
		t.Errorf("users = %d, want 5 from the seed dataset", len(users))
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown", addrs: []string{"localhost:1234"}}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_MissingDataset(t *testing.T) {
	_, err := New(context.Background(), WithDataset("/nonexistent/ratings.yaml"))
	if err == nil {
		t.Fatal("expected error for missing dataset file")
	}
}

func TestNew_FixedBaseOutOfRange(t *testing.T) {
	for _, base := range []int{10, 85, 120} {
		if _, err := New(context.Background(), WithFixedBaseScore(base)); err == nil {
			t.Errorf("base %d: expected error", base)
		}
	}
}

func TestNoopContent(t *testing.T) {
	noop := noopContent{}
	_, err := noop.Restaurant(context.Background(), restaurantQueryForTest())
	if !errors.Is(err, ErrContentUnavailable) {
		t.Fatalf("err = %v, want ErrContentUnavailable", err)
	}
	if noop.HealthCheck(context.Background()) == nil {
		t.Error("expected unhealthy noop content source")
	}
}

func TestContentAdapter(t *testing.T) {
	mock := &mockContent{restaurantFn: kiln}
	adapter := &contentAdapter{inner: mock}

	res, err := adapter.Restaurant(context.Background(), restaurantQueryForTest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.calls != 1 {
		t.Errorf("inner calls = %d, want 1", mock.calls)
	}
	if res.Restaurant.Name != "Kiln" || len(res.Restaurant.Menu) != 2 {
		t.Errorf("restaurant = %+v", res.Restaurant)
	}
	if res.Usage.TotalTokens != 120 {
		t.Errorf("total tokens = %d, want 120", res.Usage.TotalTokens)
	}
	if err := adapter.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck without checker = %v, want nil", err)
	}
}

func TestContentAdapter_Error(t *testing.T) {
	mock := &mockContent{
		restaurantFn: func(context.Context, RestaurantQuery) (Restaurant, TokenUsage, error) {
			return Restaurant{}, TokenUsage{}, errors.New("provider down")
		},
	}
	adapter := &contentAdapter{inner: mock}
	if _, err := adapter.Restaurant(context.Background(), restaurantQueryForTest()); err == nil {
		t.Fatal("expected error from adapter")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" || cfg.password != "secret" {
		t.Errorf("addrs = %v, password = %q", cfg.addrs, cfg.password)
	}

	cfg2 := &clientConfig{}
	WithRedis("localhost:6380", "pass").apply(cfg2)
	if cfg2.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg2.driver)
	}

	cfg3 := &clientConfig{}
	WithOpenAI("sk-test", "gpt-4o").apply(cfg3)
	WithOpenAIBaseURL("http://localhost:8000/v1").apply(cfg3)
	WithContentCacheTTL(time.Hour).apply(cfg3)
	if cfg3.openAIKey != "sk-test" || cfg3.openAIModel != "gpt-4o" || cfg3.openAIURL != "http://localhost:8000/v1" {
		t.Errorf("openai = (%q, %q, %q)", cfg3.openAIKey, cfg3.openAIModel, cfg3.openAIURL)
	}
	if cfg3.cacheTTL != time.Hour {
		t.Errorf("cacheTTL = %v, want 1h", cfg3.cacheTTL)
	}

	WithContentBudget(1000, 20000, true).apply(cfg3)
	if cfg3.dailyTokens != 1000 || cfg3.monthlyTokens != 20000 || !cfg3.rejectOverBudget {
		t.Errorf("budget = (%d, %d, %v)", cfg3.dailyTokens, cfg3.monthlyTokens, cfg3.rejectOverBudget)
	}

	cfg4 := &clientConfig{}
	WithDataset("ratings.yaml").apply(cfg4)
	WithNeighborCount(5).apply(cfg4)
	WithMinRating(3.5).apply(cfg4)
	WithFixedBaseScore(70).apply(cfg4)
	WithSeed(42).apply(cfg4)
	WithAlternateEngine("python3", "recommender.py").apply(cfg4)
	if cfg4.datasetPath != "ratings.yaml" || cfg4.neighborCount != 5 || cfg4.minRating != 3.5 {
		t.Errorf("recommendation options = %+v", cfg4)
	}
	if cfg4.fixedBase != 70 || cfg4.seed != 42 {
		t.Errorf("scoring options = (%d, %d)", cfg4.fixedBase, cfg4.seed)
	}
	if cfg4.alternateCommand != "python3" || len(cfg4.alternateArgs) != 1 {
		t.Errorf("alternate = (%q, %v)", cfg4.alternateCommand, cfg4.alternateArgs)
	}

	cfg5 := &clientConfig{}
	logger := slog.Default()
	WithLogger(logger).apply(cfg5)
	if cfg5.logger != logger {
		t.Error("expected logger to be set")
	}
	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg5)
	if cfg5.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}

	cfg6 := &clientConfig{}
	WithContentSource(&mockContent{restaurantFn: kiln}).apply(cfg6)
	if cfg6.content == nil {
		t.Error("expected non-nil content source")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
	obs.addTokens(10)
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("search", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("search", time.Now(), errors.New("fail"))
	obs.addTokens(120)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
		if f.GetName() == "findmyfood_sdk_calls_total" && len(f.GetMetric()) != 2 {
			t.Errorf("expected 2 call samples, got %d", len(f.GetMetric()))
		}
		if f.GetName() == "findmyfood_sdk_content_tokens_total" {
			if v := f.GetMetric()[0].GetCounter().GetValue(); v != 120 {
				t.Errorf("tokens = %v, want 120", v)
			}
		}
	}
	for _, name := range []string{
		"findmyfood_sdk_calls_total",
		"findmyfood_sdk_call_duration_seconds",
		"findmyfood_sdk_content_tokens_total",
	} {
		if !found[name] {
			t.Errorf("%s not found", name)
		}
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first observer: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second observer: %v", err)
	}
	if first.metrics.calls != second.metrics.calls {
		t.Error("second observer should reuse the registered counter")
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil)
	obs.observe("test.op", time.Now(), errors.New("test error"))
}

func restaurantQueryForTest() menu.Query {
	return menu.Query{RestaurantName: "Kiln", Location: "London"}
}
