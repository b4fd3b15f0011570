package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
	"github.com/kailas-cloud/findmyfood/internal/metrics"
)

// Request kinds, used as metric labels.
const (
	kindRestaurant  = "restaurant"
	kindSuggestions = "suggestions"
)

// DefaultSuggestionCount applies when a suggestion query leaves Count at zero.
const DefaultSuggestionCount = 3

// Generator is a content source using an OpenAI-compatible chat completion API.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	user        string
	logger      *zap.Logger
}

// Config holds the content provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	User        string
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible content source.
func NewGenerator(cfg *Config) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		user:        cfg.User,
		logger:      logger,
	}
}

// Restaurant implements domain.ContentSource.
func (g *Generator) Restaurant(ctx context.Context, q menu.Query) (domain.RestaurantResult, error) {
	var dto restaurantDTO
	usage, err := g.complete(ctx, kindRestaurant, buildRestaurantPrompt(q), &dto)
	if err != nil {
		return domain.RestaurantResult{}, err
	}
	return domain.RestaurantResult{Restaurant: dto.toDomain(q), Usage: usage}, nil
}

// Suggest implements domain.ContentSource.
func (g *Generator) Suggest(ctx context.Context, q menu.SuggestionQuery) (domain.SuggestionsResult, error) {
	if q.Count <= 0 {
		q.Count = DefaultSuggestionCount
	}
	var dto suggestionsDTO
	usage, err := g.complete(ctx, kindSuggestions, buildSuggestionsPrompt(q), &dto)
	if err != nil {
		return domain.SuggestionsResult{}, err
	}
	return domain.SuggestionsResult{Suggestions: dto.toDomain(q.Count), Usage: usage}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// complete runs one JSON-mode chat completion and decodes the reply into out.
// Transport metrics are recorded here for every outcome.
func (g *Generator) complete(ctx context.Context, kind, prompt string, out any) (domain.TokenUsage, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		User:        g.user,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		g.fail(kind, "api_error")
		return domain.TokenUsage{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		g.fail(kind, "empty_response")
		return domain.TokenUsage{}, fmt.Errorf("empty completion response: %w", domain.ErrContentUnavailable)
	}

	raw, err := extractJSON(resp.Choices[0].Message.Content)
	if err == nil {
		err = json.Unmarshal([]byte(raw), out)
	}
	if err != nil {
		g.fail(kind, "parse_error")
		g.logger.Warn("Unreadable completion",
			zap.String("kind", kind),
			zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
			zap.Error(err),
		)
		return domain.TokenUsage{}, fmt.Errorf("decode completion: %w: %w", domain.ErrContentUnavailable, err)
	}

	// Record success metrics
	metrics.ContentRequestsTotal.WithLabelValues(kind, g.model, "success").Inc()
	metrics.ContentRequestDuration.WithLabelValues(kind, g.model).Observe(duration.Seconds())

	usage := domain.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if usage.TotalTokens > 0 {
		metrics.ContentTokensTotal.WithLabelValues(g.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.ContentTokensTotal.WithLabelValues(g.model, "completion").Add(float64(usage.CompletionTokens))
	}
	return usage, nil
}

func (g *Generator) fail(kind, errorType string) {
	metrics.ContentRequestsTotal.WithLabelValues(kind, g.model, "error").Inc()
	metrics.ContentErrorsTotal.WithLabelValues(kind, g.model, errorType).Inc()
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrContentUnavailable so callers can offer a retry.
func parseAPIError(err error) error {
	wrap := domain.ErrContentUnavailable

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("completion request: %w", err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w: %w", wrap, err)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
