package findmyfood

import "context"

// ContentSource generates restaurant data. Implement it to plug in a model
// other than the built-in OpenAI client. Errors should wrap
// ErrContentUnavailable when a retry may succeed.
type ContentSource interface {
	Restaurant(ctx context.Context, q RestaurantQuery) (Restaurant, TokenUsage, error)
	Suggest(ctx context.Context, q SuggestionQuery) ([]Suggestion, TokenUsage, error)
}

// RestaurantQuery is what the content source receives for a menu search.
type RestaurantQuery struct {
	Name          string
	Location      string
	TasteKeywords []string
	Requirements  []string
	Allergens     []string
}

// SuggestionQuery asks for restaurants serving the given cuisines.
type SuggestionQuery struct {
	Cuisines []string
	Location string
	Count    int
}

// TokenUsage counts model tokens spent on one call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
