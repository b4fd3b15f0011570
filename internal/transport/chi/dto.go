package chi

import (
	"time"

	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
	"github.com/kailas-cloud/findmyfood/internal/transport/alternate"
	dashboarduc "github.com/kailas-cloud/findmyfood/internal/usecase/dashboard"
	recommenduc "github.com/kailas-cloud/findmyfood/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/findmyfood/internal/usecase/search"
	usageuc "github.com/kailas-cloud/findmyfood/internal/usecase/usage"
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest           ErrorCode = "bad_request"
	ErrorCodeValidationFailed     ErrorCode = "validation_failed"
	ErrorCodeUnauthorized         ErrorCode = "unauthorized"
	ErrorCodeNotFound             ErrorCode = "not_found"
	ErrorCodeContentUnavailable   ErrorCode = "content_unavailable"
	ErrorCodeContentQuotaExceeded ErrorCode = "content_quota_exceeded"
	ErrorCodeInternalError        ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable,omitempty"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Restaurant          string   `json:"restaurant"`
	Location            string   `json:"location,omitempty"`
	TasteKeywords       []string `json:"taste_keywords,omitempty"`
	DietaryRequirements []string `json:"dietary_requirements,omitempty"`
	Allergens           []string `json:"allergens,omitempty"`
}

type nutritionResponse struct {
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	DietaryTags []string `json:"dietary_tags"`
	Note        string   `json:"note,omitempty"`
}

type itemResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Rating      float64            `json:"rating"`
	ReviewCount int                `json:"review_count"`
	Tags        []string           `json:"tags"`
	Nutrition   *nutritionResponse `json:"nutrition,omitempty"`
}

type matchResponse struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

type scoredItemResponse struct {
	Item         itemResponse  `json:"item"`
	Match        matchResponse `json:"match"`
	PerfectMatch bool          `json:"perfect_match"`
}

type restaurantResponse struct {
	Name               string   `json:"name"`
	Location           string   `json:"location,omitempty"`
	Cuisine            string   `json:"cuisine"`
	Rating             float64  `json:"rating"`
	PriceTier          string   `json:"price_tier"`
	Hours              string   `json:"hours,omitempty"`
	SimilarRestaurants []string `json:"similar_restaurants"`
	Popularity         int      `json:"popularity"`
}

// SearchResponse is the body of a successful POST /search.
type SearchResponse struct {
	Restaurant     restaurantResponse   `json:"restaurant"`
	Items          []scoredItemResponse `json:"items"`
	PerfectMatches []scoredItemResponse `json:"perfect_matches"`
}

type userResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	RatingCount int    `json:"rating_count"`
}

// UserListResponse is the body of GET /users.
type UserListResponse struct {
	Items []userResponse `json:"items"`
}

// RecommendationsResponse is the body of GET /users/{id}/recommendations.
type RecommendationsResponse struct {
	UserID int                  `json:"user_id"`
	Items  []alternate.DishJSON `json:"items"`
}

type neighborResponse struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	Similarity        float64  `json:"similarity"`
	CommonRestaurants []string `json:"common_restaurants"`
}

// NeighborsResponse is the body of GET /users/{id}/neighbors.
type NeighborsResponse struct {
	UserID int                `json:"user_id"`
	Items  []neighborResponse `json:"items"`
}

type suggestionResponse struct {
	Name    string `json:"name"`
	Cuisine string `json:"cuisine"`
	Reason  string `json:"reason,omitempty"`
}

type sectionResponse[T any] struct {
	State string         `json:"state"`
	Items []T            `json:"items"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// DashboardResponse is the body of GET /users/{id}/dashboard.
type DashboardResponse struct {
	UserID           int                                 `json:"user_id"`
	Location         string                              `json:"location,omitempty"`
	FavoriteCuisines []string                            `json:"favorite_cuisines"`
	Recommendations  sectionResponse[alternate.DishJSON] `json:"recommendations"`
	Suggestions      sectionResponse[suggestionResponse] `json:"suggestions"`
}

// UsageResponse is the body of GET /usage.
type UsageResponse struct {
	Period        string    `json:"period"`
	PeriodStartAt time.Time `json:"period_start_at"`
	PeriodEndAt   time.Time `json:"period_end_at"`
	Model         string    `json:"model,omitempty"`
	TokensUsed    int64     `json:"tokens_used"`
	TokensLimit   int64     `json:"tokens_limit"`
	Remaining     int64     `json:"tokens_remaining"`
	IsExhausted   bool      `json:"is_exhausted"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version,omitempty"`
}

func (r SearchRequest) toQuery() searchuc.Query {
	return searchuc.Query{
		RestaurantName: r.Restaurant,
		Location:       r.Location,
		TasteKeywords:  r.TasteKeywords,
		Requirements:   r.DietaryRequirements,
		Allergens:      r.Allergens,
	}
}

func searchResultToResponse(res searchuc.Result) SearchResponse {
	return SearchResponse{
		Restaurant:     restaurantToResponse(res.Restaurant),
		Items:          scoredItemsToResponse(res.Items),
		PerfectMatches: scoredItemsToResponse(res.PerfectMatches),
	}
}

func restaurantToResponse(r menu.Restaurant) restaurantResponse {
	return restaurantResponse{
		Name:               r.Name,
		Location:           r.Location,
		Cuisine:            r.Cuisine,
		Rating:             r.Rating,
		PriceTier:          r.PriceTier,
		Hours:              r.Hours,
		SimilarRestaurants: nonNilStrings(r.SimilarRestaurants),
		Popularity:         r.Popularity,
	}
}

func scoredItemsToResponse(items []searchuc.ScoredItem) []scoredItemResponse {
	out := make([]scoredItemResponse, len(items))
	for i, it := range items {
		out[i] = scoredItemResponse{
			Item:         itemToResponse(it.Item),
			Match:        matchResponse{Score: it.Match.Score, Reasons: nonNilStrings(it.Match.Reasons)},
			PerfectMatch: it.IsPerfectMatch(),
		}
	}
	return out
}

func itemToResponse(it menu.Item) itemResponse {
	resp := itemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Rating:      it.Rating,
		ReviewCount: it.ReviewCount,
		Tags:        nonNilStrings(it.Tags),
	}
	if n := it.Nutrition; n != nil {
		resp.Nutrition = &nutritionResponse{
			Calories:    n.Calories,
			Protein:     n.Protein,
			Carbs:       n.Carbs,
			Fat:         n.Fat,
			DietaryTags: nonNilStrings(n.DietaryTags),
			Note:        n.Note,
		}
	}
	return resp
}

func usersToResponse(users []recommenduc.User) UserListResponse {
	items := make([]userResponse, len(users))
	for i, u := range users {
		items[i] = userResponse{ID: u.ID, Name: u.Name, RatingCount: u.RatingCount}
	}
	return UserListResponse{Items: items}
}

func neighborsToResponse(userID int, ns []recommendation.Neighbor) NeighborsResponse {
	items := make([]neighborResponse, len(ns))
	for i, n := range ns {
		items[i] = neighborResponse{
			ID:                n.ID,
			Name:              n.Name,
			Similarity:        n.Similarity,
			CommonRestaurants: nonNilStrings(n.CommonRestaurants),
		}
	}
	return NeighborsResponse{UserID: userID, Items: items}
}

func usageToResponse(r usageuc.Report) UsageResponse {
	return UsageResponse{
		Period:        string(r.Period),
		PeriodStartAt: r.PeriodStart,
		PeriodEndAt:   r.PeriodEnd,
		Model:         r.Model,
		TokensUsed:    r.TokensUsed,
		TokensLimit:   r.Limit,
		Remaining:     r.Remaining,
		IsExhausted:   r.Exhausted,
	}
}

func (s *Server) dashboardToResponse(d dashboarduc.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		UserID:           d.UserID,
		Location:         d.Location,
		FavoriteCuisines: nonNilStrings(d.FavoriteCuisines),
		Recommendations: sectionResponse[alternate.DishJSON]{
			State: string(d.Recommendations.State),
			Items: alternate.FromDomain(d.Recommendations.Items),
		},
		Suggestions: sectionResponse[suggestionResponse]{
			State: string(d.Suggestions.State),
			Items: make([]suggestionResponse, 0, len(d.Suggestions.Items)),
		},
	}
	for _, sg := range d.Suggestions.Items {
		resp.Suggestions.Items = append(resp.Suggestions.Items,
			suggestionResponse{Name: sg.Name, Cuisine: sg.Cuisine, Reason: sg.Reason})
	}
	if err := d.Recommendations.Err; err != nil {
		e := s.errorBody(err)
		resp.Recommendations.Error = &e
	}
	if err := d.Suggestions.Err; err != nil {
		e := s.errorBody(err)
		resp.Suggestions.Error = &e
	}
	return resp
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
