package findmyfood

// Nutrition is the optional nutrition block of a menu item.
type Nutrition struct {
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	DietaryTags []string
	Note        string
}

// MenuItem is one dish on a generated menu.
type MenuItem struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Rating      float64
	ReviewCount int
	Tags        []string
	Nutrition   *Nutrition // nil when unknown
}

// Restaurant is a generated restaurant with its menu.
type Restaurant struct {
	Name               string
	Location           string
	Cuisine            string
	Rating             float64
	PriceTier          string
	Hours              string
	SimilarRestaurants []string
	Popularity         int // 0-100
	Menu               []MenuItem
}

// Suggestion is a restaurant suggested for a set of cuisines.
type Suggestion struct {
	Name    string
	Cuisine string
	Reason  string
}

// SearchQuery describes a diner looking at one restaurant.
// Requirements and Allergens are matched case-insensitively.
type SearchQuery struct {
	Restaurant    string
	Location      string
	TasteKeywords []string
	Requirements  []string
	Allergens     []string
}

// ScoredItem is a menu item with its match score in [0,100].
type ScoredItem struct {
	Item         MenuItem
	Score        int
	Reasons      []string
	PerfectMatch bool
}

// SearchResult holds every scored item plus the perfect matches, best first.
type SearchResult struct {
	Restaurant     Restaurant
	Items          []ScoredItem
	PerfectMatches []ScoredItem
	TokensUsed     int
}

// CommonItemType tells how a shared rating relates target and neighbor.
type CommonItemType string

// Common item types.
const (
	SameDishSameRestaurant      CommonItemType = "same_dish_same_restaurant"
	DifferentDishSameRestaurant CommonItemType = "different_dish_same_restaurant"
)

// CommonItem explains a recommendation with a rating both diners share.
type CommonItem struct {
	Type           CommonItemType
	Restaurant     string
	Dish           string  // same dish only
	UserRating     float64 // same dish only
	NeighborRating float64 // same dish only
	UserDish       string  // different dish only
	NeighborDish   string  // different dish only
}

// Supporter is a neighbor whose rating backs a recommended dish.
type Supporter struct {
	NeighborID   int
	NeighborName string
	Similarity   float64
	Rating       float64
	CommonItems  []CommonItem
}

// Dish is a recommended dish.
type Dish struct {
	Name            string
	Restaurant      string
	PredictedRating float64
	IsNewRestaurant bool
	Supporters      []Supporter
}

// Neighbor is a diner similar to the target.
type Neighbor struct {
	ID                int
	Name              string
	Similarity        float64
	CommonRestaurants []string
}

// User is one diner of the dataset.
type User struct {
	ID          int
	Name        string
	RatingCount int
}

// SectionState reports how a dashboard section loaded.
type SectionState string

// Section states.
const (
	SectionOK    SectionState = "ok"
	SectionEmpty SectionState = "empty"
	SectionError SectionState = "error"
)

// Dashboard is the personal start page of a diner. Each section loads
// independently; a failed section carries its error and leaves the other intact.
type Dashboard struct {
	UserID               int
	Location             string
	FavoriteCuisines     []string
	Recommendations      []Dish
	RecommendationsState SectionState
	RecommendationsErr   error
	Suggestions          []Suggestion
	SuggestionsState     SectionState
	SuggestionsErr       error
}
