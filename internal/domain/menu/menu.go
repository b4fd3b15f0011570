// Package menu holds the restaurant and menu records produced by the content source.
package menu

// Nutrition is the optional nutrition block of a menu item.
type Nutrition struct {
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	DietaryTags []string
	Note        string
}

// Item is a single dish on a generated menu. Immutable once generated for a request.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Rating      float64
	ReviewCount int
	Tags        []string
	Nutrition   *Nutrition // nil when the source omitted it
}

// DietaryTags returns the nutrition dietary tags, or nil when nutrition is absent.
func (i Item) DietaryTags() []string {
	if i.Nutrition == nil {
		return nil
	}
	return i.Nutrition.DietaryTags
}

// Restaurant is a generated restaurant record with its menu.
type Restaurant struct {
	Name               string
	Location           string
	Cuisine            string
	Rating             float64
	PriceTier          string
	Hours              string
	SimilarRestaurants []string
	Popularity         int // 0-100
	Menu               []Item
}

// Query is a content-source request for one restaurant.
type Query struct {
	RestaurantName string
	Location       string
	TasteKeywords  []string
	Requirements   []string
	Allergens      []string
}

// SuggestionQuery asks the content source for restaurants matching a taste profile.
type SuggestionQuery struct {
	Cuisines []string
	Location string
	Count    int
}

// Suggestion is a short restaurant pointer shown on the dashboard.
type Suggestion struct {
	Name    string
	Cuisine string
	Reason  string
}
