// Package recommendation holds the output shapes of dish recommendation:
// ranked dishes with the neighbors who endorse them and why.
package recommendation

// CommonItemType distinguishes the two kinds of shared rating history.
type CommonItemType string

const (
	// SameDishSameRestaurant means both diners rated the same dish at the same restaurant.
	SameDishSameRestaurant CommonItemType = "same_dish_same_restaurant"
	// DifferentDishSameRestaurant means both rated the restaurant, but different dishes.
	DifferentDishSameRestaurant CommonItemType = "different_dish_same_restaurant"
)

// CommonItem is one shared rating fact between the target diner and a neighbor.
// Dish, UserRating and NeighborRating are set for SameDishSameRestaurant;
// UserDish and NeighborDish for DifferentDishSameRestaurant.
type CommonItem struct {
	Type           CommonItemType
	Restaurant     string
	Dish           string
	UserRating     float64
	NeighborRating float64
	UserDish       string
	NeighborDish   string
}

// Supporter is a neighbor whose rating contributed to a recommendation.
type Supporter struct {
	NeighborID   int
	NeighborName string
	Similarity   float64
	Rating       float64
	CommonItems  []CommonItem
}

// Dish is one recommended dish. PredictedRating is the similarity-weighted
// mean of the supporters' ratings.
type Dish struct {
	DishName        string
	Restaurant      string
	PredictedRating float64
	IsNewRestaurant bool
	Supporters      []Supporter
}

// Neighbor is a diner compared against the target, with the restaurants both have rated.
type Neighbor struct {
	ID                int
	Name              string
	Similarity        float64
	CommonRestaurants []string
}
