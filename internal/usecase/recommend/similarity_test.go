package recommend

import (
	"math"
	"reflect"
	"testing"

	"github.com/kailas-cloud/findmyfood/internal/domain/rating"
)

func r(user int, restaurant, dish string, value float64) rating.Rating {
	return rating.Rating{UserID: user, Restaurant: restaurant, Dish: dish, Value: value}
}

func TestUserSimilarity_NoOverlapIsZero(t *testing.T) {
	ratings := []rating.Rating{
		r(1, "Dishoom", "Black Daal", 5),
		r(2, "Sabor", "Tortilla", 4),
	}
	sim := UserSimilarity(1, 2, ratings)
	if sim.Score != 0 || math.IsNaN(sim.Score) {
		t.Errorf("Score = %v, want exactly 0", sim.Score)
	}
	if len(sim.CommonRestaurants) != 0 {
		t.Errorf("CommonRestaurants = %v, want none", sim.CommonRestaurants)
	}
}

func TestUserSimilarity_UnknownUserIsZero(t *testing.T) {
	sim := UserSimilarity(1, 99, []rating.Rating{r(1, "Dishoom", "Black Daal", 5)})
	if sim.Score != 0 {
		t.Errorf("Score = %v, want 0", sim.Score)
	}
}

func TestUserSimilarity_Symmetric(t *testing.T) {
	ratings := []rating.Rating{
		r(1, "Padella", "Pici", 4),
		r(1, "Dishoom", "Black Daal", 5),
		r(1, "Dishoom", "Chicken Ruby", 2),
		r(1, "Kiln", "Clay Pot", 3),
		r(2, "Kiln", "Laab", 5),
		r(2, "Dishoom", "Black Daal", 1),
		r(2, "Padella", "Cacio e Pepe", 4),
		r(2, "Hoppers", "Egg Hopper", 5),
	}
	ab := UserSimilarity(1, 2, ratings)
	ba := UserSimilarity(2, 1, ratings)
	if ab.Score != ba.Score {
		t.Errorf("similarity(1,2) = %v, similarity(2,1) = %v", ab.Score, ba.Score)
	}
	if ab.Score <= 0 || ab.Score > 1 {
		t.Errorf("Score = %v, want in (0,1]", ab.Score)
	}
	want := []string{"Dishoom", "Kiln", "Padella"}
	if !reflect.DeepEqual(ab.CommonRestaurants, want) || !reflect.DeepEqual(ba.CommonRestaurants, want) {
		t.Errorf("CommonRestaurants = %v / %v, want %v", ab.CommonRestaurants, ba.CommonRestaurants, want)
	}
}

func TestUserSimilarity_UsesRestaurantMeans(t *testing.T) {
	// 1 averages 3 at Dishoom and 4 at Padella; 2 rates 3 and 4: identical direction.
	ratings := []rating.Rating{
		r(1, "Dishoom", "Black Daal", 5),
		r(1, "Dishoom", "Chicken Ruby", 1),
		r(1, "Padella", "Pici", 4),
		r(2, "Dishoom", "Bacon Naan", 3),
		r(2, "Padella", "Pici", 4),
	}
	sim := UserSimilarity(1, 2, ratings)
	if math.Abs(sim.Score-1) > 1e-12 {
		t.Errorf("Score = %v, want 1", sim.Score)
	}
}

func TestUserSimilarity_KnownValue(t *testing.T) {
	ratings := []rating.Rating{
		r(1, "A", "x", 5), r(1, "B", "y", 1),
		r(2, "A", "x", 1), r(2, "B", "y", 5),
	}
	// (5*1 + 1*5) / (sqrt(26)*sqrt(26)) = 10/26
	want := 10.0 / 26.0
	if got := UserSimilarity(1, 2, ratings).Score; math.Abs(got-want) > 1e-12 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}
