package recommend

import (
	"math"
	"sort"

	"github.com/kailas-cloud/findmyfood/internal/domain/rating"
)

// Similarity is the affinity between a target diner and a neighbor.
// CommonRestaurants is sorted and kept for later explanation.
type Similarity struct {
	TargetID          int
	NeighborID        int
	Score             float64
	CommonRestaurants []string
}

// restaurantMeans averages one user's ratings per restaurant.
func restaurantMeans(userID int, ratings []rating.Rating) map[string]float64 {
	type acc struct {
		sum float64
		n   int
	}
	accs := make(map[string]*acc)
	for _, r := range ratings {
		if r.UserID != userID {
			continue
		}
		a, ok := accs[r.Restaurant]
		if !ok {
			a = &acc{}
			accs[r.Restaurant] = a
		}
		a.sum += r.Value
		a.n++
	}
	means := make(map[string]float64, len(accs))
	for name, a := range accs {
		means[name] = a.sum / float64(a.n)
	}
	return means
}

// UserSimilarity computes cosine similarity between two diners over the
// restaurants both have rated, comparing per-restaurant mean ratings.
// No overlap, or a zero vector, yields 0.
func UserSimilarity(targetID, neighborID int, ratings []rating.Rating) Similarity {
	sim := Similarity{TargetID: targetID, NeighborID: neighborID}

	a := restaurantMeans(targetID, ratings)
	b := restaurantMeans(neighborID, ratings)

	for name := range a {
		if _, ok := b[name]; ok {
			sim.CommonRestaurants = append(sim.CommonRestaurants, name)
		}
	}
	if len(sim.CommonRestaurants) == 0 {
		return sim
	}
	// Fixed order keeps the float sums identical in both directions.
	sort.Strings(sim.CommonRestaurants)

	var dot, normA, normB float64
	for _, name := range sim.CommonRestaurants {
		dot += a[name] * b[name]
		normA += a[name] * a[name]
		normB += b[name] * b[name]
	}
	if normA == 0 || normB == 0 {
		return sim
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case math.IsNaN(score) || score < 0:
		score = 0
	case score > 1:
		score = 1
	}
	sim.Score = score
	return sim
}
