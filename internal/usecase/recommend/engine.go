package recommend

import (
	"sort"

	"github.com/kailas-cloud/findmyfood/internal/domain/rating"
	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
)

// Engine defaults.
const (
	// DefaultNeighborCount bounds the evidence pool independently of the requested count.
	DefaultNeighborCount = 3
	// DefaultMinRating is the lowest neighbor rating that endorses a dish.
	DefaultMinRating = 4.0
)

// Engine is the in-process collaborative-filtering recommender.
// It holds no state between calls and is safe for concurrent use.
type Engine struct {
	neighborCount int
	minRating     float64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithNeighborCount overrides how many similar diners are consulted.
func WithNeighborCount(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.neighborCount = n
		}
	}
}

// WithMinRating overrides the endorsement threshold.
func WithMinRating(v float64) EngineOption {
	return func(e *Engine) {
		if v >= rating.MinValue && v <= rating.MaxValue {
			e.minRating = v
		}
	}
}

// NewEngine creates an engine with the default neighbor count and threshold.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{neighborCount: DefaultNeighborCount, minRating: DefaultMinRating}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Neighbors returns every diner with positive similarity and a shared restaurant,
// most similar first. Ties keep ascending user id order.
func (e *Engine) Neighbors(targetID int, data rating.Dataset) []recommendation.Neighbor {
	var out []recommendation.Neighbor
	for _, id := range data.UserIDs() {
		if id == targetID {
			continue
		}
		sim := UserSimilarity(targetID, id, data.Ratings)
		if sim.Score <= 0 || len(sim.CommonRestaurants) == 0 {
			continue
		}
		out = append(out, recommendation.Neighbor{
			ID:                id,
			Name:              data.Users.Name(id),
			Similarity:        sim.Score,
			CommonRestaurants: sim.CommonRestaurants,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	return out
}

type candidate struct {
	dish        recommendation.Dish
	weightedSum float64
	weightSum   float64
}

func (c *candidate) add(similarity, value float64) {
	c.weightedSum += similarity * value
	c.weightSum += similarity
}

// predicted is the similarity-weighted mean; undefined without positive weight.
func (c *candidate) predicted() (float64, bool) {
	if c.weightSum <= 0 {
		return 0, false
	}
	return c.weightedSum / c.weightSum, true
}

// Recommend ranks dishes the target has not rated, endorsed by the most similar diners.
// Dishes at restaurants new to the target come first, then higher predicted rating.
// An empty result is returned when no neighbor qualifies.
func (e *Engine) Recommend(targetID, topN int, data rating.Dataset) []recommendation.Dish {
	if topN <= 0 {
		return []recommendation.Dish{}
	}

	own := data.ByUser(targetID)
	visited := make(map[string]struct{}, len(own))
	tried := make(map[rating.Key]struct{}, len(own))
	for _, r := range own {
		visited[r.Restaurant] = struct{}{}
		tried[r.Key()] = struct{}{}
	}

	neighbors := e.Neighbors(targetID, data)
	if len(neighbors) > e.neighborCount {
		neighbors = neighbors[:e.neighborCount]
	}

	byKey := make(map[rating.Key]*candidate)
	var order []rating.Key

	for _, n := range neighbors {
		theirs := data.ByUser(n.ID)
		common := commonItems(own, theirs, e.minRating)

		for _, endorsed := range meanByDish(theirs) {
			key := endorsed.key
			if _, ok := tried[key]; ok {
				continue
			}
			if endorsed.value < e.minRating {
				continue
			}

			c, ok := byKey[key]
			if !ok {
				_, seen := visited[key.Restaurant]
				c = &candidate{dish: recommendation.Dish{
					DishName:        key.Dish,
					Restaurant:      key.Restaurant,
					IsNewRestaurant: !seen,
				}}
				byKey[key] = c
				order = append(order, key)
			}
			c.add(n.Similarity, endorsed.value)
			c.dish.Supporters = append(c.dish.Supporters, recommendation.Supporter{
				NeighborID:   n.ID,
				NeighborName: n.Name,
				Similarity:   n.Similarity,
				Rating:       endorsed.value,
				CommonItems:  common,
			})
		}
	}

	dishes := make([]recommendation.Dish, 0, len(order))
	for _, key := range order {
		c := byKey[key]
		p, ok := c.predicted()
		if !ok {
			continue
		}
		c.dish.PredictedRating = p
		dishes = append(dishes, c.dish)
	}

	sort.SliceStable(dishes, func(i, j int) bool {
		if dishes[i].IsNewRestaurant != dishes[j].IsNewRestaurant {
			return dishes[i].IsNewRestaurant
		}
		return dishes[i].PredictedRating > dishes[j].PredictedRating
	})

	if len(dishes) > topN {
		dishes = dishes[:topN]
	}
	return dishes
}

type dishMean struct {
	key   rating.Key
	value float64
}

// meanByDish collapses repeated ratings of one dish into their mean, in first-seen order.
func meanByDish(ratings []rating.Rating) []dishMean {
	sums := make(map[rating.Key]float64)
	counts := make(map[rating.Key]int)
	var keys []rating.Key
	for _, r := range ratings {
		k := r.Key()
		if _, ok := counts[k]; !ok {
			keys = append(keys, k)
		}
		sums[k] += r.Value
		counts[k]++
	}
	out := make([]dishMean, 0, len(keys))
	for _, k := range keys {
		out = append(out, dishMean{key: k, value: sums[k] / float64(counts[k])})
	}
	return out
}

// commonItems cross-joins the liked dishes (rated at least minRating) of two
// histories on restaurant. Each distinct pairing is reported once.
func commonItems(own, theirs []rating.Rating, minRating float64) []recommendation.CommonItem {
	type comboKey struct {
		kind             recommendation.CommonItemType
		restaurant, a, b string
	}
	seen := make(map[comboKey]struct{})
	var out []recommendation.CommonItem

	for _, u := range own {
		if u.Value < minRating {
			continue
		}
		for _, n := range theirs {
			if u.Restaurant != n.Restaurant || n.Value < minRating {
				continue
			}
			var item recommendation.CommonItem
			var ck comboKey
			if u.Dish == n.Dish {
				ck = comboKey{kind: recommendation.SameDishSameRestaurant, restaurant: u.Restaurant, a: u.Dish}
				item = recommendation.CommonItem{
					Type:           recommendation.SameDishSameRestaurant,
					Restaurant:     u.Restaurant,
					Dish:           u.Dish,
					UserRating:     u.Value,
					NeighborRating: n.Value,
				}
			} else {
				ck = comboKey{kind: recommendation.DifferentDishSameRestaurant, restaurant: u.Restaurant, a: u.Dish, b: n.Dish}
				item = recommendation.CommonItem{
					Type:         recommendation.DifferentDishSameRestaurant,
					Restaurant:   u.Restaurant,
					UserDish:     u.Dish,
					NeighborDish: n.Dish,
				}
			}
			if _, dup := seen[ck]; dup {
				continue
			}
			seen[ck] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
