// Package alternate runs an external recommendation engine and speaks its JSON contract.
package alternate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
)

// CommonItemJSON is one shared rating fact on the wire.
type CommonItemJSON struct {
	Type           string   `json:"type"`
	Dish           string   `json:"dish,omitempty"`
	Restaurant     string   `json:"restaurant"`
	UserRating     *float64 `json:"user_rating,omitempty"`
	NeighborRating *float64 `json:"neighbor_rating,omitempty"`
	UserDish       string   `json:"user_dish,omitempty"`
	NeighborDish   string   `json:"neighbor_dish,omitempty"`
}

// SupporterJSON is one endorsing neighbor on the wire.
type SupporterJSON struct {
	NeighborID   int              `json:"neighbor_id"`
	NeighborName string           `json:"neighbor_name"`
	Similarity   float64          `json:"similarity"`
	Rating       float64          `json:"rating"`
	CommonItems  []CommonItemJSON `json:"common_items"`
}

// DishJSON is one recommended dish on the wire.
type DishJSON struct {
	DishName        string          `json:"dish_name"`
	Restaurant      string          `json:"restaurant"`
	PredictedRating float64         `json:"predicted_rating"`
	IsNewRestaurant bool            `json:"is_new_restaurant"`
	Supporters      []SupporterJSON `json:"supporters"`
}

// ErrorJSON is what the engine writes to stderr when it fails.
type ErrorJSON struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// FromDomain converts recommendations to the wire shape.
func FromDomain(dishes []recommendation.Dish) []DishJSON {
	out := make([]DishJSON, 0, len(dishes))
	for _, d := range dishes {
		dj := DishJSON{
			DishName:        d.DishName,
			Restaurant:      d.Restaurant,
			PredictedRating: d.PredictedRating,
			IsNewRestaurant: d.IsNewRestaurant,
			Supporters:      make([]SupporterJSON, 0, len(d.Supporters)),
		}
		for _, s := range d.Supporters {
			sj := SupporterJSON{
				NeighborID:   s.NeighborID,
				NeighborName: s.NeighborName,
				Similarity:   s.Similarity,
				Rating:       s.Rating,
				CommonItems:  make([]CommonItemJSON, 0, len(s.CommonItems)),
			}
			for _, c := range s.CommonItems {
				cj := CommonItemJSON{Type: string(c.Type), Restaurant: c.Restaurant}
				if c.Type == recommendation.SameDishSameRestaurant {
					ur, nr := c.UserRating, c.NeighborRating
					cj.Dish, cj.UserRating, cj.NeighborRating = c.Dish, &ur, &nr
				} else {
					cj.UserDish, cj.NeighborDish = c.UserDish, c.NeighborDish
				}
				sj.CommonItems = append(sj.CommonItems, cj)
			}
			dj.Supporters = append(dj.Supporters, sj)
		}
		out = append(out, dj)
	}
	return out
}

// Encode writes recommendations as an indented JSON array.
func Encode(w io.Writer, dishes []recommendation.Dish) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(FromDomain(dishes))
}

// Decode parses and validates engine output.
func Decode(data []byte) ([]recommendation.Dish, error) {
	var wire []DishJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	out := make([]recommendation.Dish, 0, len(wire))
	for i, dj := range wire {
		d, err := dj.toDomain()
		if err != nil {
			return nil, fmt.Errorf("recommendation %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (dj DishJSON) toDomain() (recommendation.Dish, error) {
	if strings.TrimSpace(dj.DishName) == "" || strings.TrimSpace(dj.Restaurant) == "" {
		return recommendation.Dish{}, fmt.Errorf("dish_name and restaurant are required")
	}
	d := recommendation.Dish{
		DishName:        dj.DishName,
		Restaurant:      dj.Restaurant,
		PredictedRating: dj.PredictedRating,
		IsNewRestaurant: dj.IsNewRestaurant,
		Supporters:      make([]recommendation.Supporter, 0, len(dj.Supporters)),
	}
	for _, sj := range dj.Supporters {
		s := recommendation.Supporter{
			NeighborID:   sj.NeighborID,
			NeighborName: sj.NeighborName,
			Similarity:   sj.Similarity,
			Rating:       sj.Rating,
		}
		for _, cj := range sj.CommonItems {
			c := recommendation.CommonItem{
				Type:       recommendation.CommonItemType(cj.Type),
				Restaurant: cj.Restaurant,
			}
			switch c.Type {
			case recommendation.SameDishSameRestaurant:
				c.Dish = cj.Dish
				if cj.UserRating != nil {
					c.UserRating = *cj.UserRating
				}
				if cj.NeighborRating != nil {
					c.NeighborRating = *cj.NeighborRating
				}
			case recommendation.DifferentDishSameRestaurant:
				c.UserDish, c.NeighborDish = cj.UserDish, cj.NeighborDish
			default:
				return recommendation.Dish{}, fmt.Errorf("unknown common item type %q", cj.Type)
			}
			s.CommonItems = append(s.CommonItems, c)
		}
		d.Supporters = append(d.Supporters, s)
	}
	return d, nil
}
