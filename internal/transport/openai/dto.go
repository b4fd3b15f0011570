package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

// flexFloat accepts a JSON number or a numeric string such as "$12.50".
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("expected number, got %s", b)
	}
	s = strings.TrimSpace(strings.NewReplacer("$", "", "£", "", "€", "", ",", "").Replace(s))
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("expected number, got %q", s)
	}
	*f = flexFloat(n)
	return nil
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

type nutritionDTO struct {
	Calories    flexFloat `json:"calories"`
	Protein     flexFloat `json:"protein"`
	Carbs       flexFloat `json:"carbs"`
	Fat         flexFloat `json:"fat"`
	DietaryTags []string  `json:"dietary_tags"`
	Note        string    `json:"note"`
}

type itemDTO struct {
	ID          flexString    `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       flexFloat     `json:"price"`
	Rating      flexFloat     `json:"rating"`
	ReviewCount flexFloat     `json:"review_count"`
	Tags        []string      `json:"tags"`
	Nutrition   *nutritionDTO `json:"nutrition"`
}

type restaurantDTO struct {
	Name               string    `json:"name"`
	Location           string    `json:"location"`
	Cuisine            string    `json:"cuisine"`
	Rating             flexFloat `json:"rating"`
	PriceTier          string    `json:"price_tier"`
	Hours              string    `json:"hours"`
	SimilarRestaurants []string  `json:"similar_restaurants"`
	Popularity         flexFloat `json:"popularity"`
	Menu               []itemDTO `json:"menu"`
}

type suggestionDTO struct {
	Name    string `json:"name"`
	Cuisine string `json:"cuisine"`
	Reason  string `json:"reason"`
}

type suggestionsDTO struct {
	Suggestions []suggestionDTO `json:"suggestions"`
}

// toDomain maps the generated record, filling absent optional fields with empty values.
// Items without a name are dropped; items without an id get a positional one.
func (d restaurantDTO) toDomain(q menu.Query) menu.Restaurant {
	r := menu.Restaurant{
		Name:               strings.TrimSpace(d.Name),
		Location:           strings.TrimSpace(d.Location),
		Cuisine:            d.Cuisine,
		Rating:             float64(d.Rating),
		PriceTier:          d.PriceTier,
		Hours:              d.Hours,
		SimilarRestaurants: nonNil(d.SimilarRestaurants),
		Popularity:         clampPopularity(int(d.Popularity)),
		Menu:               make([]menu.Item, 0, len(d.Menu)),
	}
	if r.Name == "" {
		r.Name = q.RestaurantName
	}
	if r.Location == "" {
		r.Location = q.Location
	}
	for i, it := range d.Menu {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		item := menu.Item{
			ID:          string(it.ID),
			Name:        strings.TrimSpace(it.Name),
			Description: it.Description,
			Price:       float64(it.Price),
			Rating:      float64(it.Rating),
			ReviewCount: int(it.ReviewCount),
			Tags:        nonNil(it.Tags),
		}
		if item.ID == "" {
			item.ID = "item-" + strconv.Itoa(i+1)
		}
		if it.Nutrition != nil {
			item.Nutrition = &menu.Nutrition{
				Calories:    float64(it.Nutrition.Calories),
				Protein:     float64(it.Nutrition.Protein),
				Carbs:       float64(it.Nutrition.Carbs),
				Fat:         float64(it.Nutrition.Fat),
				DietaryTags: nonNil(it.Nutrition.DietaryTags),
				Note:        it.Nutrition.Note,
			}
		}
		r.Menu = append(r.Menu, item)
	}
	return r
}

func (d suggestionsDTO) toDomain(limit int) []menu.Suggestion {
	out := make([]menu.Suggestion, 0, len(d.Suggestions))
	for _, s := range d.Suggestions {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		out = append(out, menu.Suggestion{Name: strings.TrimSpace(s.Name), Cuisine: s.Cuisine, Reason: s.Reason})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// extractJSON returns the text between the first '{' and the last '}'.
// Models occasionally wrap JSON in prose or code fences.
func extractJSON(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return content[start : end+1], nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func clampPopularity(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
