package contentcache

import "github.com/kailas-cloud/findmyfood/internal/domain/menu"

type nutritionDTO struct {
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	DietaryTags []string `json:"dietary_tags,omitempty"`
	Note        string   `json:"note,omitempty"`
}

type itemDTO struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price"`
	Rating      float64       `json:"rating"`
	ReviewCount int           `json:"review_count"`
	Tags        []string      `json:"tags,omitempty"`
	Nutrition   *nutritionDTO `json:"nutrition,omitempty"`
}

type restaurantDTO struct {
	Name               string    `json:"name"`
	Location           string    `json:"location,omitempty"`
	Cuisine            string    `json:"cuisine,omitempty"`
	Rating             float64   `json:"rating"`
	PriceTier          string    `json:"price_tier,omitempty"`
	Hours              string    `json:"hours,omitempty"`
	SimilarRestaurants []string  `json:"similar_restaurants,omitempty"`
	Popularity         int       `json:"popularity"`
	Menu               []itemDTO `json:"menu"`
}

type suggestionDTO struct {
	Name    string `json:"name"`
	Cuisine string `json:"cuisine,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func restaurantToDTO(r menu.Restaurant) restaurantDTO {
	d := restaurantDTO{
		Name:               r.Name,
		Location:           r.Location,
		Cuisine:            r.Cuisine,
		Rating:             r.Rating,
		PriceTier:          r.PriceTier,
		Hours:              r.Hours,
		SimilarRestaurants: r.SimilarRestaurants,
		Popularity:         r.Popularity,
		Menu:               make([]itemDTO, 0, len(r.Menu)),
	}
	for _, it := range r.Menu {
		item := itemDTO{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Rating:      it.Rating,
			ReviewCount: it.ReviewCount,
			Tags:        it.Tags,
		}
		if n := it.Nutrition; n != nil {
			item.Nutrition = &nutritionDTO{
				Calories:    n.Calories,
				Protein:     n.Protein,
				Carbs:       n.Carbs,
				Fat:         n.Fat,
				DietaryTags: n.DietaryTags,
				Note:        n.Note,
			}
		}
		d.Menu = append(d.Menu, item)
	}
	return d
}

func (d restaurantDTO) toDomain() menu.Restaurant {
	r := menu.Restaurant{
		Name:               d.Name,
		Location:           d.Location,
		Cuisine:            d.Cuisine,
		Rating:             d.Rating,
		PriceTier:          d.PriceTier,
		Hours:              d.Hours,
		SimilarRestaurants: d.SimilarRestaurants,
		Popularity:         d.Popularity,
		Menu:               make([]menu.Item, 0, len(d.Menu)),
	}
	for _, it := range d.Menu {
		item := menu.Item{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Rating:      it.Rating,
			ReviewCount: it.ReviewCount,
			Tags:        it.Tags,
		}
		if n := it.Nutrition; n != nil {
			item.Nutrition = &menu.Nutrition{
				Calories:    n.Calories,
				Protein:     n.Protein,
				Carbs:       n.Carbs,
				Fat:         n.Fat,
				DietaryTags: n.DietaryTags,
				Note:        n.Note,
			}
		}
		r.Menu = append(r.Menu, item)
	}
	return r
}

func suggestionsToDTO(in []menu.Suggestion) []suggestionDTO {
	out := make([]suggestionDTO, 0, len(in))
	for _, s := range in {
		out = append(out, suggestionDTO(s))
	}
	return out
}

func suggestionsToDomain(in []suggestionDTO) []menu.Suggestion {
	out := make([]menu.Suggestion, 0, len(in))
	for _, s := range in {
		out = append(out, menu.Suggestion(s))
	}
	return out
}
