package dataset

import "github.com/kailas-cloud/findmyfood/internal/domain/rating"

// fileDTO is the on-disk dataset layout.
type fileDTO struct {
	Users   []userDTO   `yaml:"users"`
	Ratings []ratingDTO `yaml:"ratings"`
}

type userDTO struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

type ratingDTO struct {
	UserID     int     `yaml:"user_id"`
	Restaurant string  `yaml:"restaurant"`
	Dish       string  `yaml:"dish"`
	Rating     float64 `yaml:"rating"`
	Cuisine    string  `yaml:"cuisine"`
}

func (d ratingDTO) toDomain() rating.Rating {
	return rating.Rating{
		UserID:     d.UserID,
		Restaurant: d.Restaurant,
		Dish:       d.Dish,
		Value:      d.Rating,
		Cuisine:    d.Cuisine,
	}
}
