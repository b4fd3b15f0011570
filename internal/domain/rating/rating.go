// Package rating holds the diner rating records that feed collaborative filtering.
package rating

import (
	"fmt"
	"sort"
	"strings"
)

// Rating bounds on the 1-5 star scale.
const (
	MinValue = 1.0
	MaxValue = 5.0
)

// Rating is one diner's rating of one dish at one restaurant.
type Rating struct {
	UserID     int
	Restaurant string
	Dish       string
	Value      float64
	Cuisine    string
}

// Key returns the dish identity: the same dish name at another restaurant is a different dish.
func (r Rating) Key() Key {
	return Key{Dish: r.Dish, Restaurant: r.Restaurant}
}

// Validate checks the record's fields.
func (r Rating) Validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("user id must be positive, got %d", r.UserID)
	}
	if strings.TrimSpace(r.Restaurant) == "" {
		return fmt.Errorf("restaurant is required")
	}
	if strings.TrimSpace(r.Dish) == "" {
		return fmt.Errorf("dish is required")
	}
	if r.Value < MinValue || r.Value > MaxValue {
		return fmt.Errorf("rating %.2f outside [%.0f,%.0f]", r.Value, MinValue, MaxValue)
	}
	return nil
}

// Key identifies a rated dish.
type Key struct {
	Dish       string
	Restaurant string
}

func (k Key) String() string { return k.Dish + " @ " + k.Restaurant }

// Directory maps user ids to display names.
type Directory map[int]string

// Name returns the display name, or "User {id}" when the directory has none.
func (d Directory) Name(id int) string {
	if n, ok := d[id]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("User %d", id)
}

// Dataset is the full rating history plus the user directory.
type Dataset struct {
	Ratings []Rating
	Users   Directory
}

// ByUser returns the ratings of one user in dataset order.
func (d Dataset) ByUser(id int) []Rating {
	var out []Rating
	for _, r := range d.Ratings {
		if r.UserID == id {
			out = append(out, r)
		}
	}
	return out
}

// UserIDs returns every user id known to the ratings or the directory, ascending.
func (d Dataset) UserIDs() []int {
	seen := make(map[int]struct{}, len(d.Users))
	for id := range d.Users {
		seen[id] = struct{}{}
	}
	for _, r := range d.Ratings {
		seen[r.UserID] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// HasUser reports whether the id appears in the ratings or the directory.
func (d Dataset) HasUser(id int) bool {
	if _, ok := d.Users[id]; ok {
		return true
	}
	for _, r := range d.Ratings {
		if r.UserID == id {
			return true
		}
	}
	return false
}

// FavoriteCuisines returns the cuisines of a user's ratings at or above minValue,
// most frequent first, ties by name.
func (d Dataset) FavoriteCuisines(id int, minValue float64) []string {
	counts := make(map[string]int)
	for _, r := range d.ByUser(id) {
		if r.Value >= minValue && r.Cuisine != "" {
			counts[r.Cuisine]++
		}
	}
	out := make([]string, 0, len(counts))
	for c := range counts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (d Dataset) Clone() Dataset {
	ratings := make([]Rating, len(d.Ratings))
	copy(ratings, d.Ratings)
	users := make(Directory, len(d.Users))
	for k, v := range d.Users {
		users[k] = v
	}
	return Dataset{Ratings: ratings, Users: users}
}
