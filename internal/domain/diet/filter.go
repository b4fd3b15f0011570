// Package diet decides whether a menu item is compatible with dietary
// requirements and free of declared allergens, using keyword heuristics.
package diet

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

// Category is a recognized dietary requirement with an exclusion keyword list.
type Category string

// Recognized categories.
const (
	Vegan      Category = "vegan"
	Vegetarian Category = "vegetarian"
	GlutenFree Category = "gluten-free"
	Keto       Category = "keto"
	Paleo      Category = "paleo"
)

// exclusions lists the keywords whose presence anywhere in the item text fails a category.
var exclusions = map[Category][]string{
	Vegan: {
		"chicken", "beef", "pork", "fish", "seafood", "meat", "dairy", "cheese", "milk",
		"butter", "egg", "shrimp", "salmon", "tuna", "turkey", "lamb", "bacon", "honey",
	},
	Vegetarian: {
		"chicken", "beef", "pork", "fish", "seafood", "meat", "shrimp", "salmon", "tuna",
		"turkey", "lamb", "bacon", "ham",
	},
	GlutenFree: {"wheat", "flour", "bread", "pasta", "noodles", "soy sauce", "beer"},
	Keto:       {"rice", "bread", "pasta", "potato", "fries", "noodles", "quinoa", "barley"},
	Paleo:      {"dairy", "cheese", "milk", "wheat", "bread", "rice", "legumes", "beans"},
}

// aliases maps normalized requirement labels onto categories.
var aliases = map[string]Category{
	"vegan":       Vegan,
	"vegetarian":  Vegetarian,
	"gluten-free": GlutenFree,
	"gluten free": GlutenFree,
	"gluten":      GlutenFree,
	"keto":        Keto,
	"paleo":       Paleo,
}

// CategoryOf resolves a requirement label to a recognized category.
func CategoryOf(label string) (Category, bool) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(label))]
	return c, ok
}

// Exclusions returns the exclusion keywords of a category.
func Exclusions(c Category) []string {
	kw := exclusions[c]
	out := make([]string, len(kw))
	copy(out, kw)
	return out
}

// IsDietCompliant reports whether the item satisfies every requirement.
// An empty requirement set imposes no restriction.
func IsDietCompliant(item menu.Item, requirements Set) bool {
	if requirements.IsEmpty() {
		return true
	}
	text := searchableText(item)
	for _, req := range requirements.normalized() {
		if !satisfies(item, req, text) {
			return false
		}
	}
	return true
}

// IsAllergenSafe reports whether no allergen label occurs in the item's name or description.
// A plural label also matches its singular as a whole word ("peanuts" hits
// "peanut sauce" but "nuts" leaves "coconut" alone). Tags and nutrition are not inspected.
func IsAllergenSafe(item menu.Item, allergens Set) bool {
	if allergens.IsEmpty() {
		return true
	}
	visible := strings.ToLower(item.Name + " " + item.Description)
	for _, a := range allergens.normalized() {
		if strings.Contains(visible, a) {
			return false
		}
		if s := singular(a); s != a && containsWord(visible, s) {
			return false
		}
	}
	return true
}

// singular strips one plural suffix. Short labels are left alone.
func singular(label string) string {
	if len(label) <= 3 || strings.HasSuffix(label, "ss") {
		return label
	}
	for _, suffix := range []string{"ies", "es", "s"} {
		if !strings.HasSuffix(label, suffix) {
			continue
		}
		stem := strings.TrimSuffix(label, suffix)
		switch suffix {
		case "ies":
			return stem + "y"
		case "es":
			// "tomatoes" -> "tomato", "dishes" -> "dish"; "cheeses" keeps its "e".
			if strings.HasSuffix(stem, "o") || strings.HasSuffix(stem, "sh") || strings.HasSuffix(stem, "ch") {
				return stem
			}
			return strings.TrimSuffix(label, "s")
		default:
			return stem
		}
	}
	return label
}

// containsWord reports whether word occurs in text bounded by non-letters.
// A trailing "s" or "es" still counts as a boundary so "egg" matches "eggs".
func containsWord(text, word string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], word)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(word)
		if letterBefore(text, start) {
			i = start + 1
			continue
		}
		rest := text[end:]
		for _, suffix := range []string{"es", "s"} {
			if strings.HasPrefix(rest, suffix) && !letterAt(rest, len(suffix)) {
				return true
			}
		}
		if !letterAt(rest, 0) {
			return true
		}
		i = start + 1
	}
}

func letterBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r)
}

func letterAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}

// satisfies checks one normalized requirement. Recognized categories are
// exclusion-based; unrecognized labels are inclusion-based (the label must occur in the text).
func satisfies(item menu.Item, req, text string) bool {
	if hasTag(item.Tags, req) || hasTag(item.DietaryTags(), req) {
		return true
	}
	c, ok := aliases[req]
	if !ok {
		return strings.Contains(text, req)
	}
	for _, kw := range exclusions[c] {
		if strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

func hasTag(tags []string, req string) bool {
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(t), req) {
			return true
		}
	}
	return false
}

func searchableText(item menu.Item) string {
	parts := []string{
		item.Name,
		item.Description,
		strings.Join(item.Tags, " "),
		strings.Join(item.DietaryTags(), " "),
	}
	return strings.ToLower(strings.Join(parts, " "))
}
