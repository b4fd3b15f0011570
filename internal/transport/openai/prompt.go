package openai

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/findmyfood/internal/domain/menu"
)

const systemPrompt = "You are a restaurant data assistant. Return only JSON, with no prose and no code fences."

const restaurantSchema = `{
  "name": string, "location": string, "cuisine": string, "rating": number (1-5),
  "price_tier": "$" | "$$" | "$$$" | "$$$$", "hours": string,
  "similar_restaurants": [string], "popularity": integer (0-100),
  "menu": [{
    "id": string, "name": string, "description": string, "price": number,
    "rating": number (1-5), "review_count": integer, "tags": [string],
    "nutrition": {"calories": number, "protein": number, "carbs": number, "fat": number,
                  "dietary_tags": [string], "note": string}
  }]
}`

const suggestionsSchema = `{"suggestions": [{"name": string, "cuisine": string, "reason": string}]}`

func buildRestaurantPrompt(q menu.Query) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Describe the restaurant %q", q.RestaurantName)
	if q.Location != "" {
		fmt.Fprintf(&b, " in %s", q.Location)
	}
	b.WriteString(" with a realistic menu of 8 to 12 dishes.\n\n")

	b.WriteString("DINER PROFILE:\n")
	writeList(&b, "Taste preferences", q.TasteKeywords)
	writeList(&b, "Dietary requirements", q.Requirements)
	writeList(&b, "Allergies", q.Allergens)
	b.WriteString("\nList every dish the restaurant serves, including ones that do not fit the profile. ")
	b.WriteString("Mention meat, fish, dairy, egg, gluten and nut ingredients in each description. ")
	b.WriteString("Tag dishes with dietary labels such as Vegan, Vegetarian, Gluten-Free only when they truly apply.\n\n")
	b.WriteString("Respond with a JSON object of this shape:\n")
	b.WriteString(restaurantSchema)
	return b.String()
}

func buildSuggestionsPrompt(q menu.SuggestionQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d real restaurants", q.Count)
	if q.Location != "" {
		fmt.Fprintf(&b, " in %s", q.Location)
	}
	b.WriteString(" for a diner who enjoys the following cuisines, most preferred first.\n\n")
	writeList(&b, "Cuisines", q.Cuisines)
	b.WriteString("\nGive a one-sentence reason per restaurant.\n\n")
	b.WriteString("Respond with a JSON object of this shape:\n")
	b.WriteString(suggestionsSchema)
	return b.String()
}

func writeList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(b, "- %s: none\n", label)
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(values, ", "))
}
