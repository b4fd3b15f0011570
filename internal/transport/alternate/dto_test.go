package alternate

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
)

func sampleDishes() []recommendation.Dish {
	return []recommendation.Dish{{
		DishName:        "Classic Bao",
		Restaurant:      "Bao",
		PredictedRating: 4.6,
		IsNewRestaurant: true,
		Supporters: []recommendation.Supporter{{
			NeighborID:   2,
			NeighborName: "Sarah",
			Similarity:   0.9,
			Rating:       5,
			CommonItems: []recommendation.CommonItem{
				{Type: recommendation.SameDishSameRestaurant, Restaurant: "Dishoom", Dish: "Daal", UserRating: 5, NeighborRating: 4},
				{Type: recommendation.DifferentDishSameRestaurant, Restaurant: "Kiln", UserDish: "Clay Pot", NeighborDish: "Larb"},
			},
		}},
	}}
}

func TestEncode_WireShape(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleDishes()); err != nil {
		t.Fatal(err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	sup := raw[0]["supporters"].([]any)[0].(map[string]any)
	items := sup["common_items"].([]any)
	same := items[0].(map[string]any)
	diff := items[1].(map[string]any)

	if same["type"] != "same_dish_same_restaurant" || same["user_rating"] != 5.0 {
		t.Errorf("same item = %v", same)
	}
	if _, ok := same["user_dish"]; ok {
		t.Error("same-dish item must not carry user_dish")
	}
	if _, ok := diff["user_rating"]; ok {
		t.Error("different-dish item must not carry ratings")
	}
	if diff["neighbor_dish"] != "Larb" {
		t.Errorf("diff item = %v", diff)
	}
}

func TestEncodeDecode_PreservesRecommendations(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleDishes()); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sampleDishes()) {
		t.Errorf("decoded = %+v", got)
	}
}

func TestDecode_Rejects(t *testing.T) {
	bad := []string{
		`{"dish_name":"x"}`,
		`[{"dish_name":"","restaurant":"Kiln"}]`,
		`[{"dish_name":"x","restaurant":"Kiln","supporters":[{"common_items":[{"type":"mystery"}]}]}]`,
	}
	for _, in := range bad {
		if _, err := Decode([]byte(in)); err == nil {
			t.Errorf("Decode(%s) expected error", in)
		}
	}
}

func TestEncode_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("got %q", buf.String())
	}
}
