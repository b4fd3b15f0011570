package recommend

import (
	"context"
	"testing"

	"github.com/kailas-cloud/findmyfood/internal/repository/dataset"
)

func TestEngine_SeedDataset(t *testing.T) {
	repo, err := dataset.Seed()
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	ds, _ := repo.Dataset(context.Background())
	e := NewEngine()

	neighbors := e.Neighbors(1, ds)
	if len(neighbors) != 3 {
		t.Fatalf("Josh neighbors = %+v, want 3", neighbors)
	}
	for _, n := range neighbors {
		if n.ID == 5 {
			t.Error("Tom shares no restaurant and must not be a neighbor")
		}
	}

	dishes := e.Recommend(1, DefaultCount, ds)
	if len(dishes) == 0 || len(dishes) > DefaultCount {
		t.Fatalf("Josh got %d dishes", len(dishes))
	}
	own := make(map[string]bool)
	for _, r := range ds.ByUser(1) {
		own[r.Key().String()] = true
	}
	seenOld := false
	for _, d := range dishes {
		if own[keyOf(d).String()] {
			t.Errorf("recommended already-rated %v", keyOf(d))
		}
		if !d.IsNewRestaurant {
			seenOld = true
		} else if seenOld {
			t.Error("new-restaurant dish ranked after a visited-restaurant dish")
		}
		if len(d.Supporters) == 0 {
			t.Errorf("%v has no supporters", keyOf(d))
		}
	}

	if got := e.Recommend(5, DefaultCount, ds); len(got) != 0 {
		t.Errorf("Tom got %+v, want empty", got)
	}
}
