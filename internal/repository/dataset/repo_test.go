package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/findmyfood/internal/domain"
)

func TestSeed_Loads(t *testing.T) {
	repo, err := Seed()
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	ds, err := repo.Dataset(context.Background())
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}

	for id, name := range map[int]string{1: "Josh", 2: "Sarah", 3: "Miguel", 4: "Priya"} {
		if got := ds.Users.Name(id); got != name {
			t.Errorf("user %d = %q, want %q", id, got, name)
		}
	}
	users, ratings := repo.Stats()
	if users != 5 || ratings == 0 {
		t.Errorf("Stats() = %d users, %d ratings", users, ratings)
	}
	if repo.Source() != SeedSource {
		t.Errorf("Source() = %q", repo.Source())
	}
}

func TestOpen_EmptyPathUsesSeed(t *testing.T) {
	repo, err := Open("  ")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if repo.Source() != SeedSource {
		t.Errorf("Source() = %q, want seed", repo.Source())
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.yaml")
	body := `
users:
  - {id: 10, name: Ana}
ratings:
  - {user_id: 10, restaurant: Kiln, dish: Jungle Curry, rating: 4.5, cuisine: Thai}
  - {user_id: 11, restaurant: Kiln, dish: Laab Ped, rating: 3, cuisine: Thai}
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	repo, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ds, _ := repo.Dataset(context.Background())
	if len(ds.Ratings) != 2 || ds.Ratings[0].Value != 4.5 {
		t.Errorf("ratings = %+v", ds.Ratings)
	}
	if ds.Users.Name(11) != "User 11" {
		t.Errorf("missing directory entry must fall back, got %q", ds.Users.Name(11))
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"rating too high", "ratings:\n  - {user_id: 1, restaurant: A, dish: B, rating: 6}\n"},
		{"rating too low", "ratings:\n  - {user_id: 1, restaurant: A, dish: B, rating: 0}\n"},
		{"missing dish", "ratings:\n  - {user_id: 1, restaurant: A, rating: 3}\n"},
		{"bad user id", "ratings:\n  - {user_id: 0, restaurant: A, dish: B, rating: 3}\n"},
		{"duplicate user", "users:\n  - {id: 1, name: A}\n  - {id: 1, name: B}\n"},
		{"unknown field", "ratings:\n  - {user_id: 1, restaurant: A, dish: B, rating: 3, stars: 2}\n"},
		{"malformed", "ratings: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.body), "test")
			if !errors.Is(err, domain.ErrDatasetInvalid) {
				t.Errorf("err = %v, want ErrDatasetInvalid", err)
			}
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	repo, err := Parse(nil, "empty")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ds, _ := repo.Dataset(context.Background())
	if len(ds.Ratings) != 0 {
		t.Errorf("ratings = %v", ds.Ratings)
	}
}

func TestDataset_ReturnsCopies(t *testing.T) {
	repo, err := Seed()
	if err != nil {
		t.Fatal(err)
	}
	a, _ := repo.Dataset(context.Background())
	a.Ratings[0].Value = 1
	a.Users[1] = "Mallory"

	b, _ := repo.Dataset(context.Background())
	if b.Ratings[0].Value == 1 || b.Users[1] != "Josh" {
		t.Error("mutating a returned dataset must not affect the repo")
	}
}
