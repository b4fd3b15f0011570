// Package dataset loads the rating history and user directory from YAML.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/rating"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedSource names the embedded fixture in Source().
const SeedSource = "embedded seed"

// Repo serves an immutable dataset. Callers receive copies.
type Repo struct {
	ds     rating.Dataset
	source string
}

// Open loads the dataset at path, or the embedded seed when path is empty.
func Open(path string) (*Repo, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(seedYAML, SeedSource)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return Parse(data, path)
}

// Seed returns the embedded fixture.
func Seed() (*Repo, error) {
	return Parse(seedYAML, SeedSource)
}

// Parse decodes and validates a YAML dataset.
func Parse(data []byte, source string) (*Repo, error) {
	var raw fileDTO
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrDatasetInvalid, source, err)
	}

	ds, err := build(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDatasetInvalid, source, err)
	}
	return &Repo{ds: ds, source: source}, nil
}

func build(raw fileDTO) (rating.Dataset, error) {
	users := make(rating.Directory, len(raw.Users))
	for i, u := range raw.Users {
		if u.ID <= 0 {
			return rating.Dataset{}, fmt.Errorf("users[%d]: id must be positive, got %d", i, u.ID)
		}
		if _, dup := users[u.ID]; dup {
			return rating.Dataset{}, fmt.Errorf("users[%d]: duplicate id %d", i, u.ID)
		}
		users[u.ID] = strings.TrimSpace(u.Name)
	}

	ratings := make([]rating.Rating, 0, len(raw.Ratings))
	for i, r := range raw.Ratings {
		rt := r.toDomain()
		if err := rt.Validate(); err != nil {
			return rating.Dataset{}, fmt.Errorf("ratings[%d]: %w", i, err)
		}
		ratings = append(ratings, rt)
	}

	return rating.Dataset{Ratings: ratings, Users: users}, nil
}

// Dataset returns a copy of the loaded dataset.
func (r *Repo) Dataset(_ context.Context) (rating.Dataset, error) {
	return r.ds.Clone(), nil
}

// Source describes where the dataset came from.
func (r *Repo) Source() string { return r.source }

// Stats returns the number of users and ratings.
func (r *Repo) Stats() (users, ratings int) {
	return len(r.ds.UserIDs()), len(r.ds.Ratings)
}
