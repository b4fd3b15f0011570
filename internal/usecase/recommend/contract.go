package recommend

import (
	"context"

	"github.com/kailas-cloud/findmyfood/internal/domain/rating"
	"github.com/kailas-cloud/findmyfood/internal/domain/recommendation"
)

// DatasetSource supplies the rating history and user directory.
type DatasetSource interface {
	Dataset(ctx context.Context) (rating.Dataset, error)
}

// Provider produces a ranked dish list for one diner.
type Provider interface {
	Recommend(ctx context.Context, userID, count int) ([]recommendation.Dish, error)
}
