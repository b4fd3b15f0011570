package health

import "context"

// DBPinger checks key-value store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ContentChecker checks content source availability.
type ContentChecker interface {
	HealthCheck(ctx context.Context) error
}

// DatasetChecker reports the size of the loaded rating dataset.
type DatasetChecker interface {
	Stats() (users, ratings int)
}
