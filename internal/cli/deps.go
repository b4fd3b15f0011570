// Package cli is the command tree of foodrec, the command-line front of the
// recommendation engine. Its recommend command doubles as the alternate engine
// the server can shell out to, so its stdout and stderr formats are a contract.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/repository/dataset"
	"github.com/kailas-cloud/findmyfood/internal/transport/alternate"
)

// Variables that provide flag defaults. The server sets them when it runs
// foodrec as its alternate engine so both paths rank with the same settings.
const (
	DatasetEnv   = "FOODREC_DATASET"
	NeighborsEnv = "FOODREC_NEIGHBORS"
	MinRatingEnv = "FOODREC_MIN_RATING"
)

// EngineEnv renders engine settings as KEY=value pairs for a child foodrec.
// Zero values are omitted so the child keeps its own defaults.
func EngineEnv(datasetPath string, neighbors int, minRating float64) []string {
	var env []string
	if datasetPath != "" {
		env = append(env, DatasetEnv+"="+datasetPath)
	}
	if neighbors > 0 {
		env = append(env, NeighborsEnv+"="+strconv.Itoa(neighbors))
	}
	if minRating > 0 {
		env = append(env, MinRatingEnv+"="+strconv.FormatFloat(minRating, 'g', -1, 64))
	}
	return env
}

// Error types written to stderr.
const (
	ErrorTypeNotFound       = "NotFound"
	ErrorTypeInvalidRequest = "InvalidRequest"
	ErrorTypeDatasetInvalid = "DatasetInvalid"
	ErrorTypeInternal       = "InternalError"
)

// Dependencies are injected by main and replaced in tests.
type Dependencies struct {
	OpenDataset func(path string) (*dataset.Repo, error)
	Getenv      func(key string) string
	Version     string
}

func (d Dependencies) withDefaults() Dependencies {
	if d.OpenDataset == nil {
		d.OpenDataset = dataset.Open
	}
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}
	return d
}

// Execute runs the CLI and returns the process exit code. Failures are written
// to stderr as a single JSON object.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	_ = json.NewEncoder(stderr).Encode(alternate.ErrorJSON{
		Error: err.Error(),
		Type:  errorType(err),
	})
	return 1
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrorTypeNotFound
	case errors.Is(err, domain.ErrDatasetInvalid):
		return ErrorTypeDatasetInvalid
	case errors.Is(err, domain.ErrInvalidRequest):
		return ErrorTypeInvalidRequest
	default:
		return ErrorTypeInternal
	}
}
