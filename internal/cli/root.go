package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/logger"
	"github.com/kailas-cloud/findmyfood/internal/repository/dataset"
	"github.com/kailas-cloud/findmyfood/internal/usecase/recommend"
)

type globalOptions struct {
	dataset       string
	verbose       bool
	neighborCount int
	minRating     float64
	envErr        error
}

// envDefaults reads numeric flag defaults from the environment. A malformed
// value is kept as envErr and reported when a command runs.
func (o *globalOptions) envDefaults(getenv func(string) string) (neighbors int, minRating float64) {
	neighbors, minRating = recommend.DefaultNeighborCount, recommend.DefaultMinRating
	if v := getenv(NeighborsEnv); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			o.envErr = fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidRequest, NeighborsEnv, v)
		} else {
			neighbors = n
		}
	}
	if v := getenv(MinRatingEnv); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			o.envErr = fmt.Errorf("%w: %s must be a positive number, got %q", domain.ErrInvalidRequest, MinRatingEnv, v)
		} else {
			minRating = f
		}
	}
	return neighbors, minRating
}

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "foodrec",
		Short:         "Recommend dishes from the rating history of similar diners.",
		Version:       deps.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetHelpCommand(&cobra.Command{Hidden: true})

	neighbors, minRating := opts.envDefaults(deps.Getenv)
	flags := root.PersistentFlags()
	flags.StringVar(&opts.dataset, "dataset", deps.Getenv(DatasetEnv),
		"Rating dataset YAML file. Defaults to the embedded seed.")
	flags.BoolVar(&opts.verbose, "verbose", false, "Log diagnostics to stderr.")
	flags.IntVar(&opts.neighborCount, "neighbors", neighbors,
		"Similar diners consulted per recommendation.")
	flags.Float64Var(&opts.minRating, "min-rating", minRating,
		"Lowest neighbor rating that counts as an endorsement.")

	root.AddCommand(newRecommendCommand(deps, opts))
	root.AddCommand(newSimilarityCommand(deps, opts))
	root.AddCommand(newUsersCommand(deps, opts))

	return root
}

// env is what every command needs: the loaded dataset and a service over it.
type env struct {
	data    *dataset.Repo
	engine  *recommend.Engine
	service *recommend.Service
	logger  *zap.Logger
}

func (o *globalOptions) load(deps Dependencies) (*env, error) {
	if o.envErr != nil {
		return nil, o.envErr
	}
	log := logger.NewCLILogger(o.verbose)

	data, err := deps.OpenDataset(o.dataset)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	users, ratings := data.Stats()
	log.Debug("dataset loaded",
		zap.String("source", data.Source()),
		zap.Int("users", users),
		zap.Int("ratings", ratings),
	)

	engine := recommend.NewEngine(
		recommend.WithNeighborCount(o.neighborCount),
		recommend.WithMinRating(o.minRating),
	)
	provider := recommend.NewFallbackProvider(log,
		recommend.NamedProvider{Name: "local", Provider: recommend.NewLocalProvider(data, engine)},
	)
	return &env{
		data:    data,
		engine:  engine,
		service: recommend.New(data, provider, engine, recommend.DefaultCount, recommend.MaxCount),
		logger:  log,
	}, nil
}
