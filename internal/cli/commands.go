package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/transport/alternate"
	"github.com/kailas-cloud/findmyfood/internal/usecase/recommend"
)

type neighborJSON struct {
	NeighborID        int      `json:"neighbor_id"`
	NeighborName      string   `json:"neighbor_name"`
	Similarity        float64  `json:"similarity"`
	CommonRestaurants []string `json:"common_restaurants"`
}

type pairJSON struct {
	UserID            int      `json:"user_id"`
	OtherID           int      `json:"other_id"`
	Similarity        float64  `json:"similarity"`
	CommonRestaurants []string `json:"common_restaurants"`
}

type userJSON struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	RatingCount int    `json:"rating_count"`
}

func newRecommendCommand(deps Dependencies, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <user_id> [top_n]",
		Short: "Print dish recommendations as JSON.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			topN := recommend.DefaultCount
			if len(args) == 2 {
				if topN, err = strconv.Atoi(args[1]); err != nil || topN <= 0 {
					return fmt.Errorf("%w: top_n must be a positive integer, got %q", domain.ErrInvalidRequest, args[1])
				}
			}

			e, err := opts.load(deps)
			if err != nil {
				return err
			}
			dishes, err := e.service.Recommend(cmd.Context(), userID, topN)
			if err != nil {
				return err
			}
			e.logger.Debug("recommendations ready", zap.Int("user_id", userID), zap.Int("count", len(dishes)))
			return alternate.Encode(cmd.OutOrStdout(), dishes)
		},
	}
}

func newSimilarityCommand(deps Dependencies, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "similarity <user_id> [other_id]",
		Short: "Print a diner's neighbors, or the similarity between two diners.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			e, err := opts.load(deps)
			if err != nil {
				return err
			}

			if len(args) == 2 {
				otherID, err := parseUserID(args[1])
				if err != nil {
					return err
				}
				ds, err := e.data.Dataset(cmd.Context())
				if err != nil {
					return err
				}
				for _, id := range []int{userID, otherID} {
					if !ds.HasUser(id) {
						return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
					}
				}
				sim := recommend.UserSimilarity(userID, otherID, ds.Ratings)
				return writeJSON(cmd.OutOrStdout(), pairJSON{
					UserID:            userID,
					OtherID:           otherID,
					Similarity:        sim.Score,
					CommonRestaurants: nonNil(sim.CommonRestaurants),
				})
			}

			neighbors, err := e.service.Neighbors(cmd.Context(), userID)
			if err != nil {
				return err
			}
			out := make([]neighborJSON, 0, len(neighbors))
			for _, n := range neighbors {
				out = append(out, neighborJSON{
					NeighborID:        n.ID,
					NeighborName:      n.Name,
					Similarity:        n.Similarity,
					CommonRestaurants: nonNil(n.CommonRestaurants),
				})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newUsersCommand(deps Dependencies, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the diners in the dataset.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load(deps)
			if err != nil {
				return err
			}
			users, err := e.service.Users(cmd.Context())
			if err != nil {
				return err
			}
			out := make([]userJSON, 0, len(users))
			for _, u := range users {
				out = append(out, userJSON{ID: u.ID, Name: u.Name, RatingCount: u.RatingCount})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func parseUserID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: user id must be a positive integer, got %q", domain.ErrInvalidRequest, raw)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
