// ABOUTME: Recommend command ranking catalog profiles for a workload
// ABOUTME: Plans every supported profile and lists the feasible ones, fewest nodes first

package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/vm-migration-sizer/cli/internal/client"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/report"
	"github.com/markalston/vm-migration-sizer/models"
	"github.com/markalston/vm-migration-sizer/services"
	"github.com/spf13/cobra"
)

type recommendOptions struct {
	profile profileInput
	demand  demandInput
	policy  policyInput
	remote  bool
}

var recommendOpts recommendOptions

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank catalog profiles for a workload",
	Long: `Plan the workload on every catalog profile that supports the target
platform and rank the feasible ones by node count.

Example:
  vm-sizer recommend --demand-file inventory.json --redundancy-nodes 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runRecommend(ctx, cmd, os.Stdout, &recommendOpts)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendOpts.profile.bind(recommendCmd, false)
	recommendOpts.demand.bind(recommendCmd)
	recommendOpts.policy.bind(recommendCmd)
	recommendCmd.Flags().BoolVar(&recommendOpts.remote, "remote", false, "Rank through the API instead of the local engine")
}

func runRecommend(ctx context.Context, cmd *cobra.Command, w io.Writer, opts *recommendOptions) error {
	demand, err := opts.demand.load()
	if err != nil {
		return err
	}

	var resp *models.RecommendResponse
	if opts.remote {
		resp, err = client.New(GetAPIURL()).Recommend(ctx, &models.RecommendRequest{
			Policy: opts.policy.overlay(cmd),
			Demand: demand,
		})
	} else {
		resp, err = recommendLocally(ctx, cmd, opts, demand)
	}
	if err != nil {
		return err
	}

	return writeOutput(w, resp, func() string { return report.Recommendations(resp) })
}

func recommendLocally(ctx context.Context, cmd *cobra.Command, opts *recommendOptions, demand models.WorkloadDemand) (*models.RecommendResponse, error) {
	cat, err := opts.profile.catalog()
	if err != nil {
		return nil, err
	}
	defer cat.Close()

	profiles, err := cat.List(ctx)
	if err != nil {
		return nil, err
	}
	policy := opts.policy.apply(cmd, models.DefaultSizingPolicy())

	recommendations, err := services.NewPlanningCalculator().Recommend(profiles, policy, demand)
	if err != nil {
		return nil, err
	}
	return &models.RecommendResponse{
		Recommendations: recommendations,
		Evaluated:       len(profiles),
		Source:          cat.SourceName(),
	}, nil
}
