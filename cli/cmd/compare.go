// ABOUTME: Non-interactive what-if comparison of two sizing policies
// ABOUTME: Allows CI/CD pipelines to check the impact of a policy change

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/markalston/vm-migration-sizer/cli/internal/client"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/comparison"
	"github.com/markalston/vm-migration-sizer/models"
	"github.com/markalston/vm-migration-sizer/services"
	"github.com/spf13/cobra"
)

type compareOptions struct {
	profile  profileInput
	demand   demandInput
	policy   policyInput
	proposed string
	remote   bool
}

var compareOpts compareOptions

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the current policy with a proposed change",
	Long: `Plan the workload under the current policy (defaults plus policy flags)
and under a proposed change, then report the node delta and warnings.

--proposed takes a partial policy as JSON, or @file to read it from a file.

Example:
  vm-sizer compare --vms 250 --vcpu 1000 --memory-gib 4000 --storage-gib 51200 \
    --redundancy-nodes 2 --proposed '{"redundancy_nodes":0}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runCompare(ctx, cmd, os.Stdout, &compareOpts)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareOpts.profile.bind(compareCmd, true)
	compareOpts.demand.bind(compareCmd)
	compareOpts.policy.bind(compareCmd)
	compareCmd.Flags().StringVar(&compareOpts.proposed, "proposed", "", "Proposed partial policy as JSON or @file")
	compareCmd.Flags().BoolVar(&compareOpts.remote, "remote", false, "Compare through the API instead of the local engine")
	_ = compareCmd.MarkFlagRequired("proposed")
}

// readProposed returns the proposed overlay, reading @file references.
func readProposed(arg string) (json.RawMessage, error) {
	data := []byte(arg)
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading proposed policy: %w", err)
		}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("proposed policy is not valid JSON")
	}
	return data, nil
}

func runCompare(ctx context.Context, cmd *cobra.Command, w io.Writer, opts *compareOptions) error {
	demand, err := opts.demand.load()
	if err != nil {
		return err
	}
	proposed, err := readProposed(opts.proposed)
	if err != nil {
		return err
	}

	var result *models.PlanComparison
	if opts.remote {
		result, err = client.New(GetAPIURL()).Compare(ctx, &models.CompareRequest{
			ProfileName: opts.profile.name,
			Demand:      demand,
			Current:     opts.policy.overlay(cmd),
			Proposed:    proposed,
		})
	} else {
		result, err = compareLocally(ctx, cmd, opts, demand, proposed)
	}
	if err != nil {
		return err
	}

	return writeOutput(w, result, func() string { return comparison.New(result, 100).View() })
}

func compareLocally(ctx context.Context, cmd *cobra.Command, opts *compareOptions, demand models.WorkloadDemand, proposed json.RawMessage) (*models.PlanComparison, error) {
	profile, err := opts.profile.resolve(ctx)
	if err != nil {
		return nil, err
	}
	current := opts.policy.apply(cmd, models.DefaultSizingPolicy())
	next, err := models.OverlayPolicy(current, proposed)
	if err != nil {
		return nil, fmt.Errorf("invalid proposed policy: %w", err)
	}

	result, err := services.NewScenarioCalculator().Compare(profile, demand, current, next)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
