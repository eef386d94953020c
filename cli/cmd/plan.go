// ABOUTME: Plan command sizing a cluster for one hardware profile
// ABOUTME: Runs the engine locally or through the API with --remote

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

// planOptions holds everything the plan command reads from flags.
type planOptions struct {
	profile     profileInput
	demand      demandInput
	policy      policyInput
	remote      bool
	interactive bool
}

var planOpts planOptions

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Size a cluster for one hardware profile",
	Long: `Size a target cluster for the workload on one hardware profile.

Demand comes from --vms/--vcpu/--memory-gib/--storage-gib or a --demand-file
holding either a demand document or a VM inventory. Policy flags that are
not set keep the defaults.

Example:
  vm-sizer plan --profile nvme-32c-256g --vms 250 --vcpu 1000 \
    --memory-gib 4000 --storage-gib 51200 --redundancy-nodes 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if planOpts.interactive {
			if err := runPolicyForm(&planOpts.policy); err != nil {
				return err
			}
			if err := markPolicyFlagsChanged(cmd, &planOpts.policy); err != nil {
				return err
			}
		}
		return runPlan(ctx, cmd, os.Stdout, &planOpts)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planOpts.profile.bind(planCmd, true)
	planOpts.demand.bind(planCmd)
	planOpts.policy.bind(planCmd)
	planCmd.Flags().BoolVar(&planOpts.remote, "remote", false, "Plan through the API instead of the local engine")
	planCmd.Flags().BoolVarP(&planOpts.interactive, "interactive", "i", false, "Edit the sizing policy in a form before planning")
}

func runPlan(ctx context.Context, cmd *cobra.Command, w io.Writer, opts *planOptions) error {
	demand, err := opts.demand.load()
	if err != nil {
		return err
	}

	var plan *models.PlanResult
	if opts.remote {
		plan, err = client.New(GetAPIURL()).Plan(ctx, &models.PlanRequest{
			ProfileName: opts.profile.name,
			Policy:      opts.policy.overlay(cmd),
			Demand:      demand,
		})
	} else {
		plan, err = planLocally(ctx, cmd, opts, demand)
	}
	if err != nil {
		return err
	}

	return writeOutput(w, plan, func() string { return report.Plan(plan) })
}

func planLocally(ctx context.Context, cmd *cobra.Command, opts *planOptions, demand models.WorkloadDemand) (*models.PlanResult, error) {
	profile, err := opts.profile.resolve(ctx)
	if err != nil {
		return nil, err
	}
	policy := opts.policy.apply(cmd, models.DefaultSizingPolicy())

	result, err := services.NewPlanningCalculator().Plan(profile, policy, demand)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
