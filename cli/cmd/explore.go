// ABOUTME: Explore command launching the interactive what-if explorer
// ABOUTME: Starts from the profile, demand, and policy flags and prints the final plan on exit

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/explorer"
	"github.com/markalston/vm-migration-sizer/models"
	"github.com/spf13/cobra"
)

type exploreOptions struct {
	profile profileInput
	demand  demandInput
	policy  policyInput
}

var exploreOpts exploreOptions

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Explore sizing policies interactively",
	Long: `Open a terminal explorer over the sizing policy. Arrow keys move between
knobs and nudge their values; the plan is recomputed on every change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := newExplorer(cmd.Context(), cmd, &exploreOpts)
		if err != nil {
			return err
		}

		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("explorer: %w", err)
		}
		return printExploreResult(os.Stdout, model)
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreOpts.profile.bind(exploreCmd, true)
	exploreOpts.demand.bind(exploreCmd)
	exploreOpts.policy.bind(exploreCmd)
}

func newExplorer(ctx context.Context, cmd *cobra.Command, opts *exploreOptions) (*explorer.Model, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	demand, err := opts.demand.load()
	if err != nil {
		return nil, err
	}
	profile, err := opts.profile.resolve(ctx)
	if err != nil {
		return nil, err
	}
	policy := opts.policy.apply(cmd, models.DefaultSizingPolicy())
	return explorer.New(profile, demand, policy), nil
}

// printExploreResult prints the plan and policy the user ended on.
func printExploreResult(w io.Writer, m *explorer.Model) error {
	if err := m.Err(); err != nil {
		fmt.Fprintf(w, "Last policy was invalid: %v\n", err)
		return nil
	}
	plan := m.Plan()
	result := struct {
		Policy models.SizingPolicy `json:"policy"`
		Nodes  int                 `json:"nodes"`
		Shape  string              `json:"shape"`
	}{m.Policy(), plan.Requirement.FinalNodeCount, plan.ClusterShape()}

	return writeOutput(w, result, func() string {
		if !plan.Feasible() {
			return "Final policy is infeasible: " + plan.Requirement.InfeasibleReason
		}
		return fmt.Sprintf("Final cluster: %s (N+%d, %.1f:1 vCPU)", plan.ClusterShape(), m.Policy().RedundancyNodes, m.Policy().CPUOvercommitRatio)
	})
}
