// ABOUTME: Profiles command listing the hardware catalog
// ABOUTME: Reads the bundled or file catalog, or the service catalog with --remote

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
	"github.com/spf13/cobra"
)

type profilesOptions struct {
	profile   profileInput
	remote    bool
	supported bool
}

var profilesOpts profilesOptions

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List hardware profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runProfiles(ctx, os.Stdout, &profilesOpts)
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesOpts.profile.bind(profilesCmd, false)
	profilesCmd.Flags().BoolVar(&profilesOpts.remote, "remote", false, "List the service catalog instead of the local one")
	profilesCmd.Flags().BoolVar(&profilesOpts.supported, "supported", false, "Only list profiles that support the target platform")
}

func runProfiles(ctx context.Context, w io.Writer, opts *profilesOptions) error {
	resp, err := loadProfiles(ctx, opts)
	if err != nil {
		return err
	}

	if opts.supported {
		filtered := resp.Profiles[:0]
		for _, p := range resp.Profiles {
			if p.SupportsTargetPlatform {
				filtered = append(filtered, p)
			}
		}
		resp.Profiles = filtered
	}

	return writeOutput(w, resp, func() string { return report.Profiles(resp.Source, resp.Profiles) })
}

func loadProfiles(ctx context.Context, opts *profilesOptions) (*models.ProfilesResponse, error) {
	if opts.remote {
		return client.New(GetAPIURL()).Profiles(ctx)
	}

	cat, err := opts.profile.catalog()
	if err != nil {
		return nil, err
	}
	defer cat.Close()

	profiles, err := cat.List(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ProfilesResponse{Source: cat.SourceName(), Profiles: profiles}, nil
}
