// ABOUTME: Health command for the vm-sizer CLI
// ABOUTME: Checks backend connectivity, catalog, and vSphere status

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/vm-migration-sizer/cli/internal/client"
	"github.com/markalston/vm-migration-sizer/models"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the vm-migration-sizer service and report catalog and vSphere status.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code:
// 0 ok, 1 degraded, 2 unreachable.
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()
	c := client.New(url)

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	switch OutputFormat() {
	case formatText:
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	case formatJSON:
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	default:
		if err := writeOutput(w, healthOutput(url, resp), nil); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	if resp.Status != "ok" {
		return 1
	}
	return 0
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *models.HealthResponse) string {
	out := fmt.Sprintf(`Backend:       %s
Status:        %s
Catalog:       %s (%s, %d profiles)
vSphere:       %s
Cache Entries: %d`, url, resp.Status, resp.Catalog, resp.Source, resp.Profiles, resp.VSphere, resp.CacheEntries)
	if resp.CatalogError != "" {
		out += "\nCatalog Error: " + resp.CatalogError
	}
	return out
}

func healthOutput(url string, resp *models.HealthResponse) map[string]interface{} {
	return map[string]interface{}{
		"backend":       url,
		"status":        resp.Status,
		"catalog":       resp.Catalog,
		"catalog_error": resp.CatalogError,
		"profiles":      resp.Profiles,
		"source":        resp.Source,
		"vsphere":       resp.VSphere,
		"cache_entries": resp.CacheEntries,
	}
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, resp *models.HealthResponse) string {
	data, _ := json.MarshalIndent(healthOutput(url, resp), "", "  ")
	return string(data)
}
