// ABOUTME: Root command for the vm-sizer CLI
// ABOUTME: Handles global flags, API URL resolution, and output formats

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	apiURL       string
	jsonOutput   bool
	outputFormat string
)

const defaultAPIURL = "http://localhost:8080"

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "vm-sizer",
	Short: "Size target clusters for VM migrations",
	Long: `vm-sizer sizes a hyperconverged target cluster for a VM migration.

Plans run locally with the built-in engine, or against a running
vm-migration-sizer service with --remote.

Environment Variables:
  VM_SIZER_API_URL  Backend API URL (default: http://localhost:8080)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch OutputFormat() {
		case formatText, formatJSON, formatYAML:
			return nil
		}
		return fmt.Errorf("invalid --output %q (want text, json, or yaml)", outputFormat)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides VM_SIZER_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text (same as --output json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatText, "Output format: text, json, or yaml")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("VM_SIZER_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return OutputFormat() == formatJSON
}

// OutputFormat returns the selected output format. --json wins over --output.
func OutputFormat() string {
	if jsonOutput {
		return formatJSON
	}
	if outputFormat == "" {
		return formatText
	}
	return outputFormat
}

// writeOutput writes v as JSON or YAML, or calls human for text output.
func writeOutput(w io.Writer, v interface{}, human func() string) error {
	switch OutputFormat() {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		data, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(w, human())
		return err
	}
}

// toYAML renders v through its JSON encoding so field names and order match
// the API documents.
func toYAML(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	resetStyle(&node)
	return yaml.Marshal(&node)
}

// resetStyle drops the flow and quoting styles inherited from JSON.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}
