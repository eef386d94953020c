// ABOUTME: Shared helpers for command tests
// ABOUTME: Builds throwaway commands with the shared input flags bound

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// referenceArgs describe the 250-VM workload on nvme-32c-256g at N+2.
var referenceArgs = []string{
	"--vms", "250", "--vcpu", "1000", "--memory-gib", "4000", "--storage-gib", "51200",
	"--cpu-overcommit", "5", "--redundancy-nodes", "2", "--growth-pct", "20", "--horizon-years", "2",
}

func newPlanTestCmd(t *testing.T, args ...string) (*cobra.Command, *planOptions) {
	t.Helper()
	opts := &planOptions{}
	cmd := &cobra.Command{Use: "plan"}
	opts.profile.bind(cmd, true)
	opts.demand.bind(cmd)
	opts.policy.bind(cmd)
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return cmd, opts
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
