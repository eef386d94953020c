// ABOUTME: Tests for the compare command
// ABOUTME: Compares N+2 against N+0 locally and checks proposed-policy parsing

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/markalston/vm-migration-sizer/models"
	"github.com/spf13/cobra"
)

func newCompareTestCmd(t *testing.T, args ...string) (*cobra.Command, *compareOptions) {
	t.Helper()
	opts := &compareOptions{}
	cmd := &cobra.Command{Use: "compare"}
	opts.profile.bind(cmd, true)
	opts.demand.bind(cmd)
	opts.policy.bind(cmd)
	cmd.Flags().StringVar(&opts.proposed, "proposed", "", "")
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return cmd, opts
}

func TestRunCompare_DropRedundancy(t *testing.T) {
	resetOutputFlags(t)
	outputFormat = formatJSON
	cmd, opts := newCompareTestCmd(t, append(referenceArgs, "--proposed", `{"redundancy_nodes":0}`)...)

	var buf bytes.Buffer
	if err := runCompare(context.Background(), cmd, &buf, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result models.PlanComparison
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("invalid output: %v", err)
	}
	if result.Current.Requirement.FinalNodeCount != 27 {
		t.Errorf("Expected current 27 nodes, got %d", result.Current.Requirement.FinalNodeCount)
	}
	if result.Proposed.Requirement.FinalNodeCount != 24 {
		t.Errorf("Expected proposed 24 nodes, got %d", result.Proposed.Requirement.FinalNodeCount)
	}
	if result.Delta.NodeChange != -3 {
		t.Errorf("Expected node change -3, got %d", result.Delta.NodeChange)
	}
	if result.Proposed.Policy.CPUOvercommitRatio != 5 {
		t.Errorf("Expected proposed policy to inherit current overcommit 5, got %v", result.Proposed.Policy.CPUOvercommitRatio)
	}
}

func TestRunCompare_Text(t *testing.T) {
	resetOutputFlags(t)
	cmd, opts := newCompareTestCmd(t, append(referenceArgs, "--proposed", `{"redundancy_nodes":0}`)...)

	var buf bytes.Buffer
	if err := runCompare(context.Background(), cmd, &buf, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "-3 nodes") {
		t.Errorf("Expected node delta in text output, got:\n%s", buf.String())
	}
}

func TestReadProposed(t *testing.T) {
	raw, err := readProposed(`{"cpu_overcommit_ratio":6}`)
	if err != nil || string(raw) != `{"cpu_overcommit_ratio":6}` {
		t.Errorf("Expected inline JSON passed through, got %s (%v)", raw, err)
	}

	path := writeTempFile(t, "proposed.json", `{"replication_factor":2}`)
	raw, err = readProposed("@" + path)
	if err != nil || !strings.Contains(string(raw), "replication_factor") {
		t.Errorf("Expected file contents, got %s (%v)", raw, err)
	}

	if _, err := readProposed("redundancy_nodes=0"); err == nil {
		t.Error("Expected error for non-JSON proposal")
	}
	if _, err := readProposed("@/nonexistent/proposed.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunCompare_InvalidProposedPolicy(t *testing.T) {
	resetOutputFlags(t)
	cmd, opts := newCompareTestCmd(t, append(referenceArgs, "--proposed", `{"cpu_overcommit_ratio":50}`)...)

	err := runCompare(context.Background(), cmd, &bytes.Buffer{}, opts)
	if !models.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
