// ABOUTME: Interactive huh form for editing the sizing policy
// ABOUTME: Pre-filled with the flag values and written back into policyInput

package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/styles"
	"github.com/spf13/cobra"
)

// policyFormValues holds the form's string fields.
type policyFormValues struct {
	cpuOvercommit     string
	memoryOvercommit  string
	replicationFactor string
	redundancyNodes   string
	evictionPct       string
	growthPct         string
	horizonYears      string
	hyperthreading    bool
	faultDomains      bool
}

func newPolicyFormValues(p *policyInput) *policyFormValues {
	return &policyFormValues{
		cpuOvercommit:     strconv.FormatFloat(p.cpuOvercommit, 'g', -1, 64),
		memoryOvercommit:  strconv.FormatFloat(p.memoryOvercommit, 'g', -1, 64),
		replicationFactor: strconv.Itoa(p.replicationFactor),
		redundancyNodes:   strconv.Itoa(p.redundancyNodes),
		evictionPct:       strconv.FormatFloat(p.evictionPct, 'g', -1, 64),
		growthPct:         strconv.FormatFloat(p.growthPct, 'g', -1, 64),
		horizonYears:      strconv.Itoa(p.horizonYears),
		hyperthreading:    p.hyperthreading,
		faultDomains:      p.faultDomains,
	}
}

// applyTo parses the form fields into p. Fields were validated by the form.
func (v *policyFormValues) applyTo(p *policyInput) error {
	var err error
	if p.cpuOvercommit, err = strconv.ParseFloat(v.cpuOvercommit, 64); err != nil {
		return fmt.Errorf("cpu overcommit: %w", err)
	}
	if p.memoryOvercommit, err = strconv.ParseFloat(v.memoryOvercommit, 64); err != nil {
		return fmt.Errorf("memory overcommit: %w", err)
	}
	if p.replicationFactor, err = strconv.Atoi(v.replicationFactor); err != nil {
		return fmt.Errorf("replication factor: %w", err)
	}
	if p.redundancyNodes, err = strconv.Atoi(v.redundancyNodes); err != nil {
		return fmt.Errorf("redundancy nodes: %w", err)
	}
	if p.evictionPct, err = strconv.ParseFloat(v.evictionPct, 64); err != nil {
		return fmt.Errorf("eviction threshold: %w", err)
	}
	if p.growthPct, err = strconv.ParseFloat(v.growthPct, 64); err != nil {
		return fmt.Errorf("annual growth: %w", err)
	}
	if p.horizonYears, err = strconv.Atoi(v.horizonYears); err != nil {
		return fmt.Errorf("planning horizon: %w", err)
	}
	p.hyperthreading = v.hyperthreading
	p.faultDomains = v.faultDomains
	return nil
}

func validateNumber(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number of 0 or more")
	}
	return nil
}

// formTheme matches the CLI palette.
func formTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	return t
}

func newPolicyForm(v *policyFormValues) *huh.Form {
	rfOptions := []huh.Option[string]{
		huh.NewOption("RF2 (two copies)", "2"),
		huh.NewOption("RF3 (three copies)", "3"),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("CPU overcommit ratio").
				Description("vCPUs per logical CPU, 1 to 20").
				Value(&v.cpuOvercommit).
				Validate(validateNumber),
			huh.NewInput().
				Title("Memory overcommit ratio").
				Description("1 means no overcommit").
				Value(&v.memoryOvercommit).
				Validate(validateNumber),
			huh.NewConfirm().
				Title("Count hyperthreads").
				Value(&v.hyperthreading),
		).Title("Compute").
			Description("How densely VMs are packed onto each node"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Replication factor").
				Options(rfOptions...).
				Value(&v.replicationFactor),
			huh.NewInput().
				Title("Redundancy nodes").
				Description("Spare nodes held for failures (N+k)").
				Value(&v.redundancyNodes).
				Validate(validateNonNegativeInt),
			huh.NewInput().
				Title("Eviction headroom %").
				Value(&v.evictionPct).
				Validate(validateNumber),
			huh.NewConfirm().
				Title("Align to fault domains").
				Value(&v.faultDomains),
		).Title("Resilience").
			Description("Replication and spare capacity"),
		huh.NewGroup(
			huh.NewInput().
				Title("Annual growth %").
				Value(&v.growthPct).
				Validate(validateNumber),
			huh.NewInput().
				Title("Planning horizon (years)").
				Value(&v.horizonYears).
				Validate(validateNonNegativeInt),
		).Title("Growth"),
	).WithTheme(formTheme())
}

// runPolicyForm shows the policy form and stores the answers in p.
func runPolicyForm(p *policyInput) error {
	values := newPolicyFormValues(p)
	if err := newPolicyForm(values).Run(); err != nil {
		return err
	}
	return values.applyTo(p)
}

// markPolicyFlagsChanged marks every form-backed flag as set so the answers
// are applied over the defaults locally and sent in remote overlays.
func markPolicyFlagsChanged(cmd *cobra.Command, p *policyInput) error {
	for _, pf := range policyFlags {
		if err := cmd.Flags().Set(pf.flag, fmt.Sprint(pf.value(p))); err != nil {
			return err
		}
	}
	return nil
}
