// ABOUTME: Human-readable rendering of plans, rankings, and profile lists
// ABOUTME: Uses lipgloss styles, threshold progress bars, and humanized sizes

package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/styles"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/widgets"
	"github.com/markalston/vm-migration-sizer/models"
)

const gib = 1 << 30

// Storage formats a GiB figure with binary units, e.g. "50 TiB".
func Storage(gibValue float64) string {
	if gibValue <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(gibValue * gib))
}

// Plan renders a full plan.
func Plan(p *models.PlanResult) string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Sizing Plan"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Profile:  %s (%s)\n", p.Profile.Name, p.Profile.Label())
	fmt.Fprintf(&sb, "Demand:   %s VMs, %s vCPU, %s memory, %s storage\n",
		humanize.Comma(int64(p.Demand.VMCount)),
		humanize.CommafWithDigits(p.Demand.TotalVCPU, 1),
		Storage(p.Demand.TotalMemoryGiB),
		Storage(p.Demand.StorageGiB))
	sb.WriteString("\n")

	if !p.Feasible() {
		sb.WriteString(styles.StatusCritical.Render("Infeasible"))
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s\n", p.Requirement.InfeasibleReason)
		return sb.String()
	}

	req := p.Requirement
	fmt.Fprintf(&sb, "%s %s\n",
		styles.ValueStyle.Render(fmt.Sprintf("%d nodes", req.FinalNodeCount)),
		styles.Subtitle.Render(fmt.Sprintf("(%s limited, %.2f TiB usable)", req.LimitingDimension, p.Summary.StorageTiB)))
	fmt.Fprintf(&sb, "  per dimension:  cpu %d, memory %d, storage %d\n", req.CPUNodes, req.MemoryNodes, req.StorageNodes)
	fmt.Fprintf(&sb, "  adjustments:    quorum %d, eviction %d, N+%d %d, final %d\n",
		req.QuorumAdjusted, req.EvictionAdjusted, p.Policy.RedundancyNodes, req.RedundancyAdjusted, req.FinalNodeCount)
	fmt.Fprintf(&sb, "  growth:         x%.3f over %d years\n", req.GrowthMultiplier, p.Policy.PlanningHorizonYears)
	sb.WriteString("\n")

	c := p.Capacity
	sb.WriteString(styles.Subtitle.Render("Per-node capacity"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  %d vCPU, %s memory, %s storage\n", c.VCPUCapacity, Storage(float64(c.MemoryCapacityGiB)), Storage(float64(c.UsableStorageGiB)))
	sb.WriteString("\n")

	sb.WriteString(Snapshot("Healthy", p.Healthy))
	sb.WriteString(Snapshot(fmt.Sprintf("Degraded (%d failed)", p.Degraded.FailedNodes), p.Degraded))
	if p.Degraded.DataAtRisk {
		sb.WriteString(styles.StatusCritical.Render("  data at risk: surviving nodes below replication factor"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "CPU overcommit: %.1f:1 %s\n", p.Policy.CPUOvercommitRatio, widgets.RiskBadge(p.CPURiskLevel))

	if recs := models.GenerateRecommendations(*p); len(recs) > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render("Recommendations"))
		sb.WriteString("\n")
		for _, r := range recs {
			fmt.Fprintf(&sb, "  - %s: %s\n", r.Title, r.Description)
		}
	}

	return sb.String()
}

// Snapshot renders one efficiency snapshot with CPU and memory bars.
func Snapshot(title string, s models.EfficiencySnapshot) string {
	cfg := widgets.DefaultProgressBarConfig()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s  %d nodes, %d VMs/node\n", styles.Subtitle.Render(title), widgets.StatusBadge(s.Status), s.SurvivingNodes, s.VMsPerNode)
	fmt.Fprintf(&sb, "  CPU    %s\n", widgets.ProgressBarWithLabel(s.CPUUtilizationPct, cfg))
	fmt.Fprintf(&sb, "  Memory %s\n", widgets.ProgressBarWithLabel(s.MemoryUtilizationPct, cfg))
	return sb.String()
}

// Recommendations renders a profile ranking as a table.
func Recommendations(resp *models.RecommendResponse) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Profile Ranking"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%d of %d profiles can host the workload (source: %s)\n\n", len(resp.Recommendations), resp.Evaluated, resp.Source)
	if len(resp.Recommendations) == 0 {
		return sb.String()
	}

	rows := [][]string{{"#", "PROFILE", "SHAPE", "NODES", "LIMIT", "DEGRADED", "STORAGE"}}
	for i, r := range resp.Recommendations {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.ProfileName,
			r.Label,
			fmt.Sprintf("%d", r.NodeCount),
			string(r.LimitingDimension),
			string(r.DegradedStatus),
			fmt.Sprintf("%.2f TiB", r.StorageTiB),
		})
	}
	sb.WriteString(table(rows))
	return sb.String()
}

// Profiles renders the catalog as a table.
func Profiles(source string, profiles []models.HardwareProfile) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Hardware Profiles"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%d profiles (source: %s)\n\n", len(profiles), source)

	rows := [][]string{{"NAME", "CORES", "THREADS", "MEMORY", "RAW STORAGE", "SUPPORTED"}}
	for _, p := range profiles {
		supported := "yes"
		if !p.SupportsTargetPlatform {
			supported = "no"
		}
		rows = append(rows, []string{
			p.Name,
			fmt.Sprintf("%d", p.PhysicalCores),
			fmt.Sprintf("%d", p.Threads),
			Storage(p.MemoryGiB),
			Storage(p.RawStorage()),
			supported,
		})
	}
	sb.WriteString(table(rows))
	return sb.String()
}

// table left-aligns rows into columns; the first row is the header.
func table(rows [][]string) string {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var sb strings.Builder
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if r == 0 {
			line = styles.KeyStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
