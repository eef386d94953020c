// ABOUTME: Comparison view showing current vs proposed sizing plans
// ABOUTME: Displays both cluster shapes, the delta, and tradeoff warnings

package comparison

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/styles"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/widgets"
	"github.com/markalston/vm-migration-sizer/models"
)

// Comparison displays a policy comparison
type Comparison struct {
	result *models.PlanComparison
	width  int
}

// New creates a new comparison view
func New(result *models.PlanComparison, width int) *Comparison {
	return &Comparison{
		result: result,
		width:  width,
	}
}

// View renders the comparison
func (c *Comparison) View() string {
	if c.result == nil {
		return "No comparison data"
	}

	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Policy Comparison"))
	sb.WriteString("\n")

	colWidth := max((c.width-4)/2, 30)
	current := lipgloss.NewStyle().Width(colWidth).Render(renderPlan("Current", &c.result.Current))
	proposed := lipgloss.NewStyle().Width(colWidth).Render(renderPlan("Proposed", &c.result.Proposed))
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, current, "  ", proposed))
	sb.WriteString("\n\n")

	sb.WriteString(styles.Subtitle.Render("Changes"))
	sb.WriteString("\n")

	delta := c.result.Delta
	sb.WriteString(fmt.Sprintf("  Nodes:          %s\n", widgets.DeltaBadge(delta.NodeChange)))
	sb.WriteString(fmt.Sprintf("  Usable storage: %+d GiB\n", delta.UsableStorageChangeGiB))

	utilStyle := styles.StatusOK
	if delta.DegradedMemoryUtilChangePct > 0 || delta.DegradedCPUUtilChangePct > 0 {
		utilStyle = styles.StatusWarning
	}
	sb.WriteString(fmt.Sprintf("  Degraded CPU:   %s\n", utilStyle.Render(fmt.Sprintf("%+.1f%%", delta.DegradedCPUUtilChangePct))))
	sb.WriteString(fmt.Sprintf("  Degraded mem:   %s\n", utilStyle.Render(fmt.Sprintf("%+.1f%%", delta.DegradedMemoryUtilChangePct))))
	sb.WriteString(fmt.Sprintf("  Redundancy:     %s\n", delta.RedundancyChange))

	if len(c.result.Warnings) > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusWarning.Render("Warnings"))
		sb.WriteString("\n")
		for _, w := range c.result.Warnings {
			icon := "!"
			warnStyle := styles.StatusWarning
			switch w.Severity {
			case "critical":
				icon = "X"
				warnStyle = styles.StatusCritical
			case "info":
				icon = "i"
				warnStyle = styles.Subtitle
			}
			sb.WriteString(fmt.Sprintf("  %s %s\n", warnStyle.Render(icon), w.Message))
		}
	}

	if len(c.result.Recommendations) > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render("Recommendations"))
		sb.WriteString("\n")
		for _, r := range c.result.Recommendations {
			sb.WriteString(fmt.Sprintf("  - %s: %s\n", r.Title, r.Description))
		}
	}

	return lipgloss.NewStyle().Width(c.width).Render(sb.String())
}

func renderPlan(title string, p *models.PlanResult) string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(title))
	sb.WriteString("\n")
	if !p.Feasible() {
		sb.WriteString(styles.StatusCritical.Render("Infeasible"))
		sb.WriteString("\n")
		sb.WriteString(p.Requirement.InfeasibleReason)
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Cluster:  %s\n", p.ClusterShape()))
	sb.WriteString(fmt.Sprintf("Limiting: %s\n", p.Requirement.LimitingDimension))
	sb.WriteString(fmt.Sprintf("N+%d, %.1f:1 vCPU\n", p.Policy.RedundancyNodes, p.Policy.CPUOvercommitRatio))
	sb.WriteString(fmt.Sprintf("Degraded: %s", widgets.StatusBadge(p.Degraded.Status)))
	return sb.String()
}
