// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Colored inline badges for utilization status, risk, and deltas

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/vm-migration-sizer/models"
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

func badge(text string, bg, fg lipgloss.Color) string {
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// StatusBadge renders a GOOD/WARN/CRIT badge for a utilization status.
func StatusBadge(s models.Status) string {
	switch s {
	case models.StatusGood:
		return badge("GOOD", BadgeOKBg, BadgeOKFg)
	case models.StatusWarning:
		return badge("WARN", BadgeWarnBg, BadgeWarnFg)
	case models.StatusCritical:
		return badge("CRIT", BadgeCritBg, BadgeCritFg)
	default:
		return badge("--", BadgeNeutralBg, BadgeNeutralFg)
	}
}

// RiskBadge renders the CPU overcommit risk level as a badge.
func RiskBadge(level string) string {
	switch level {
	case "low":
		return badge("low risk", BadgeOKBg, BadgeOKFg)
	case "medium":
		return badge("medium risk", BadgeWarnBg, BadgeWarnFg)
	case "high":
		return badge("high risk", BadgeCritBg, BadgeCritFg)
	default:
		return badge(level, BadgeNeutralBg, BadgeNeutralFg)
	}
}

// DeltaBadge renders a node-count change. Fewer nodes is shown green.
func DeltaBadge(delta int) string {
	text := fmt.Sprintf("%+d nodes", delta)
	switch {
	case delta < 0:
		return badge(text, BadgeOKBg, BadgeOKFg)
	case delta > 0:
		return badge(text, BadgeWarnBg, BadgeWarnFg)
	default:
		return badge("no change", BadgeNeutralBg, BadgeNeutralFg)
	}
}
