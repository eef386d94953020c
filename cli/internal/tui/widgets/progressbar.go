// ABOUTME: Progress bar with visual threshold zones
// ABOUTME: Shows green/amber/red regions matching the utilization status bands

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/vm-migration-sizer/models"
)

// ProgressBarConfig holds configuration for the progress bar
type ProgressBarConfig struct {
	Width         int
	WarnThreshold float64 // Percentage where warning zone starts (default 75)
	CritThreshold float64 // Percentage where critical zone starts (default 85)
	OKColor       lipgloss.Color
	WarnColor     lipgloss.Color
	CritColor     lipgloss.Color
	EmptyColor    lipgloss.Color
	ShowZones     bool // Show threshold markers in the bar
}

// DefaultProgressBarConfig returns the utilization status bands.
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:         20,
		WarnThreshold: models.WarningThresholdPct,
		CritThreshold: models.CriticalThresholdPct,
		OKColor:       lipgloss.Color("#10B981"), // Green
		WarnColor:     lipgloss.Color("#F59E0B"), // Amber
		CritColor:     lipgloss.Color("#EF4444"), // Red
		EmptyColor:    lipgloss.Color("#374151"), // Dark gray
		ShowZones:     true,
	}
}

// ProgressBar renders a progress bar with threshold zones
func ProgressBar(percent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}

	// Clamp percent
	percent = max(0, min(percent, 100))

	filled := min(int(percent/100.0*float64(config.Width)), config.Width)

	// Zone boundaries as positions in the bar
	warnPos := int(config.WarnThreshold / 100.0 * float64(config.Width))
	critPos := int(config.CritThreshold / 100.0 * float64(config.Width))

	var bar strings.Builder
	bar.WriteString("[")

	for i := 0; i < config.Width; i++ {
		char := "░"
		color := config.EmptyColor

		if i < filled {
			char = "█"
			switch {
			case i >= critPos:
				color = config.CritColor
			case i >= warnPos:
				color = config.WarnColor
			default:
				color = config.OKColor
			}
		} else if config.ShowZones && (i == warnPos || i == critPos) {
			char = "│"
		}

		bar.WriteString(lipgloss.NewStyle().Foreground(color).Render(char))
	}

	bar.WriteString("]")
	return bar.String()
}

// ProgressBarWithLabel renders the bar followed by the percentage and a
// status icon. Values above 100 are shown as-is next to a full bar.
func ProgressBarWithLabel(percent float64, config ProgressBarConfig) string {
	bar := ProgressBar(percent, config)

	var statusColor lipgloss.Color
	var statusIcon string

	switch {
	case percent >= config.CritThreshold:
		statusColor = config.CritColor
		statusIcon = "✗"
	case percent >= config.WarnThreshold:
		statusColor = config.WarnColor
		statusIcon = "⚠"
	default:
		statusColor = config.OKColor
		statusIcon = "✓"
	}

	style := lipgloss.NewStyle().Foreground(statusColor)
	return fmt.Sprintf("%s %s %s", bar, style.Render(fmt.Sprintf("%5.1f%%", percent)), style.Render(statusIcon))
}
