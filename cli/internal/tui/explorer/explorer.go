// ABOUTME: Bubbletea what-if explorer for the sizing policy
// ABOUTME: Arrow keys select and nudge policy knobs; the plan is recomputed on every change

package explorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/report"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/styles"
	"github.com/markalston/vm-migration-sizer/cli/internal/tui/widgets"
	"github.com/markalston/vm-migration-sizer/models"
	"github.com/markalston/vm-migration-sizer/services"
)

// Planner sizes the workload under a policy.
type Planner func(policy models.SizingPolicy) (models.PlanResult, error)

// keyMap holds the explorer key bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Increase key.Binding
	Decrease key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Increase, k.Decrease, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Increase, k.Decrease, k.Reset},
		{k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous knob"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next knob"),
		),
		Increase: key.NewBinding(
			key.WithKeys("right", "l", "+"),
			key.WithHelp("→/+", "increase"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←/-", "decrease"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset policy"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// knob is one adjustable policy field.
type knob struct {
	label  string
	get    func(p models.SizingPolicy) float64
	set    func(p *models.SizingPolicy, v float64)
	step   float64
	min    float64
	max    float64
	toggle bool
}

func (k knob) format(v float64) string {
	switch {
	case k.toggle && v != 0:
		return "on"
	case k.toggle:
		return "off"
	case k.step < 1:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

var knobs = []knob{
	{label: "CPU overcommit", step: 0.5, min: 1, max: 20,
		get: func(p models.SizingPolicy) float64 { return p.CPUOvercommitRatio },
		set: func(p *models.SizingPolicy, v float64) { p.CPUOvercommitRatio = v }},
	{label: "Memory overcommit", step: 0.1, min: 1, max: 4,
		get: func(p models.SizingPolicy) float64 { return p.MemoryOvercommitRatio },
		set: func(p *models.SizingPolicy, v float64) { p.MemoryOvercommitRatio = v }},
	{label: "Hyperthreading", step: 1, min: 0, max: 1, toggle: true,
		get: func(p models.SizingPolicy) float64 { return boolValue(p.HyperthreadingEnabled) },
		set: func(p *models.SizingPolicy, v float64) { p.HyperthreadingEnabled = v != 0 }},
	{label: "Replication factor", step: 1, min: 2, max: 5,
		get: func(p models.SizingPolicy) float64 { return float64(p.ReplicationFactor) },
		set: func(p *models.SizingPolicy, v float64) { p.ReplicationFactor = int(v) }},
	{label: "Redundancy nodes", step: 1, min: 0, max: 16,
		get: func(p models.SizingPolicy) float64 { return float64(p.RedundancyNodes) },
		set: func(p *models.SizingPolicy, v float64) { p.RedundancyNodes = int(v) }},
	{label: "Eviction headroom %", step: 5, min: 0, max: 90,
		get: func(p models.SizingPolicy) float64 { return p.EvictionThresholdPct },
		set: func(p *models.SizingPolicy, v float64) { p.EvictionThresholdPct = v }},
	{label: "Operational storage %", step: 5, min: 5, max: 100,
		get: func(p models.SizingPolicy) float64 { return p.OperationalCapacityPct },
		set: func(p *models.SizingPolicy, v float64) { p.OperationalCapacityPct = v }},
	{label: "Annual growth %", step: 5, min: 0, max: 100,
		get: func(p models.SizingPolicy) float64 { return p.AnnualGrowthPct },
		set: func(p *models.SizingPolicy, v float64) { p.AnnualGrowthPct = v }},
	{label: "Horizon years", step: 1, min: 0, max: 10,
		get: func(p models.SizingPolicy) float64 { return float64(p.PlanningHorizonYears) },
		set: func(p *models.SizingPolicy, v float64) { p.PlanningHorizonYears = int(v) }},
	{label: "Fault-domain alignment", step: 1, min: 0, max: 1, toggle: true,
		get: func(p models.SizingPolicy) float64 { return boolValue(p.FaultDomainAlignment) },
		set: func(p *models.SizingPolicy, v float64) { p.FaultDomainAlignment = v != 0 }},
	{label: "Degraded failed nodes", step: 1, min: 0, max: 16,
		get: func(p models.SizingPolicy) float64 { return float64(p.DegradedFailedNodes) },
		set: func(p *models.SizingPolicy, v float64) { p.DegradedFailedNodes = int(v) }},
}

// Model is the explorer's bubbletea model.
type Model struct {
	profile models.HardwareProfile
	demand  models.WorkloadDemand
	initial models.SizingPolicy
	policy  models.SizingPolicy
	planner Planner

	cursor       int
	plan         models.PlanResult
	err          error
	initialNodes int // 0 when the starting policy is infeasible

	keys  keyMap
	help  help.Model
	width int
}

// New creates an explorer planning with the local engine.
func New(profile models.HardwareProfile, demand models.WorkloadDemand, policy models.SizingPolicy) *Model {
	calc := services.NewPlanningCalculator()
	return NewWithPlanner(profile, demand, policy, func(p models.SizingPolicy) (models.PlanResult, error) {
		return calc.Plan(profile, p, demand)
	})
}

// NewWithPlanner creates an explorer with a custom planner.
func NewWithPlanner(profile models.HardwareProfile, demand models.WorkloadDemand, policy models.SizingPolicy, planner Planner) *Model {
	m := &Model{
		profile: profile,
		demand:  demand,
		initial: policy,
		policy:  policy,
		planner: planner,
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   100,
	}
	m.recompute()
	if m.err == nil && m.plan.Feasible() {
		m.initialNodes = m.plan.Requirement.FinalNodeCount
	}
	return m
}

// Policy returns the current policy.
func (m *Model) Policy() models.SizingPolicy {
	return m.policy
}

// Plan returns the latest successful plan.
func (m *Model) Plan() models.PlanResult {
	return m.plan
}

// Err returns the error from the latest recompute, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) recompute() {
	plan, err := m.planner(m.policy)
	m.err = err
	if err == nil {
		m.plan = plan
	}
}

// nudge moves the selected knob by dir steps, clamped to its bounds.
func (m *Model) nudge(dir float64) {
	k := knobs[m.cursor]
	v := k.get(m.policy) + dir*k.step
	v = math.Round(v*100) / 100
	v = max(k.min, min(v, k.max))
	if v == k.get(m.policy) {
		return
	}
	k.set(&m.policy, v)
	m.recompute()
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.cursor = max(0, m.cursor-1)
		case key.Matches(msg, m.keys.Down):
			m.cursor = min(len(knobs)-1, m.cursor+1)
		case key.Matches(msg, m.keys.Increase):
			m.nudge(1)
		case key.Matches(msg, m.keys.Decrease):
			m.nudge(-1)
		case key.Matches(msg, m.keys.Reset):
			m.policy = m.initial
			m.recompute()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("What-if Explorer"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s (%s), %d VMs", m.profile.Name, m.profile.Label(), m.demand.VMCount)))
	sb.WriteString("\n\n")

	left := styles.ActivePanel.Render(m.knobsView())
	right := styles.Panel.Render(m.resultView())
	if m.width < 90 {
		sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, left, right))
	} else {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	}
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render(m.help.View(m.keys)))
	return sb.String()
}

func (m *Model) knobsView() string {
	var sb strings.Builder
	for i, k := range knobs {
		value := k.format(k.get(m.policy))
		line := fmt.Sprintf("  %-23s %6s", k.label, value)
		if i == m.cursor {
			line = styles.KeyStyle.Render(fmt.Sprintf("> %-23s %6s", k.label, value))
		} else if k.get(m.policy) != k.get(m.initial) {
			line = styles.ValueStyle.Render(line)
		}
		sb.WriteString(line)
		if i < len(knobs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m *Model) resultView() string {
	var sb strings.Builder
	if m.err != nil {
		sb.WriteString(styles.StatusCritical.Render("Invalid policy"))
		sb.WriteString("\n")
		sb.WriteString(m.err.Error())
		return sb.String()
	}

	p := m.plan
	if !p.Feasible() {
		sb.WriteString(styles.StatusCritical.Render("Infeasible"))
		sb.WriteString("\n")
		sb.WriteString(p.Requirement.InfeasibleReason)
		return sb.String()
	}

	sb.WriteString(styles.ValueStyle.Render(fmt.Sprintf("%d nodes", p.Requirement.FinalNodeCount)))
	if m.initialNodes > 0 {
		sb.WriteString(" ")
		sb.WriteString(widgets.DeltaBadge(p.Requirement.FinalNodeCount - m.initialNodes))
	}
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s limited, %.2f TiB usable", p.Requirement.LimitingDimension, p.Summary.StorageTiB)))
	sb.WriteString("\n\n")
	sb.WriteString(report.Snapshot("Healthy", p.Healthy))
	sb.WriteString(report.Snapshot(fmt.Sprintf("Degraded (%d failed)", p.Degraded.FailedNodes), p.Degraded))
	return sb.String()
}
