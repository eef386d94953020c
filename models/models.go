// ABOUTME: Shared model types for the sizing engine and its API
// ABOUTME: Resource dimensions, status labels, and JSON error responses

package models

// Dimension identifies one sized resource of a node.
type Dimension string

const (
	DimensionCPU     Dimension = "cpu"
	DimensionMemory  Dimension = "memory"
	DimensionStorage Dimension = "storage"
)

// dimensionOrder is the fixed precedence used to break ties between dimensions.
var dimensionOrder = []Dimension{DimensionCPU, DimensionMemory, DimensionStorage}

// Dimensions returns the sized dimensions in precedence order.
func Dimensions() []Dimension {
	out := make([]Dimension, len(dimensionOrder))
	copy(out, dimensionOrder)
	return out
}

// Status classifies a utilization figure.
type Status string

const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Utilization thresholds (percent). Warning is inclusive, critical is inclusive.
const (
	WarningThresholdPct  = 75.0
	CriticalThresholdPct = 85.0
)

// ClassifyUtilization maps a utilization percentage to a status.
// < 75 good, 75 up to (not including) 85 warning, >= 85 critical.
func ClassifyUtilization(pct float64) Status {
	if pct >= CriticalThresholdPct {
		return StatusCritical
	}
	if pct >= WarningThresholdPct {
		return StatusWarning
	}
	return StatusGood
}

// WorstStatus returns the most severe of the given statuses.
func WorstStatus(statuses ...Status) Status {
	worst := StatusGood
	for _, s := range statuses {
		switch s {
		case StatusCritical:
			return StatusCritical
		case StatusWarning:
			worst = StatusWarning
		}
	}
	return worst
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
