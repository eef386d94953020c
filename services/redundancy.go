// ABOUTME: Redundancy and fault-domain resolver for the final node count
// ABOUTME: Applies quorum, eviction safety, N+X sparing, and fault-domain rounding

package services

import (
	"math"

	"github.com/markalston/vm-migration-sizer/models"
)

// EvictionSafeNodeCount returns the smallest n >= baseline such that
// floor(n × (100 − threshold) / 100) >= baseline.
func EvictionSafeNodeCount(baseline int, thresholdPct float64) int {
	if baseline <= 0 || thresholdPct <= 0 {
		return baseline
	}
	keep := (100 - thresholdPct) / 100
	if keep <= 0 {
		return baseline
	}

	safe := func(n int) bool { return int(floorTol(float64(n)*keep)) >= baseline }

	// Start from the closed form and correct for float error. Each loop runs
	// at most a couple of steps.
	n := max(baseline, int(math.Ceil(float64(baseline)/keep)))
	for n > baseline && safe(n-1) {
		n--
	}
	for !safe(n) {
		n++
	}
	return n
}

// RoundUpToFaultDomain rounds n up to the next multiple of size.
func RoundUpToFaultDomain(n, size int) int {
	if size <= 1 || n <= 0 {
		return n
	}
	return ((n + size - 1) / size) * size
}

// ResolveFinalNodeCount extends a solved requirement with the quorum,
// eviction-safety, redundancy, and fault-domain steps. Each step runs once
// and never lowers the count. Infeasible requirements are returned as is.
func ResolveFinalNodeCount(req models.NodeRequirement, policy models.SizingPolicy) models.NodeRequirement {
	if !req.Feasible {
		return req
	}

	req.QuorumAdjusted = BaselineMinimum(req, policy)
	req.EvictionAdjusted = EvictionSafeNodeCount(req.QuorumAdjusted, policy.EvictionThresholdPct)
	req.RedundancyAdjusted = req.EvictionAdjusted + max(0, policy.RedundancyNodes)

	req.FinalNodeCount = req.RedundancyAdjusted
	if policy.FaultDomainAlignment {
		req.FinalNodeCount = RoundUpToFaultDomain(req.RedundancyAdjusted, policy.FaultDomainSize)
	}

	return req
}
