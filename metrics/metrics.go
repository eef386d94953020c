// ABOUTME: Prometheus collectors for the sizing service
// ABOUTME: Counts plans by outcome, tracks plan sizes, and catalog refresh results

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Plan outcomes
const (
	OutcomeFeasible   = "feasible"
	OutcomeInfeasible = "infeasible"
	OutcomeInvalid    = "invalid"
)

// Catalog refresh results
const (
	RefreshSuccess = "success"
	RefreshError   = "error"
)

var (
	plansTotal          *prometheus.CounterVec
	planNodes           prometheus.Histogram
	catalogRefreshTotal *prometheus.CounterVec
	planCacheTotal      *prometheus.CounterVec

	initOnce sync.Once
	initErr  error
)

// InitMetrics registers all collectors with the provided registry.
// Safe to call more than once; only the first registry is used.
func InitMetrics(registry prometheus.Registerer) error {
	initOnce.Do(func() {
		plansTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sizer_plans_total",
				Help: "Total number of sizing plans computed, by outcome",
			},
			[]string{"outcome"},
		)
		planNodes = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sizer_plan_nodes",
				Help:    "Final node count of feasible sizing plans",
				Buckets: []float64{3, 6, 9, 12, 18, 24, 36, 48, 64, 96, 128},
			},
		)
		catalogRefreshTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sizer_catalog_refresh_total",
				Help: "Total number of hardware catalog refreshes, by result",
			},
			[]string{"result"},
		)
		planCacheTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sizer_plan_cache_total",
				Help: "Plan cache lookups, by result",
			},
			[]string{"result"},
		)

		for _, c := range []prometheus.Collector{plansTotal, planNodes, catalogRefreshTotal, planCacheTotal} {
			if err := registry.Register(c); err != nil {
				initErr = err
				return
			}
		}
	})
	return initErr
}

// ObservePlan records a computed plan. nodes is ignored unless the plan is feasible.
func ObservePlan(outcome string, nodes int) {
	if plansTotal == nil {
		return
	}
	plansTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeFeasible {
		planNodes.Observe(float64(nodes))
	}
}

// ObserveCatalogRefresh records the result of a catalog refresh.
func ObserveCatalogRefresh(err error) {
	if catalogRefreshTotal == nil {
		return
	}
	if err != nil {
		catalogRefreshTotal.WithLabelValues(RefreshError).Inc()
		return
	}
	catalogRefreshTotal.WithLabelValues(RefreshSuccess).Inc()
}

// ObservePlanCache records a plan cache hit or miss.
func ObservePlanCache(hit bool) {
	if planCacheTotal == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	planCacheTotal.WithLabelValues(result).Inc()
}
