package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AffiliateMetrics groups every Prometheus metric the affiliate core emits.
type AffiliateMetrics struct {
	DistributionsTotal       prometheus.CounterVec
	DistributionsAmountTotal prometheus.CounterVec
	DistributionDuration     prometheus.HistogramVec
	DistributionErrorsTotal  prometheus.CounterVec
	RewardsIssuedTotal       prometheus.CounterVec

	CommissionChangesTotal prometheus.CounterVec

	NodesAttachedTotal prometheus.CounterVec
}

func NewAffiliateMetrics() *AffiliateMetrics {
	return &AffiliateMetrics{
		DistributionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_distributions_total",
				Help: "Completed commission distributions",
			},
			[]string{"tree_id", "mode"},
		),
		DistributionsAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_distributions_amount_total",
				Help: "Total commission amount distributed",
			},
			[]string{"tree_id", "mode"},
		),
		DistributionDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "affiliate_distribution_duration_seconds",
				Help:    "Time spent computing and persisting one distribution",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		DistributionErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_distribution_errors_total",
				Help: "Failed commission distributions",
			},
			[]string{"reason"},
		),
		RewardsIssuedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_rewards_issued_total",
				Help: "Individual reward rows written",
			},
			[]string{"tree_id"},
		),
		CommissionChangesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_commission_changes_total",
				Help: "Commission percent changes applied through the authority",
			},
			[]string{"tree_id"},
		),
		NodesAttachedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_nodes_attached_total",
				Help: "Nodes attached to affiliate trees",
			},
			[]string{"tree_id"},
		),
	}
}

func (m *AffiliateMetrics) RecordDistribution(treeID, mode string, amount float64, seconds float64, rewards int) {
	if m == nil {
		return
	}
	m.DistributionsTotal.WithLabelValues(treeID, mode).Inc()
	m.DistributionsAmountTotal.WithLabelValues(treeID, mode).Add(amount)
	m.DistributionDuration.WithLabelValues(mode).Observe(seconds)
	m.RewardsIssuedTotal.WithLabelValues(treeID).Add(float64(rewards))
}

func (m *AffiliateMetrics) RecordDistributionError(reason string) {
	if m == nil {
		return
	}
	m.DistributionErrorsTotal.WithLabelValues(reason).Inc()
}

func (m *AffiliateMetrics) RecordCommissionChange(treeID string) {
	if m == nil {
		return
	}
	m.CommissionChangesTotal.WithLabelValues(treeID).Inc()
}

func (m *AffiliateMetrics) RecordNodeAttached(treeID string) {
	if m == nil {
		return
	}
	m.NodesAttachedTotal.WithLabelValues(treeID).Inc()
}
