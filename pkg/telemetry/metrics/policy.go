package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PolicyMetrics tracks metrics related to the host deny policy.
//
// Metrics:
//   - prism_blocked_requests_total: Requests denied by the policy, by reason
//   - prism_policy_reloads_total: Policy file reloads by result
//   - prism_policy_entries: Compiled deny entries by type
type PolicyMetrics struct {
	// Requests denied by the policy
	blockedTotal *prometheus.CounterVec

	// Policy file reloads
	reloadsTotal *prometheus.CounterVec

	// Compiled deny entry counts
	entries *prometheus.GaugeVec
}

// NewPolicyMetrics creates and registers policy metrics with the provided registry.
func NewPolicyMetrics(registry *prometheus.Registry) *PolicyMetrics {
	pm := &PolicyMetrics{
		blockedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "blocked_requests_total",
				Help:      "Total number of requests denied by the host policy",
			},
			[]string{"reason"},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_reloads_total",
				Help:      "Total number of host policy file reloads",
			},
			[]string{"result"},
		),

		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "policy_entries",
				Help:      "Number of compiled deny entries in the active policy",
			},
			[]string{"type"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		pm.blockedTotal,
		pm.reloadsTotal,
		pm.entries,
	)

	return pm
}

// RecordBlocked records a request denied by the policy.
//
// Parameters:
//   - reason: "host" for denied hostnames, "ip" for denied networks,
//     "private" for RFC1918/loopback targets
func (pm *PolicyMetrics) RecordBlocked(reason string) {
	pm.blockedTotal.WithLabelValues(reason).Inc()
}

// RecordReload records the result of a policy file reload.
func (pm *PolicyMetrics) RecordReload(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	pm.reloadsTotal.WithLabelValues(result).Inc()
}

// UpdateEntries updates the compiled entry gauges.
//
// Parameters:
//   - hosts: Number of denied hostname patterns
//   - networks: Number of denied CIDR networks
func (pm *PolicyMetrics) UpdateEntries(hosts, networks int) {
	pm.entries.WithLabelValues("hosts").Set(float64(hosts))
	pm.entries.WithLabelValues("networks").Set(float64(networks))
}
