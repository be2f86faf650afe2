package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	UsersCreated            prometheus.Counter
	TokensIssued            prometheus.Counter
	TokenValidationFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userhub_users_created_total",
			Help: "Total number of users created in the system",
		}),
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "userhub_tokens_issued_total",
			Help: "Total number of tokens issued",
		}),
		TokenValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "userhub_token_validation_failures_total",
			Help: "Total number of token validation failures by reason",
		}, []string{"reason"}),
	}
}

// IncrementUsersCreated increments the users created counter by 1. Nil-safe so
// tests can run services without a registry.
func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// IncrementTokensIssued increments the tokens issued counter by 1.
func (m *Metrics) IncrementTokensIssued() {
	if m == nil {
		return
	}
	m.TokensIssued.Inc()
}

// IncrementTokenValidationFailure records a validation failure by reason.
func (m *Metrics) IncrementTokenValidationFailure(reason string) {
	if m == nil {
		return
	}
	m.TokenValidationFailures.WithLabelValues(reason).Inc()
}
