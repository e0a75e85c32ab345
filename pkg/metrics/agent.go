package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AgentMetrics records counters for the conversational intake path.
type AgentMetrics struct {
	turnDuration     *prometheus.HistogramVec
	ordersCreated    prometheus.Counter
	ordersFinalized  prometheus.Counter
	providerFailures *prometheus.CounterVec
	aiFallbacks      prometheus.Counter
	alertFailures    prometheus.Counter
}

// NewAgentMetrics registers the agent metrics on the provided registerer.
func NewAgentMetrics(reg prometheus.Registerer) *AgentMetrics {
	if reg == nil {
		return &AgentMetrics{}
	}
	turnDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agent_turn_duration_seconds",
		Help:    "Duration of conversation turns in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agent_orders_created_total",
		Help: "Orders persisted by the intake agent.",
	})
	ordersFinalized := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agent_orders_finalized_total",
		Help: "Orders finalized after proof of payment.",
	})
	providerFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agent_provider_failures_total",
		Help: "Checkout generation failures by payment provider.",
	}, []string{"provider"})
	aiFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agent_ai_fallbacks_total",
		Help: "Turns answered by the secondary AI backend.",
	})
	alertFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agent_alert_failures_total",
		Help: "Owner alert emails that failed to send.",
	})
	reg.MustRegister(turnDuration, ordersCreated, ordersFinalized, providerFailures, aiFallbacks, alertFailures)
	return &AgentMetrics{
		turnDuration:     turnDuration,
		ordersCreated:    ordersCreated,
		ordersFinalized:  ordersFinalized,
		providerFailures: providerFailures,
		aiFallbacks:      aiFallbacks,
		alertFailures:    alertFailures,
	}
}

// ObserveTurn records the duration for the given turn kind (chat/proof).
func (a *AgentMetrics) ObserveTurn(kind string, duration time.Duration) {
	if a == nil || a.turnDuration == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	a.turnDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// IncOrderCreated increments the created-orders counter.
func (a *AgentMetrics) IncOrderCreated() {
	if a == nil || a.ordersCreated == nil {
		return
	}
	a.ordersCreated.Inc()
}

// IncOrderFinalized increments the finalized-orders counter.
func (a *AgentMetrics) IncOrderFinalized() {
	if a == nil || a.ordersFinalized == nil {
		return
	}
	a.ordersFinalized.Inc()
}

// IncProviderFailure increments the failure counter for the named provider.
func (a *AgentMetrics) IncProviderFailure(provider string) {
	if a == nil || a.providerFailures == nil {
		return
	}
	if provider == "" {
		provider = "unknown"
	}
	a.providerFailures.WithLabelValues(provider).Inc()
}

// IncAIFallback increments the secondary-backend counter.
func (a *AgentMetrics) IncAIFallback() {
	if a == nil || a.aiFallbacks == nil {
		return
	}
	a.aiFallbacks.Inc()
}

// IncAlertFailure increments the failed owner-alert counter.
func (a *AgentMetrics) IncAlertFailure() {
	if a == nil || a.alertFailures == nil {
		return
	}
	a.alertFailures.Inc()
}
