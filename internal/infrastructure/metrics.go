package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors for the bot.
type Metrics struct {
	IncomingMessages *prometheus.CounterVec // by platform
	Intents          *prometheus.CounterVec // by intent name
	OutgoingMessages *prometheus.CounterVec // by platform
	OrdersCaptured   prometheus.Counter
	Errors           *prometheus.CounterVec // by stage
}

// NewMetrics registers collectors on the given registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IncomingMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incoming_messages_total",
			Help:      "Inbound messages by platform.",
		}, []string{"platform"}),
		Intents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classified_intents_total",
			Help:      "Classifier outcomes by intent.",
		}, []string{"intent"}),
		OutgoingMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outgoing_messages_total",
			Help:      "Replies sent by platform.",
		}, []string{"platform"}),
		OrdersCaptured: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_captured_total",
			Help:      "Orders recorded from complete purchase messages.",
		}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Processing errors by stage.",
		}, []string{"stage"}),
	}
}
