package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the client slice.
type Metrics struct {
	ClientsCreated   prometheus.Counter
	ClientsUpdated   prometheus.Counter
	ClientsDeleted   prometheus.Counter
	SearchesExecuted prometheus.Counter
	AnalyticsRuns    prometheus.Counter
}

// New creates and registers all client metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ClientsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ngx_clients_created_total",
			Help: "Total number of clients created",
		}),
		ClientsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ngx_clients_updated_total",
			Help: "Total number of client updates persisted",
		}),
		ClientsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ngx_clients_deleted_total",
			Help: "Total number of clients deleted",
		}),
		SearchesExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ngx_client_searches_total",
			Help: "Total number of client search executions",
		}),
		AnalyticsRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ngx_client_analytics_total",
			Help: "Total number of analytics report generations",
		}),
	}
}
