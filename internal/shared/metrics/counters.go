package metrics

import "github.com/prometheus/client_golang/prometheus"

// Contadores de negócio expostos em /metrics
var (
	BetsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apostas_created_total",
		Help: "apostas criadas",
	})
	VotesCast = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apostas_votes_cast_total",
		Help: "votos registrados",
	})
	BetsFinalized = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apostas_finalized_total",
		Help: "apostas finalizadas",
	})
	BetsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apostas_deleted_total",
		Help: "apostas removidas (soft delete)",
	})
	AnalyticsPublishErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apostas_analytics_publish_errors_total",
		Help: "falhas ao publicar eventos de analytics",
	})
)

// MustRegister registra os contadores de negócio no registry default
func MustRegister() {
	prometheus.MustRegister(BetsCreated, VotesCast, BetsFinalized, BetsDeleted, AnalyticsPublishErrors)
}
