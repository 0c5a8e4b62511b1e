package topics

// Nomes default dos tópicos Kafka
const (
	AnalyticsEvents = "apostas_analytics_events"
)
