package events

// AnalyticsEvent é o payload publicado no tópico de analytics.
// O nome do evento segue o catálogo do frontend (Amplitude/PostHog).
type AnalyticsEvent struct {
	Event    string         `json:"event"`
	Props    map[string]any `json:"props,omitempty"`
	TsUnixMs int64          `json:"ts_unix_ms"`
}
