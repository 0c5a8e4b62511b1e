package analytics

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	skafka "github.com/radieske/aposta-facil/internal/shared/kafka"
	"github.com/radieske/aposta-facil/internal/shared/metrics"
	"github.com/radieske/aposta-facil/pkg/contracts/events"
)

// KafkaTracker publica eventos de analytics num tópico Kafka.
// Fire-and-forget: erro de publicação não falha a requisição.
type KafkaTracker struct {
	log    *zap.Logger
	writer *skafka.Writer
}

func NewKafkaTracker(log *zap.Logger, w *skafka.Writer) *KafkaTracker {
	return &KafkaTracker{log: log, writer: w}
}

func (t *KafkaTracker) Track(ctx context.Context, event string, props map[string]any) {
	payload, err := json.Marshal(events.AnalyticsEvent{
		Event:    event,
		Props:    props,
		TsUnixMs: time.Now().UnixMilli(),
	})
	if err != nil {
		metrics.AnalyticsPublishErrors.Inc()
		t.log.Warn("analytics marshal", zap.String("event", event), zap.Error(err))
		return
	}

	if err := skafka.WriteJSON(ctx, t.writer, event, payload); err != nil {
		metrics.AnalyticsPublishErrors.Inc()
		t.log.Warn("analytics publish", zap.String("event", event), zap.Error(err))
	}
}
