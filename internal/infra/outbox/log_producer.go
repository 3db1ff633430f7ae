package outbox

import (
	"context"
	"log/slog"
)

// LogProducer stands in for the broker when none is configured and logs each envelope.
type LogProducer struct {
	Logger *slog.Logger
}

func (p LogProducer) Publish(_ context.Context, topic string, key string, payload []byte, _ map[string]string) error {
	if p.Logger != nil {
		p.Logger.Info("event published", "topic", topic, "key", key, "bytes", len(payload))
	}
	return nil
}

var _ Producer = LogProducer{}
