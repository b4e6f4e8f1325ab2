package messaging

import (
	"fmt"
	"log/slog"

	"school-service/internal/config"
)

// Producer publishes lifecycle events to a broker (NATS or Kafka).
type Producer interface {
	SendMessage(key string, value interface{}) error
	Close() error
}

// NewProducer builds the producer selected by cfg.Backend. Returns
// (nil, nil) when eventing is disabled.
func NewProducer(cfg config.EventsConfig, logger *slog.Logger) (Producer, error) {
	switch cfg.Backend {
	case "nats":
		return NewNATSProducer(cfg.NATS.URL, cfg.NATS.Subject, logger)
	case "kafka":
		return NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	case "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown events backend: %q", cfg.Backend)
}
