package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/catalog"
	"github.com/fekuna/omnipos-menu-service/internal/events"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafka.Reader the listener needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

func NewKafkaReader(cfg *ConsumerConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
}

// CatalogListener drops the cached snapshot whenever a catalog event arrives,
// including events written by other instances.
type CatalogListener struct {
	reader  MessageReader
	cache   catalog.Cache
	logger  logger.ZapLogger
	backoff time.Duration
}

func NewCatalogListener(reader MessageReader, cache catalog.Cache, log logger.ZapLogger) *CatalogListener {
	return &CatalogListener{
		reader:  reader,
		cache:   cache,
		logger:  log,
		backoff: time.Second,
	}
}

func (l *CatalogListener) Start(ctx context.Context) {
	l.logger.Info("Starting catalog Kafka listener")
	for {
		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("Stopping catalog Kafka listener")
				return
			}
			l.logger.Error("Failed to read kafka message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.backoff):
			}
			continue
		}
		l.processMessage(ctx, msg.Value)
	}
}

func (l *CatalogListener) processMessage(ctx context.Context, value []byte) {
	var event events.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal catalog event", zap.Error(err))
		return
	}
	if !event.EventType.IsCatalog() {
		return
	}

	l.logger.Debug("Invalidating catalog snapshot",
		zap.String("event_type", string(event.EventType)),
		zap.String("entity_id", event.EntityID),
	)
	if err := l.cache.Invalidate(ctx); err != nil {
		l.logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}
