package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tphakala/potability-go/internal/datastore"
	"github.com/tphakala/potability-go/internal/logger"
)

// RecordMessage is the payload published for each stored record.
type RecordMessage struct {
	datastore.WaterQuality
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes stored records to the configured topic. Failures are
// logged and never returned to the caller.
type Publisher struct {
	client Client
	topic  string
	source string
	log    logger.Logger
}

// NewPublisher returns a Publisher sending to topic through c.
func NewPublisher(c Client, topic, source string, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.Global().Module("mqtt")
	}
	return &Publisher{client: c, topic: topic, source: source, log: log}
}

// PublishRecord sends record to the broker.
func (p *Publisher) PublishRecord(ctx context.Context, record *datastore.WaterQuality) {
	if p == nil || p.client == nil || record == nil {
		return
	}

	payload, err := json.Marshal(RecordMessage{
		WaterQuality: *record,
		Source:       p.source,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		p.log.Error("failed to encode record", logger.Uint64("id", record.ID), logger.Error(err))
		return
	}

	if err := p.client.Publish(ctx, p.topic, payload); err != nil {
		p.log.Warn("failed to publish record",
			logger.Uint64("id", record.ID),
			logger.String("topic", p.topic),
			logger.Error(err))
	}
}
