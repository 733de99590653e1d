package audit

import (
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/mbeecher/beerworks/internal/domain"
	kafkax "github.com/mbeecher/beerworks/internal/kafka"
	"github.com/mbeecher/beerworks/internal/logger"
)

// Publisher emits one audit event per successful beer mutation. Publish is
// fire-and-forget: the snapshot is enqueued on the producer's inbox and the
// caller returns immediately. A full inbox or a broker failure costs an
// audit entry, never the mutation.
type Publisher struct {
	Producer *kafkax.Producer
	Service  string
	Log      *logger.Logger
}

func NewPublisher(p *kafkax.Producer, service string, log *logger.Logger) *Publisher {
	return &Publisher{Producer: p, Service: service, Log: log}
}

func (p *Publisher) Publish(beer domain.Beer, eventType, principal string) {
	ev := domain.Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     p.Service,
		Principal:    principal,
		Payload:      kafkax.MustMarshal(beer),
	}
	ok := p.Producer.Publish(domain.PartitionKey(beer.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	if !ok {
		p.Log.Warn("audit event dropped", "beer_id", beer.ID, "event_type", eventType)
	}
}
