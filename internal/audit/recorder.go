package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/mbeecher/beerworks/internal/cache"
	"github.com/mbeecher/beerworks/internal/domain"
	kafkax "github.com/mbeecher/beerworks/internal/kafka"
	"github.com/mbeecher/beerworks/internal/logger"
)

type Store interface {
	Insert(ctx context.Context, a domain.AuditRecord) error
}

type Deduper interface {
	Seen(ctx context.Context, eventID string) bool
	Mark(ctx context.Context, eventID string)
}

// Recorder turns consumed audit events into append-only audit rows. A
// failed insert is logged and the message is still committed: the audit
// trail is advisory, so it is never retried at the expense of the stream.
type Recorder struct {
	Store Store
	Dedup Deduper
	Log   *logger.Logger
}

func (r *Recorder) HandleBeerEvent(ctx context.Context, m kafkago.Message) error {
	var env domain.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		r.Log.Warn("audit event undecodable, skipping", "err", err)
		return nil
	}

	if r.Dedup.Seen(ctx, env.EventID) {
		return nil
	}
	r.Dedup.Mark(ctx, env.EventID)

	beer, err := kafkax.UnwrapPayload[domain.Beer](env.Payload)
	if err != nil {
		r.Log.Warn("audit payload undecodable, skipping", "event_id", env.EventID, "err", err)
		return nil
	}

	rec := domain.AuditRecord{
		AuditID:        uuid.Must(uuid.NewV7()).String(), // time-ordered
		BeerID:         beer.ID,
		Version:        beer.Version,
		Name:           beer.Name,
		Style:          beer.Style,
		UPC:            beer.UPC,
		QuantityOnHand: beer.QuantityOnHand,
		Price:          beer.Price,
		CreatedAt:      beer.CreatedAt,
		UpdatedAt:      beer.UpdatedAt,
		EventType:      env.EventType,
		Principal:      env.Principal,
		RecordedAt:     time.Now().UTC(),
	}
	if err := r.Store.Insert(ctx, rec); err != nil {
		r.Log.Error("audit insert failed", "event_id", env.EventID, "beer_id", beer.ID, "err", err)
		return nil
	}
	r.Log.Info("audit record saved", "event_type", env.EventType, "beer_id", beer.ID)
	return nil
}

// RedisDedup suppresses redelivered events by event id. Errors count as
// unseen: duplicate audit rows beat lost ones.
type RedisDedup struct {
	RDB     *redis.Client
	Service string
}

func (d *RedisDedup) Seen(ctx context.Context, eventID string) bool {
	key := fmt.Sprintf(cache.KeyDedup, d.Service, eventID)
	n, err := d.RDB.Exists(ctx, key).Result()
	return err == nil && n > 0
}

func (d *RedisDedup) Mark(ctx context.Context, eventID string) {
	key := fmt.Sprintf(cache.KeyDedup, d.Service, eventID)
	_ = d.RDB.Set(ctx, key, "1", cache.TTLDedup).Err()
}
