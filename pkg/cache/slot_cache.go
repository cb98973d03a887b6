package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SlotCache keeps the serialized list of a doctor's open slots.
// Postgres stays the source of truth; every method degrades to a miss.
//
// Entries are versioned by a per-doctor generation. GetAvailable reports the
// generation seen before the caller reads Postgres, and SetAvailable only
// stores the payload if no Invalidate happened since.
type SlotCache interface {
	GetAvailable(ctx context.Context, doctorID uuid.UUID) (payload []byte, gen int64, ok bool)
	SetAvailable(ctx context.Context, doctorID uuid.UUID, gen int64, payload []byte)
	Invalidate(ctx context.Context, doctorID uuid.UUID)
}

// NoGeneration is returned when the generation could not be read; SetAvailable skips it.
const NoGeneration int64 = -1

var errStaleGeneration = errors.New("slot cache generation moved")

type redisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewSlotCache returns a Redis backed cache, or a no-op one when client is nil.
func NewSlotCache(client *redis.Client, ttl time.Duration, log *zap.Logger) SlotCache {
	if client == nil || ttl <= 0 {
		return NopSlotCache{}
	}
	return &redisSlotCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("cache", "slots")),
	}
}

func availableKey(doctorID uuid.UUID) string {
	return fmt.Sprintf("slots:available:%s", doctorID.String())
}

func generationKey(doctorID uuid.UUID) string {
	return fmt.Sprintf("slots:gen:%s", doctorID.String())
}

func (c *redisSlotCache) GetAvailable(ctx context.Context, doctorID uuid.UUID) ([]byte, int64, bool) {
	values, err := c.client.MGet(ctx, availableKey(doctorID), generationKey(doctorID)).Result()
	if err != nil {
		c.log.Warn("Slot cache read failed", zap.Error(err), zap.String("doctor_id", doctorID.String()))
		return nil, NoGeneration, false
	}

	gen, err := parseGeneration(values[1])
	if err != nil {
		c.log.Warn("Slot cache generation unreadable", zap.Error(err), zap.String("doctor_id", doctorID.String()))
		return nil, NoGeneration, false
	}

	payload, ok := values[0].(string)
	if !ok {
		return nil, gen, false
	}
	return []byte(payload), gen, true
}

func parseGeneration(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected generation type %T", v)
	}
	return strconv.ParseInt(s, 10, 64)
}

func (c *redisSlotCache) SetAvailable(ctx context.Context, doctorID uuid.UUID, gen int64, payload []byte) {
	if gen < 0 {
		return
	}

	genKey := generationKey(doctorID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, availableKey(doctorID), payload, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("Slot cache write skipped, invalidated meanwhile", zap.String("doctor_id", doctorID.String()))
	default:
		c.log.Warn("Slot cache write failed", zap.Error(err), zap.String("doctor_id", doctorID.String()))
	}
}

func (c *redisSlotCache) Invalidate(ctx context.Context, doctorID uuid.UUID) {
	// the caller may already be cancelled, the delete must still go out
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(doctorID))
		pipe.Del(ctx, availableKey(doctorID))
		return nil
	})
	if err != nil {
		c.log.Warn("Slot cache invalidation failed", zap.Error(err), zap.String("doctor_id", doctorID.String()))
	}
}

// NopSlotCache never stores anything.
type NopSlotCache struct{}

func (NopSlotCache) GetAvailable(context.Context, uuid.UUID) ([]byte, int64, bool) {
	return nil, NoGeneration, false
}
func (NopSlotCache) SetAvailable(context.Context, uuid.UUID, int64, []byte) {}
func (NopSlotCache) Invalidate(context.Context, uuid.UUID)                  {}
