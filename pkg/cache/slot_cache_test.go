package cache

import (
	"context"
	"testing"
	"time"

	"hospital-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestNewSlotCacheDisabled(t *testing.T) {
	if _, ok := NewSlotCache(nil, time.Minute, zap.NewNop()).(NopSlotCache); !ok {
		t.Fatal("nil client must give a no-op cache")
	}

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	if _, ok := NewSlotCache(client, 0, zap.NewNop()).(NopSlotCache); !ok {
		t.Fatal("zero TTL must give a no-op cache")
	}
}

func TestSlotCacheUnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewSlotCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	doctorID := uuid.New()

	payload, gen, ok := c.GetAvailable(ctx, doctorID)
	if ok || payload != nil {
		t.Fatal("unreachable Redis must read as a miss")
	}
	if gen != NoGeneration {
		t.Fatalf("expected NoGeneration, got %d", gen)
	}
	c.SetAvailable(ctx, doctorID, gen, []byte(`[]`))
	c.Invalidate(ctx, doctorID)
}

func TestNewRedisClientEmptyAddr(t *testing.T) {
	client, err := NewRedisClient(utils.RedisConfig{})
	if err != nil || client != nil {
		t.Fatalf("empty address disables Redis, got %v, %v", client, err)
	}
}

func TestCacheKeys(t *testing.T) {
	id := uuid.MustParse("7f1c2d4e-0b7a-4c39-9e55-2f6a4d1b8c01")
	if got := availableKey(id); got != "slots:available:7f1c2d4e-0b7a-4c39-9e55-2f6a4d1b8c01" {
		t.Fatalf("unexpected key %s", got)
	}
	if got := generationKey(id); got != "slots:gen:7f1c2d4e-0b7a-4c39-9e55-2f6a4d1b8c01" {
		t.Fatalf("unexpected generation key %s", got)
	}
}

func TestParseGeneration(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		want    int64
		wantErr bool
	}{
		{"Missing", nil, 0, false},
		{"Counter", "7", 7, false},
		{"Garbage", "seven", 0, true},
		{"WrongType", int64(7), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGeneration(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
