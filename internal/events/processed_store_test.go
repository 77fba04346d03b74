package events

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisProcessedStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisProcessedStore(client, time.Minute)
	ctx := context.Background()

	ok, err := store.MarkProcessed(ctx, "instagram", "mid_1")
	if err != nil || !ok {
		t.Fatalf("expected first mark to succeed, got ok=%v err=%v", ok, err)
	}
	ok, err = store.MarkProcessed(ctx, "instagram", "mid_1")
	if err != nil || ok {
		t.Fatalf("expected duplicate mark to be rejected, got ok=%v err=%v", ok, err)
	}
	ok, err = store.MarkProcessed(ctx, "instagram", "mid_2")
	if err != nil || !ok {
		t.Fatalf("expected other id to succeed, got ok=%v err=%v", ok, err)
	}

	mr.FastForward(2 * time.Minute)
	ok, err = store.MarkProcessed(ctx, "instagram", "mid_1")
	if err != nil || !ok {
		t.Fatalf("expected expired id to be accepted again, got ok=%v err=%v", ok, err)
	}
}

func TestRedisProcessedStoreError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	if _, err := NewRedisProcessedStore(client, 0).MarkProcessed(context.Background(), "instagram", "m"); err == nil {
		t.Fatal("expected error when redis is down")
	}
}

func TestMemoryProcessedStore(t *testing.T) {
	store := NewMemoryProcessedStore(time.Minute)
	now := time.Unix(1700000000, 0)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if ok, _ := store.MarkProcessed(ctx, "instagram", "mid_1"); !ok {
		t.Fatal("expected first mark to succeed")
	}
	if ok, _ := store.MarkProcessed(ctx, "instagram", "mid_1"); ok {
		t.Fatal("expected duplicate to be rejected")
	}
	if ok, _ := store.MarkProcessed(ctx, "page", "mid_1"); !ok {
		t.Fatal("expected same id under another provider to succeed")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := store.MarkProcessed(ctx, "instagram", "mid_1"); !ok {
		t.Fatal("expected expired id to be accepted again")
	}
}
