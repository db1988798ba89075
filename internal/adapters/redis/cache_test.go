package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "tripscout/internal/adapters/redis"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	v, ok, err := c.Get(ctx, "placereviews:louvre|paris")
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "placereviews:louvre|paris", "rendered summary", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err = c.Get(ctx, "placereviews:louvre|paris")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if v != "rendered summary" {
		t.Fatalf("unexpected cached value: %q", v)
	}

	// Entries expire; there is no explicit invalidation.
	if mr.TTL("placereviews:louvre|paris") <= 0 {
		t.Fatalf("expected a TTL on the cached key")
	}
	mr.FastForward(2 * time.Minute)
	if _, ok, _ = c.Get(ctx, "placereviews:louvre|paris"); ok {
		t.Fatalf("expected miss after TTL expiry")
	}
}
