package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "trip_planner/internal/adapters/redis"
	"trip_planner/internal/domain"
)

func newStore(t *testing.T, opts ...redisad.Option) (*redisad.DraftStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), opts...), mr
}

func TestDraftStore_SaveLoadDelete(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	if _, found, err := s.Load(ctx, "nope"); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	d := domain.Draft{
		Travelers:   []domain.Traveler{{Name: "Ana", Age: "30", Interests: []string{"arte"}}},
		Destination: "Lisbon",
		Budget:      "5000",
	}
	if err := s.Save(ctx, "s1", d); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("planner:draft:s1") {
		t.Fatalf("expected key planner:draft:s1, have %v", mr.Keys())
	}

	got, found, err := s.Load(ctx, "s1")
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if got.Destination != "Lisbon" || got.Travelers[0].Name != "Ana" || got.Travelers[0].Interests[0] != "arte" {
		t.Fatalf("unexpected draft: %+v", got)
	}

	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := s.Load(ctx, "s1"); found {
		t.Fatalf("expected draft gone after delete")
	}
}

func TestDraftStore_TTLAndPrefix(t *testing.T) {
	s, mr := newStore(t, redisad.WithTTL(time.Minute), redisad.WithPrefix("test:"))
	if err := s.Save(context.Background(), "s2", domain.Draft{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL("test:s2"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if _, found, _ := s.Load(context.Background(), "s2"); found {
		t.Fatalf("expected draft expired")
	}
}

func TestDraftStore_CorruptValue(t *testing.T) {
	s, mr := newStore(t)
	_ = mr.Set("planner:draft:bad", "{not json")
	if _, _, err := s.Load(context.Background(), "bad"); err == nil {
		t.Fatalf("expected decode error")
	}
}
