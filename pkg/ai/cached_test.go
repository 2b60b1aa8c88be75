package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingGenerator struct {
	calls int
	reply string
	err   error
}

func (g *countingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func (g *countingGenerator) Name() string { return "fake/model" }

type mapStore struct {
	items   map[string]string
	ttls    map[string]time.Duration
	failGet bool
}

func newMapStore() *mapStore {
	return &mapStore{items: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *mapStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failGet {
		return "", false, errors.New("store down")
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *mapStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.items[key] = value
	s.ttls[key] = ttl
	return nil
}

func TestCachedGenerator_HitAfterMiss(t *testing.T) {
	gen := &countingGenerator{reply: `{"themes": []}`}
	store := newMapStore()
	cached := NewCachedGenerator(gen, store, time.Hour, nil)

	for i := 0; i < 3; i++ {
		got, err := cached.Generate(context.Background(), "prompt")
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if got != `{"themes": []}` {
			t.Fatalf("unexpected reply %q", got)
		}
	}
	if gen.calls != 1 {
		t.Fatalf("expected 1 backend call, got %d", gen.calls)
	}
	if ttl := store.ttls[CacheKey("fake/model", "prompt")]; ttl != time.Hour {
		t.Fatalf("expected ttl 1h, got %v", ttl)
	}
	if cached.Name() != "fake/model" {
		t.Fatalf("unexpected name %q", cached.Name())
	}
}

func TestCachedGenerator_ErrorsAreNotCached(t *testing.T) {
	gen := &countingGenerator{err: errors.New("boom")}
	store := newMapStore()
	cached := NewCachedGenerator(gen, store, time.Hour, nil)

	if _, err := cached.Generate(context.Background(), "p"); err == nil {
		t.Fatalf("expected error")
	}
	if len(store.items) != 0 {
		t.Fatalf("expected nothing cached, got %d entries", len(store.items))
	}
}

func TestCachedGenerator_RejectedRepliesAreNotCached(t *testing.T) {
	gen := &countingGenerator{reply: "désolé, je ne peux pas"}
	store := newMapStore()
	cached := NewCachedGenerator(gen, store, time.Hour, nil).WithReplyCheck(func(reply string) error {
		if reply == "" || reply[0] != '{' {
			return errors.New("no JSON object")
		}
		return nil
	})

	for i := 0; i < 2; i++ {
		got, err := cached.Generate(context.Background(), "p")
		if err != nil || got != gen.reply {
			t.Fatalf("expected the reply to be passed through, got %q err=%v", got, err)
		}
	}
	if gen.calls != 2 {
		t.Fatalf("expected every call to reach the backend, got %d", gen.calls)
	}
	if len(store.items) != 0 {
		t.Fatalf("expected nothing cached, got %d entries", len(store.items))
	}

	gen.reply = `{"themes": []}`
	cached.Generate(context.Background(), "p")
	cached.Generate(context.Background(), "p")
	if gen.calls != 3 {
		t.Fatalf("expected accepted reply to be served from cache, got %d calls", gen.calls)
	}
}

func TestCachedGenerator_StoreFailureFallsThrough(t *testing.T) {
	gen := &countingGenerator{reply: "ok"}
	store := newMapStore()
	store.failGet = true
	cached := NewCachedGenerator(gen, store, 0, nil)

	got, err := cached.Generate(context.Background(), "p")
	if err != nil || got != "ok" {
		t.Fatalf("expected backend reply, got %q err=%v", got, err)
	}
}

func TestCacheKey_DependsOnModelAndPrompt(t *testing.T) {
	a := CacheKey("m1", "p")
	if a != CacheKey("m1", "p") {
		t.Fatalf("expected stable key")
	}
	if a == CacheKey("m2", "p") || a == CacheKey("m1", "q") {
		t.Fatalf("expected distinct keys")
	}
}
