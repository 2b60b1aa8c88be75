package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
)

// ReplyStore persists generated replies keyed by prompt hash
type ReplyStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedGenerator serves repeated prompts from a ReplyStore.
// Store failures are logged and never fail a generation.
type CachedGenerator struct {
	next   Generator
	store  ReplyStore
	ttl    time.Duration
	check  func(reply string) error // replies it rejects are returned but not stored
	logger *zap.Logger
}

// NewCachedGenerator wraps next with a reply cache
func NewCachedGenerator(next Generator, store ReplyStore, ttl time.Duration, logger *zap.Logger) *CachedGenerator {
	return &CachedGenerator{next: next, store: store, ttl: ttl, logger: logger}
}

// WithReplyCheck only caches replies for which check returns nil
func (c *CachedGenerator) WithReplyCheck(check func(reply string) error) *CachedGenerator {
	c.check = check
	return c
}

// Name implements Generator
func (c *CachedGenerator) Name() string {
	return c.next.Name()
}

// CacheKey derives the store key for a model and prompt
func CacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "segmenter:reply:" + hex.EncodeToString(sum[:])
}

// Generate implements Generator
func (c *CachedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	key := CacheKey(c.next.Name(), prompt)

	if cached, ok, err := c.store.Get(ctx, key); err != nil {
		if c.logger != nil {
			c.logger.Warn("reply cache read failed", zap.Error(err))
		}
	} else if ok {
		if c.logger != nil {
			c.logger.Debug("reply cache hit", zap.String("key", key))
		}
		return cached, nil
	}

	reply, err := c.next.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if c.check != nil {
		if err := c.check(reply); err != nil {
			if c.logger != nil {
				c.logger.Debug("reply not cached", zap.String("key", key), zap.Error(err))
			}
			return reply, nil
		}
	}

	if err := c.store.Set(ctx, key, reply, c.ttl); err != nil && c.logger != nil {
		c.logger.Warn("reply cache write failed", zap.Error(err))
	}
	return reply, nil
}

// EnsureModel forwards to the wrapped generator when it manages models
func (c *CachedGenerator) EnsureModel(ctx context.Context) error {
	if mc, ok := c.next.(ModelChecker); ok {
		return mc.EnsureModel(ctx)
	}
	return nil
}
