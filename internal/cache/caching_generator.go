package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/07fahim/EmailCraft-AI/internal/genclient"
	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// CachingGenerator wraps a Generator with a response cache. Identical
// requests inside the TTL window are served from cache without touching the
// generation service, notably batches that repeat a row.
type CachingGenerator struct {
	next  genclient.Generator
	cache Cache
	ttl   time.Duration
}

// NewCachingGenerator wraps next with c. A zero ttl defaults to one hour.
func NewCachingGenerator(next genclient.Generator, c Cache, ttl time.Duration) *CachingGenerator {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &CachingGenerator{next: next, cache: c, ttl: ttl}
}

func (g *CachingGenerator) Generate(ctx context.Context, req model.EmailRequest) (*model.GeneratedEmail, error) {
	key := RequestKey(req)

	if data, err := g.cache.Get(ctx, key); err != nil {
		log.Printf("warn: cache get: %v", err)
	} else if data != nil {
		var cached model.GeneratedEmail
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		// Unreadable entry: drop it and regenerate.
		_ = g.cache.Delete(ctx, key)
	}

	result, err := g.next.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := g.cache.Set(ctx, key, data, g.ttl); err != nil {
			log.Printf("warn: cache set: %v", err)
		}
	}
	return result, nil
}
