package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// Cache defines the interface for all cache backends.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RequestKey derives a stable cache key from a generation request. Requests
// that differ only in field order or zero values hash identically because
// the key is built from the canonical JSON encoding.
func RequestKey(req model.EmailRequest) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return "emailcraft:gen:" + hex.EncodeToString(sum[:])
}
