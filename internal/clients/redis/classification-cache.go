package redis_client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"

	"github.com/redis/go-redis/v9"
)

const classificationKeyPrefix = "lead-importer:classification:"

// ClassificationCache stores classifier answers in Redis so every replica
// shares them. Redis failures degrade to cache misses.
type ClassificationCache struct {
	rdb redis.Cmdable
	ttl time.Duration
	log *slog.Logger
}

var _ app.ClassificationCache = &ClassificationCache{}

func NewClassificationCache(rdb redis.Cmdable, ttl time.Duration, log *slog.Logger) *ClassificationCache {
	return &ClassificationCache{rdb: rdb, ttl: ttl, log: log}
}

func (this *ClassificationCache) Get(ctx context.Context, key string) (map[string]string, bool) {
	raw, err := this.rdb.Get(ctx, classificationKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			this.log.Warn("classification cache read failed", "error", err)
		}
		return nil, false
	}

	var value map[string]string
	if err := json.Unmarshal(raw, &value); err != nil {
		this.log.Warn("classification cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return value, true
}

func (this *ClassificationCache) Set(ctx context.Context, key string, value map[string]string) {
	if this.ttl <= 0 {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := this.rdb.Set(ctx, classificationKeyPrefix+key, raw, this.ttl).Err(); err != nil {
		this.log.Warn("classification cache write failed", "error", err)
	}
}
