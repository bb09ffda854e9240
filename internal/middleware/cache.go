package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/service"
)

const cacheKeyPrefix = "timetable:"

// CacheStore is the subset of the Redis client the cache middleware
// needs. *redis.Client satisfies it.
type CacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type cachedResponse struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type cachedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachedWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Cache serves GET responses from Redis, keyed by request path plus
// query string. The key carries no caller identity, so this middleware
// must only guard views that are identical for every caller allowed
// onto the route; per-actor views such as a single faculty or student
// week stay uncached. Writes go through untouched and invalidate via
// InvalidateTimetableCache.
func Cache(store CacheStore, ttl time.Duration, metrics *service.MetricsService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKeyPrefix + c.Request.URL.RequestURI()
		start := time.Now()
		raw, err := store.Get(c.Request.Context(), key).Bytes()
		if err == nil {
			var cached cachedResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				metrics.RecordCacheOperation(true, time.Since(start))
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
			logger.Warn("discarding malformed cache entry", zap.String("key", key))
		} else if err != redis.Nil {
			logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		metrics.RecordCacheOperation(false, time.Since(start))

		writer := &cachedWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")
		c.Next()

		if c.Writer.Status() == http.StatusOK && writer.body.Len() > 0 {
			entry, err := json.Marshal(cachedResponse{
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
			})
			if err != nil {
				return
			}
			if err := store.Set(c.Request.Context(), key, entry, ttl).Err(); err != nil {
				logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

// InvalidateTimetableCache drops every cached timetable view. Called
// after any assignment write, since a single booking can change the
// room grid, two faculty weeks and several program weeks at once.
func InvalidateTimetableCache(ctx context.Context, client *redis.Client, logger *zap.Logger) {
	if client == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	iter := client.Scan(ctx, 0, cacheKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn("cache invalidation scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("cache invalidation failed", zap.Error(err))
	}
}
