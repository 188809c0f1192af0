package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// CacheStatusHeader reports whether a response came from the cache
const CacheStatusHeader = "X-Cache"

// cachedWriter tees the response body so it can be stored after the handler runs
type cachedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachedWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *cachedWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves GET responses from responseCache, keyed by the request
// URI. Only 200 JSON responses are stored. Store errors never fail the request.
// A nil cache disables the middleware.
func ResponseCache(responseCache cache.ResponseCache, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if responseCache == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := c.Request.URL.RequestURI()
		if body, ok, err := responseCache.Get(ctx, key); err != nil {
			log.Warn("Response cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			c.Header(CacheStatusHeader, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		c.Header(CacheStatusHeader, "MISS")
		w := &cachedWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() != http.StatusOK || w.body.Len() == 0 {
			return
		}
		if err := responseCache.Set(ctx, key, w.body.Bytes(), ttl); err != nil {
			log.Warn("Response cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}
