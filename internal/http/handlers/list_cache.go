package handlers

import (
	"context"
	"time"

	"github.com/geocoder89/petmarket/internal/cache"
	"github.com/geocoder89/petmarket/internal/observability"
	"github.com/gin-gonic/gin"
)

// ListCache holds encoded GET /pets pages. Any pet or category write clears it
// whole; per-filter invalidation would need to know which pages a row lands on.
// A nil *ListCache disables caching.
type ListCache struct {
	store cache.Store
	prom  *observability.Prom
}

func NewListCache(store cache.Store, prom *observability.Prom) *ListCache {
	if store == nil {
		return nil
	}
	return &ListCache{store: store, prom: prom}
}

func (l *ListCache) get(ctx context.Context, key string) ([]byte, bool) {
	if l == nil {
		return nil, false
	}

	b, ok := l.store.Get(ctx, key)
	l.prom.CacheResult(ok)
	return b, ok
}

func (l *ListCache) set(ctx context.Context, key string, body []byte) {
	if l == nil {
		return
	}
	l.store.Set(ctx, key, body)
}

func (l *ListCache) invalidate(ctx *gin.Context) {
	if l == nil {
		return
	}

	// the write already committed; finish the clear even if the client left
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx.Request.Context()), 2*time.Second)
	defer cancel()

	l.store.Clear(cctx)
}
