package cache

import (
	"context"
	"fmt"
	"time"

	"sideeffect/internal/middleware"
)

const (
	FreeBoardRankPrefix = "free-boards:rank:"
	FreeBoardRankTTL    = time.Minute
)

func FreeBoardRankKey(size int) string {
	return fmt.Sprintf("%s%d", FreeBoardRankPrefix, size)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePrefix deletes every key starting with prefix.
func InvalidatePrefix(ctx context.Context, prefix string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache scan failed", "prefix", prefix, "error", err)
		return
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateFreeBoardRank drops every cached rank page.
func InvalidateFreeBoardRank(ctx context.Context) {
	InvalidatePrefix(ctx, FreeBoardRankPrefix)
}
