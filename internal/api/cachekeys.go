package api

import (
	"context" // Context for Redis operations
	"net/url" // Unambiguous encoding of filter values
	"strconv" // Key formatting

	"storefront/internal/utils" // Cache helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// Cache key prefixes. Every key a handler writes starts with one of these.
const (
	catalogPrefix        = "catalog:"
	historyPrefix        = "history:user:"
	adminUsersPrefix     = "admin:users:"
	adminPurchasesPrefix = "admin:purchases:"
)

// catalogKey encodes the listing filters so distinct filter pairs never share a key
func catalogKey(filters url.Values) string {
	return catalogPrefix + filters.Encode()
}

// adminPurchasesKey is the cache key for one filtered page of the staff purchase listing
func adminPurchasesKey(filters url.Values) string {
	return adminPurchasesPrefix + filters.Encode()
}

func historyKey(userID uint) string {
	return historyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// invalidate drops every cached page under the given prefixes. Failures only log, the TTL bounds staleness.
func invalidate(ctx context.Context, rdb *redis.Client, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := utils.DeleteCachePrefix(ctx, rdb, prefix); err != nil {
			logrus.WithFields(logrus.Fields{"prefix": prefix, "error": err.Error()}).Warn("Cache invalidation failed")
		}
	}
}
