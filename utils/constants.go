// File: utils/constants.go
package utils

import "time"

// Redis key prefixes shared by the caches.
const (
	StatsCacheKey      = "stats:latest"
	RankingCachePrefix = "ranking:top:"
)

// DefaultRequestTimeout bounds a single handler's backend work.
const DefaultRequestTimeout = 15 * time.Second
