package policies

import (
	"context"
	"strconv"
	"time"
)

// QuoteCache stores encoded quotes. Keys for one site share QuoteKeyPrefix so
// that a rule change can drop all of them at once.
//
// Every InvalidateSite advances the site's generation. Set writes only while
// the site is still at the generation read before the quote was computed, so
// a quote priced from old rules cannot land after the invalidation.
type QuoteCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Generation(ctx context.Context, siteID int64) (int64, error)
	Set(ctx context.Context, siteID, generation int64, key string, payload []byte, ttl time.Duration) (bool, error)
	InvalidateSite(ctx context.Context, siteID int64) (int, error)
}

// QuoteKeyPrefix is the key prefix of every cached quote of a site.
func QuoteKeyPrefix(siteID int64) string {
	return "quote:" + strconv.FormatInt(siteID, 10) + ":"
}

// QuoteGenerationKey names the generation counter of a site. It never matches
// QuoteKeyPrefix, so prefix deletes leave it in place.
func QuoteGenerationKey(siteID int64) string {
	return "quote-gen:" + strconv.FormatInt(siteID, 10)
}
