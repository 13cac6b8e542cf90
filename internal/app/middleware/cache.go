package middleware

import (
	"context"
	"log/slog"
	"time"

	"campstation/internal/app/policies"
	"campstation/internal/app/queries"
)

// CacheableQuery is implemented by queries whose result may be reused.
// asOf is the current calendar day; keys must include it whenever the
// result depends on the day the query is asked. CacheSiteID names the site
// whose invalidations evict the entry.
type CacheableQuery interface {
	queries.Query
	CacheKey(asOf time.Time) string
	CacheSiteID() int64
	ResultPrototype() any
}

type QueryCacheOptions struct {
	Store  policies.QuoteCache
	Codec  ResultCodec
	Clock  policies.Clock
	TTL    time.Duration
	Logger *slog.Logger
}

// QueryCache answers cacheable queries from Store. Cache failures never fail
// the query; they are logged and the query runs uncached.
func QueryCache(opts QueryCacheOptions) QueryMiddleware {
	if opts.Store == nil {
		panic("middleware: cache store required")
	}
	if opts.Codec == nil {
		opts.Codec = JSONResultCodec{}
	}
	if opts.Clock == nil {
		opts.Clock = policies.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			cq, ok := q.(CacheableQuery)
			if !ok {
				return next.Ask(ctx, q)
			}
			key := cq.CacheKey(policies.Today(opts.Clock))
			if key == "" {
				return next.Ask(ctx, q)
			}
			payload, found, err := opts.Store.Get(ctx, key)
			switch {
			case err != nil:
				opts.Logger.WarnContext(ctx, "quote cache read failed", "key", key, "error", err)
			case found:
				proto := cq.ResultPrototype()
				decErr := opts.Codec.Decode(payload, proto)
				if decErr == nil {
					return normalizePrototype(proto), nil
				}
				opts.Logger.WarnContext(ctx, "quote cache entry unreadable", "key", key, "error", decErr)
			}
			siteID := cq.CacheSiteID()
			generation, genErr := opts.Store.Generation(ctx, siteID)
			if genErr != nil {
				opts.Logger.WarnContext(ctx, "quote cache generation read failed", "site_id", siteID, "error", genErr)
			}
			res, err := next.Ask(ctx, q)
			if err != nil {
				return nil, err
			}
			if genErr != nil {
				return res, nil
			}
			encoded, err := opts.Codec.Encode(res)
			if err != nil {
				opts.Logger.WarnContext(ctx, "quote cache encode failed", "key", key, "error", err)
				return res, nil
			}
			written, err := opts.Store.Set(ctx, siteID, generation, key, encoded, opts.TTL)
			switch {
			case err != nil:
				opts.Logger.WarnContext(ctx, "quote cache write failed", "key", key, "error", err)
			case !written:
				opts.Logger.DebugContext(ctx, "quote cache write dropped after invalidation", "key", key, "site_id", siteID)
			}
			return res, nil
		})
	}
}
