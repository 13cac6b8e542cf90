package middleware

import (
	"context"
	"log/slog"
	"time"

	"campstation/internal/app/queries"
)

// QueryLogging records every query with its duration and outcome.
func QueryLogging(logger *slog.Logger) QueryMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			if err != nil {
				logger.WarnContext(ctx, "query failed", "query", q.Key(), "duration", time.Since(start), "error", err)
				return nil, err
			}
			logger.DebugContext(ctx, "query served", "query", q.Key(), "duration", time.Since(start))
			return res, nil
		})
	}
}
