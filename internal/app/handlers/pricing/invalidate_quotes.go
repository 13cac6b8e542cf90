package pricing

import (
	"context"
	"errors"
	"log/slog"

	"campstation/internal/app/commands"
	"campstation/internal/app/policies"
)

const invalidateSiteQuotesKey = "pricing.invalidate_site_quotes"

var ErrQuoteCacheUnavailable = errors.New("pricing: quote cache unavailable")

// InvalidateSiteQuotesCommand drops cached quotes after a site's rules changed.
// EventID deduplicates redelivered change notifications.
type InvalidateSiteQuotesCommand struct {
	EventID string
	SiteID  int64
}

func (c InvalidateSiteQuotesCommand) Key() string            { return invalidateSiteQuotesKey }
func (c InvalidateSiteQuotesCommand) IdempotencyKey() string { return c.EventID }
func (c InvalidateSiteQuotesCommand) ResultPrototype() any   { return &InvalidateSiteQuotesResult{} }

type InvalidateSiteQuotesResult struct {
	SiteID  int64 `json:"siteId"`
	Removed int   `json:"removed"`
}

type InvalidateSiteQuotesHandler struct {
	Cache  policies.QuoteCache
	Logger *slog.Logger
}

func (h *InvalidateSiteQuotesHandler) Handle(ctx context.Context, cmd InvalidateSiteQuotesCommand) (*InvalidateSiteQuotesResult, error) {
	if h.Cache == nil {
		return nil, ErrQuoteCacheUnavailable
	}
	removed, err := h.Cache.InvalidateSite(ctx, cmd.SiteID)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "site quotes invalidated", "site_id", cmd.SiteID, "removed", removed, "event_id", cmd.EventID)
	}
	return &InvalidateSiteQuotesResult{SiteID: cmd.SiteID, Removed: removed}, nil
}

var _ commands.Handler[InvalidateSiteQuotesCommand, *InvalidateSiteQuotesResult] = (*InvalidateSiteQuotesHandler)(nil)
