package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"campstation/internal/app/dto"
	"campstation/internal/app/handlers/support"
	"campstation/internal/app/policies"
	"campstation/internal/app/queries"
	"campstation/internal/app/uow"
	domainpricing "campstation/internal/domain/pricing"
	"campstation/internal/domain/shared/daterange"
)

const calculatePriceKey = "pricing.calculate"

var tracer = otel.Tracer("campstation/internal/app/handlers/pricing")

// CalculatePriceQuery asks for the price of a stay at one site.
type CalculatePriceQuery struct {
	SiteID   int64     `validate:"gt=0"`
	CheckIn  time.Time `validate:"required"`
	CheckOut time.Time `validate:"required"`
	Guests   int
}

func (q CalculatePriceQuery) Key() string { return calculatePriceKey }

func (q CalculatePriceQuery) CacheSiteID() int64 { return q.SiteID }

// CacheKey includes the booking day because early-bird eligibility depends on it.
func (q CalculatePriceQuery) CacheKey(asOf time.Time) string {
	return fmt.Sprintf("%s%s:%s:%d:%s",
		policies.QuoteKeyPrefix(q.SiteID),
		q.CheckIn.Format(daterange.Layout),
		q.CheckOut.Format(daterange.Layout),
		q.Guests,
		asOf.Format(daterange.Layout),
	)
}

func (q CalculatePriceQuery) ResultPrototype() any { return &dto.PriceBreakdown{} }

// CalculatePriceHandler loads the site's active rules and prices the stay.
type CalculatePriceHandler struct {
	UoWFactory uow.UoWFactory
	Clock      policies.Clock
	Logger     *slog.Logger
}

func (h *CalculatePriceHandler) Handle(ctx context.Context, q CalculatePriceQuery) (*dto.PriceBreakdown, error) {
	ctx, span := tracer.Start(ctx, "pricing.calculate")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("site.id", q.SiteID),
		attribute.String("stay.check_in", q.CheckIn.Format(daterange.Layout)),
		attribute.String("stay.check_out", q.CheckOut.Format(daterange.Layout)),
		attribute.Int("stay.guests", q.Guests),
	)

	breakdown, err := h.calculate(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("quote.nights", breakdown.Nights),
		attribute.Int64("quote.total", breakdown.TotalAmount.Amount),
	)
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "stay priced",
			"site_id", q.SiteID,
			"nights", breakdown.Nights,
			"guests", breakdown.Guests,
			"total", breakdown.TotalAmount.Amount,
			"discounts", len(breakdown.Discounts),
		)
	}
	out := dto.MapPriceBreakdown(breakdown)
	return &out, nil
}

func (h *CalculatePriceHandler) calculate(ctx context.Context, q CalculatePriceQuery) (domainpricing.Breakdown, error) {
	stay, err := domainpricing.NewStay(q.SiteID, q.CheckIn, q.CheckOut, q.Guests)
	if err != nil {
		return domainpricing.Breakdown{}, err
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return domainpricing.Breakdown{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	rules, err := unit.Rules().ActiveBySite(execCtx, q.SiteID)
	if err != nil {
		return domainpricing.Breakdown{}, fmt.Errorf("load rules for site %d: %w", q.SiteID, err)
	}
	clock := h.Clock
	if clock == nil {
		clock = policies.SystemClock{}
	}
	return domainpricing.Calculate(stay, rules, policies.Today(clock))
}

var _ queries.Handler[CalculatePriceQuery, *dto.PriceBreakdown] = (*CalculatePriceHandler)(nil)
