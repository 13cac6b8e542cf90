package ginserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"campstation/internal/app/dto"
	pricingapp "campstation/internal/app/handlers/pricing"
	"campstation/internal/app/queries"
	domainpricing "campstation/internal/domain/pricing"
	"campstation/internal/domain/shared/daterange"
)

const defaultGuests = 2

// PricingHandler serves quotes to booking clients.
type PricingHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

type calculateRequest struct {
	SiteID         int64  `form:"siteId" binding:"required,gt=0"`
	CheckInDate    string `form:"checkInDate" binding:"required,isodate"`
	CheckOutDate   string `form:"checkOutDate" binding:"required,isodate"`
	NumberOfGuests *int   `form:"numberOfGuests"`
}

func (h PricingHandler) Calculate(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing unavailable"})
		return
	}
	var req calculateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if malformedDate(err) {
			respondWithError(c, h.Logger, fmt.Errorf("%w: %v", domainpricing.ErrInvalidDateRange, err))
			return
		}
		respondBadRequest(c, err)
		return
	}
	checkIn, err := daterange.ParseDay(req.CheckInDate)
	if err != nil {
		respondWithError(c, h.Logger, fmt.Errorf("%w: %v", domainpricing.ErrInvalidDateRange, err))
		return
	}
	checkOut, err := daterange.ParseDay(req.CheckOutDate)
	if err != nil {
		respondWithError(c, h.Logger, fmt.Errorf("%w: %v", domainpricing.ErrInvalidDateRange, err))
		return
	}
	guests := defaultGuests
	if req.NumberOfGuests != nil {
		guests = *req.NumberOfGuests
	}
	query := pricingapp.CalculatePriceQuery{
		SiteID:   req.SiteID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   guests,
	}
	result, err := queries.Ask[pricingapp.CalculatePriceQuery, *dto.PriceBreakdown](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, err, "site_id", req.SiteID)
		return
	}
	c.JSON(http.StatusOK, result)
}

// malformedDate reports whether binding failed only because a date was not YYYY-MM-DD.
func malformedDate(err error) bool {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return false
	}
	for _, fe := range fields {
		if fe.Tag() != "isodate" {
			return false
		}
	}
	return len(fields) > 0
}

var _ PricingHTTP = PricingHandler{}
