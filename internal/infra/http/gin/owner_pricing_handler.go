package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campstation/internal/app/commands"
	"campstation/internal/app/dto"
	pricingapp "campstation/internal/app/handlers/pricing"
	"campstation/internal/app/queries"
)

// OwnerPricingHandler exposes a site's rules to the owner dashboard.
type OwnerPricingHandler struct {
	Queries  queries.Bus
	Commands commands.Bus
	Logger   *slog.Logger
}

func (h OwnerPricingHandler) List(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing unavailable"})
		return
	}
	siteID, ok := siteIDParam(c)
	if !ok {
		return
	}
	result, err := queries.Ask[pricingapp.ListSiteRulesQuery, dto.SiteRuleCollection](c.Request.Context(), h.Queries, pricingapp.ListSiteRulesQuery{SiteID: siteID})
	if err != nil {
		respondWithError(c, h.Logger, err, "site_id", siteID)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Invalidate drops cached quotes of the site, e.g. right after editing rules.
func (h OwnerPricingHandler) Invalidate(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	siteID, ok := siteIDParam(c)
	if !ok {
		return
	}
	key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if key == "" {
		key = uuid.NewString()
	}
	cmd := pricingapp.InvalidateSiteQuotesCommand{EventID: key, SiteID: siteID}
	result, err := commands.Dispatch[pricingapp.InvalidateSiteQuotesCommand, *pricingapp.InvalidateSiteQuotesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondWithError(c, h.Logger, err, "site_id", siteID)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

func siteIDParam(c *gin.Context) (int64, bool) {
	siteID, err := strconv.ParseInt(c.Param("siteId"), 10, 64)
	if err != nil || siteID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "siteId must be a positive integer", "code": "INVALID_REQUEST"})
		return 0, false
	}
	return siteID, true
}

var _ OwnerPricingHTTP = OwnerPricingHandler{}
