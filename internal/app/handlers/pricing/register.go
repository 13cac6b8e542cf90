package pricing

import (
	"campstation/internal/app/commands"
	"campstation/internal/app/dto"
	"campstation/internal/app/queries"
)

// RegisterQueries binds the pricing read handlers to bus.
func RegisterQueries(bus *queries.InMemoryBus, calculate *CalculatePriceHandler, list *ListSiteRulesHandler) {
	queries.RegisterHandler[CalculatePriceQuery, *dto.PriceBreakdown](bus, calculate)
	queries.RegisterHandler[ListSiteRulesQuery, dto.SiteRuleCollection](bus, list)
}

// RegisterCommands binds the pricing command handlers to bus.
func RegisterCommands(bus *commands.InMemoryBus, invalidate *InvalidateSiteQuotesHandler) {
	commands.RegisterHandler[InvalidateSiteQuotesCommand, *InvalidateSiteQuotesResult](bus, invalidate)
}
