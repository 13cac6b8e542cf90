package pricing

import (
	"context"

	"campstation/internal/app/dto"
	"campstation/internal/app/handlers/support"
	"campstation/internal/app/queries"
	"campstation/internal/app/uow"
	domainpricing "campstation/internal/domain/pricing"
)

const listSiteRulesKey = "pricing.list_site_rules"

// ListSiteRulesQuery returns every rule of a site, inactive ones included.
type ListSiteRulesQuery struct {
	SiteID int64 `validate:"gt=0"`
}

func (q ListSiteRulesQuery) Key() string { return listSiteRulesKey }

type ListSiteRulesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListSiteRulesHandler) Handle(ctx context.Context, q ListSiteRulesQuery) (dto.SiteRuleCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.SiteRuleCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	rules, err := unit.Rules().BySite(execCtx, q.SiteID)
	if err != nil {
		return dto.SiteRuleCollection{}, err
	}
	domainpricing.SortByPrecedence(rules)
	return dto.MapSiteRules(q.SiteID, rules), nil
}

var _ queries.Handler[ListSiteRulesQuery, dto.SiteRuleCollection] = (*ListSiteRulesHandler)(nil)
