package dto

import (
	"fmt"
	"strings"
	"time"

	domainpricing "campstation/internal/domain/pricing"
	"campstation/internal/domain/shared/money"
)

// SiteRule is the flat representation of a pricing rule used by the owner
// dashboard and by rule snapshot files.
type SiteRule struct {
	ID                       int64              `json:"id" bson:"_id"`
	SiteID                   int64              `json:"siteId" bson:"site_id"`
	PricingName              string             `json:"pricingName" bson:"pricing_name"`
	Description              string             `json:"description,omitempty" bson:"description,omitempty"`
	RuleType                 string             `json:"ruleType" bson:"rule_type"`
	SeasonType               string             `json:"seasonType,omitempty" bson:"season_type,omitempty"`
	StartMonth               *int               `json:"startMonth,omitempty" bson:"start_month,omitempty"`
	StartDay                 *int               `json:"startDay,omitempty" bson:"start_day,omitempty"`
	EndMonth                 *int               `json:"endMonth,omitempty" bson:"end_month,omitempty"`
	EndDay                   *int               `json:"endDay,omitempty" bson:"end_day,omitempty"`
	BasePrice                int64              `json:"basePrice" bson:"base_price"`
	WeekendPrice             *int64             `json:"weekendPrice,omitempty" bson:"weekend_price,omitempty"`
	DayMultipliers           map[string]float64 `json:"dayMultipliers,omitempty" bson:"day_multipliers,omitempty"`
	BaseGuests               *int               `json:"baseGuests,omitempty" bson:"base_guests,omitempty"`
	MaxGuests                *int               `json:"maxGuests,omitempty" bson:"max_guests,omitempty"`
	ExtraGuestFee            *int64             `json:"extraGuestFee,omitempty" bson:"extra_guest_fee,omitempty"`
	LongStayDiscountRate     *float64           `json:"longStayDiscountRate,omitempty" bson:"long_stay_discount_rate,omitempty"`
	LongStayMinNights        *int               `json:"longStayMinNights,omitempty" bson:"long_stay_min_nights,omitempty"`
	ExtendedStayDiscountRate *float64           `json:"extendedStayDiscountRate,omitempty" bson:"extended_stay_discount_rate,omitempty"`
	ExtendedStayMinNights    *int               `json:"extendedStayMinNights,omitempty" bson:"extended_stay_min_nights,omitempty"`
	EarlyBirdDiscountRate    *float64           `json:"earlyBirdDiscountRate,omitempty" bson:"early_bird_discount_rate,omitempty"`
	EarlyBirdMinDays         *int               `json:"earlyBirdMinDays,omitempty" bson:"early_bird_min_days,omitempty"`
	Priority                 *int               `json:"priority,omitempty" bson:"priority,omitempty"`
	IsActive                 *bool              `json:"isActive,omitempty" bson:"is_active,omitempty"`
}

// SiteRuleCollection lists the rules of one site in selection precedence order.
type SiteRuleCollection struct {
	SiteID int64      `json:"siteId"`
	Items  []SiteRule `json:"items"`
}

// Defaults applied when a stored rule omits them.
const (
	DefaultBaseGuests        = 2
	DefaultMaxGuests         = 4
	DefaultLongStayMinNights = 3
	DefaultExtendedMinNights = 7
	DefaultEarlyBirdMinDays  = 30
)

// ToDomain converts the flat record into a rule, filling defaults for omitted
// occupancy, thresholds, priority and the active flag.
func (r SiteRule) ToDomain() (domainpricing.Rule, error) {
	ruleType := domainpricing.RuleType(strings.ToUpper(strings.TrimSpace(r.RuleType)))
	if ruleType == "" {
		ruleType = domainpricing.RuleTypeBase
	}
	if !ruleType.Valid() {
		return domainpricing.Rule{}, fmt.Errorf("%w: rule %d has unknown type %q", domainpricing.ErrRuleConfiguration, r.ID, r.RuleType)
	}
	if r.BasePrice <= 0 {
		return domainpricing.Rule{}, fmt.Errorf("%w: rule %d base price must be positive", domainpricing.ErrRuleConfiguration, r.ID)
	}
	if r.WeekendPrice != nil && *r.WeekendPrice <= 0 {
		return domainpricing.Rule{}, fmt.Errorf("%w: rule %d weekend price must be positive", domainpricing.ErrRuleConfiguration, r.ID)
	}
	if r.ExtraGuestFee != nil && *r.ExtraGuestFee < 0 {
		return domainpricing.Rule{}, fmt.Errorf("%w: rule %d extra guest fee is negative", domainpricing.ErrRuleConfiguration, r.ID)
	}
	baseGuests := intOr(r.BaseGuests, DefaultBaseGuests)
	maxGuests := intOr(r.MaxGuests, DefaultMaxGuests)
	if baseGuests < 0 || maxGuests < 1 || baseGuests > maxGuests {
		return domainpricing.Rule{}, fmt.Errorf("%w: rule %d occupancy %d/%d is inconsistent", domainpricing.ErrRuleConfiguration, r.ID, baseGuests, maxGuests)
	}
	multipliers, err := domainpricing.ParseDayMultipliers(r.DayMultipliers)
	if err != nil {
		return domainpricing.Rule{}, fmt.Errorf("rule %d: %w", r.ID, err)
	}
	rule := domainpricing.Rule{
		ID:          r.ID,
		SiteID:      r.SiteID,
		Name:        r.PricingName,
		Description: r.Description,
		Type:        ruleType,
		Season:      domainpricing.SeasonType(strings.ToUpper(r.SeasonType)),
		BasePrice:   money.Won(r.BasePrice),
		Multipliers: multipliers,
		BaseGuests:  baseGuests,
		MaxGuests:   maxGuests,
		Priority:    intOr(r.Priority, domainpricing.DefaultPriority(ruleType)),
		Active:      r.IsActive == nil || *r.IsActive,
	}
	if r.StartMonth != nil && r.StartDay != nil && r.EndMonth != nil && r.EndDay != nil {
		rule.Window = &domainpricing.DateWindow{
			Start: domainpricing.MonthDay{Month: time.Month(*r.StartMonth), Day: *r.StartDay},
			End:   domainpricing.MonthDay{Month: time.Month(*r.EndMonth), Day: *r.EndDay},
		}
	}
	if r.WeekendPrice != nil {
		weekend := money.Won(*r.WeekendPrice)
		rule.WeekendPrice = &weekend
	}
	if r.ExtraGuestFee != nil {
		rule.ExtraGuestFee = money.Won(*r.ExtraGuestFee)
	}
	rule.LongStay = policy(r.LongStayDiscountRate, r.LongStayMinNights, DefaultLongStayMinNights)
	rule.ExtendedStay = policy(r.ExtendedStayDiscountRate, r.ExtendedStayMinNights, DefaultExtendedMinNights)
	rule.EarlyBird = policy(r.EarlyBirdDiscountRate, r.EarlyBirdMinDays, DefaultEarlyBirdMinDays)
	return rule, nil
}

// MapSiteRule renders a rule in the flat owner-facing shape.
func MapSiteRule(rule domainpricing.Rule) SiteRule {
	active := rule.Active
	priority := rule.Priority
	baseGuests := rule.BaseGuests
	maxGuests := rule.MaxGuests
	out := SiteRule{
		ID:             rule.ID,
		SiteID:         rule.SiteID,
		PricingName:    rule.Name,
		Description:    rule.Description,
		RuleType:       string(rule.Type),
		SeasonType:     string(rule.Season),
		BasePrice:      rule.BasePrice.Amount,
		DayMultipliers: rule.Multipliers.Names(),
		BaseGuests:     &baseGuests,
		MaxGuests:      &maxGuests,
		Priority:       &priority,
		IsActive:       &active,
	}
	if rule.Window != nil {
		startMonth, startDay := int(rule.Window.Start.Month), rule.Window.Start.Day
		endMonth, endDay := int(rule.Window.End.Month), rule.Window.End.Day
		out.StartMonth, out.StartDay = &startMonth, &startDay
		out.EndMonth, out.EndDay = &endMonth, &endDay
	}
	if rule.WeekendPrice != nil {
		weekend := rule.WeekendPrice.Amount
		out.WeekendPrice = &weekend
	}
	if !rule.ExtraGuestFee.IsZero() {
		fee := rule.ExtraGuestFee.Amount
		out.ExtraGuestFee = &fee
	}
	out.LongStayDiscountRate, out.LongStayMinNights = flatten(rule.LongStay)
	out.ExtendedStayDiscountRate, out.ExtendedStayMinNights = flatten(rule.ExtendedStay)
	out.EarlyBirdDiscountRate, out.EarlyBirdMinDays = flatten(rule.EarlyBird)
	return out
}

// MapSiteRules keeps the order of rules.
func MapSiteRules(siteID int64, rules []domainpricing.Rule) SiteRuleCollection {
	out := SiteRuleCollection{SiteID: siteID, Items: make([]SiteRule, 0, len(rules))}
	for _, rule := range rules {
		out.Items = append(out.Items, MapSiteRule(rule))
	}
	return out
}

func policy(rate *float64, threshold *int, defaultThreshold int) *domainpricing.DiscountPolicy {
	if rate == nil || *rate <= 0 {
		return nil
	}
	return &domainpricing.DiscountPolicy{RatePercent: *rate, Threshold: intOr(threshold, defaultThreshold)}
}

func flatten(p *domainpricing.DiscountPolicy) (*float64, *int) {
	if p == nil {
		return nil, nil
	}
	rate, threshold := p.RatePercent, p.Threshold
	return &rate, &threshold
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
