package pricing

import (
	"time"

	"campstation/internal/domain/shared/money"
)

// Calculate prices a stay against a site's rules. It selects one rule per
// night, checks the party size against every selected rule before pricing
// anything, then rates each night, adds extra guest fees, applies discounts
// and aggregates the breakdown. It has no side effects; today is the booking
// day used for early-bird eligibility.
func Calculate(stay Stay, rules []Rule, today time.Time) (Breakdown, error) {
	if err := stay.Validate(); err != nil {
		return Breakdown{}, err
	}
	nights := stay.Range.EachNight()
	selected := make([]Rule, len(nights))
	for i, night := range nights {
		rule, err := SelectRule(rules, night)
		if err != nil {
			return Breakdown{}, err
		}
		selected[i] = rule
	}
	distinct := distinctRules(selected)
	for _, rule := range distinct {
		if err := CheckGuestLimit(rule, stay.Guests); err != nil {
			return Breakdown{}, err
		}
	}

	charges := make([]NightlyCharge, len(nights))
	fees := make([]money.Money, len(nights))
	for i, night := range nights {
		charge, err := NightlyRate(selected[i], night)
		if err != nil {
			return Breakdown{}, err
		}
		fee, err := ExtraGuestFee(selected[i], stay.Guests)
		if err != nil {
			return Breakdown{}, err
		}
		charges[i] = charge
		fees[i] = fee
	}

	currency := charges[0].DailyRate.Currency
	subtotal, err := sumRates(charges, currency)
	if err != nil {
		return Breakdown{}, err
	}
	extra, err := sumMoney(fees, currency)
	if err != nil {
		return Breakdown{}, err
	}
	discounts, err := ApplyDiscounts(stay, subtotal, extra, distinct, today)
	if err != nil {
		return Breakdown{}, err
	}
	return Aggregate(stay, charges, fees, discounts)
}

// distinctRules keeps the first occurrence of each rule id, in stay order.
func distinctRules(rules []Rule) []Rule {
	seen := make(map[int64]struct{}, len(rules))
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
