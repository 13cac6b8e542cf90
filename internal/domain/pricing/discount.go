package pricing

import (
	"fmt"
	"time"

	"campstation/internal/domain/shared/daterange"
	"campstation/internal/domain/shared/money"
)

type DiscountType string

const (
	DiscountLongStay     DiscountType = "LONG_STAY"
	DiscountExtendedStay DiscountType = "EXTENDED_STAY"
	DiscountEarlyBird    DiscountType = "EARLY_BIRD"
)

// AppliedDiscount is one discount line of a breakdown.
type AppliedDiscount struct {
	Type        DiscountType
	RatePercent float64
	Amount      money.Money
	Description string
}

// DiscountResult holds the discount lines and their capped total.
type DiscountResult struct {
	Discounts []AppliedDiscount
	Total     money.Money
}

type discountKind struct {
	kind     DiscountType
	policy   func(Rule) *DiscountPolicy
	eligible func(p DiscountPolicy, stay Stay, daysAhead int) bool
	describe func(p DiscountPolicy) string
}

var discountKinds = []discountKind{
	{
		kind:   DiscountLongStay,
		policy: func(r Rule) *DiscountPolicy { return r.LongStay },
		eligible: func(p DiscountPolicy, stay Stay, _ int) bool {
			return stay.Range.Nights() >= p.Threshold
		},
		describe: func(p DiscountPolicy) string { return fmt.Sprintf("장기 숙박 할인 (%d박 이상)", p.Threshold) },
	},
	{
		kind:   DiscountExtendedStay,
		policy: func(r Rule) *DiscountPolicy { return r.ExtendedStay },
		eligible: func(p DiscountPolicy, stay Stay, _ int) bool {
			return stay.Range.Nights() >= p.Threshold
		},
		describe: func(p DiscountPolicy) string { return fmt.Sprintf("연박 할인 (%d박 이상)", p.Threshold) },
	},
	{
		kind:   DiscountEarlyBird,
		policy: func(r Rule) *DiscountPolicy { return r.EarlyBird },
		eligible: func(p DiscountPolicy, _ Stay, daysAhead int) bool {
			return daysAhead >= p.Threshold
		},
		describe: func(p DiscountPolicy) string { return fmt.Sprintf("조기 예약 할인 (%d일 전)", p.Threshold) },
	},
}

// ApplyDiscounts evaluates every discount policy of the rules selected for the
// stay. Each discount type contributes at most one line, using the highest
// eligible rate. Discounts stack and their total never exceeds
// subtotal + extraGuestFee. today is the booking day used for early-bird lead time.
func ApplyDiscounts(stay Stay, subtotal, extraGuestFee money.Money, selected []Rule, today time.Time) (DiscountResult, error) {
	daysAhead := daterange.DaysBetween(today, stay.Range.CheckIn)
	result := DiscountResult{Total: money.Money{Amount: 0, Currency: subtotal.Currency}}
	for _, dk := range discountKinds {
		best, ok := bestPolicy(dk, selected, stay, daysAhead)
		if !ok {
			continue
		}
		amount, err := subtotal.Percent(best.RatePercent)
		if err != nil {
			return DiscountResult{}, fmt.Errorf("%w: %s rate %v: %v", ErrRuleConfiguration, dk.kind, best.RatePercent, err)
		}
		result.Discounts = append(result.Discounts, AppliedDiscount{
			Type:        dk.kind,
			RatePercent: best.RatePercent,
			Amount:      amount,
			Description: dk.describe(best),
		})
		if result.Total, err = result.Total.Add(amount); err != nil {
			return DiscountResult{}, err
		}
	}
	ceiling, err := subtotal.Add(extraGuestFee)
	if err != nil {
		return DiscountResult{}, err
	}
	if result.Total, err = result.Total.Min(ceiling); err != nil {
		return DiscountResult{}, err
	}
	return result, nil
}

func bestPolicy(dk discountKind, selected []Rule, stay Stay, daysAhead int) (DiscountPolicy, bool) {
	var (
		best  DiscountPolicy
		found bool
	)
	for _, rule := range selected {
		p := dk.policy(rule)
		if p == nil || p.RatePercent <= 0 {
			continue
		}
		if !dk.eligible(*p, stay, daysAhead) {
			continue
		}
		if !found || p.RatePercent > best.RatePercent {
			best = *p
			found = true
		}
	}
	return best, found
}
