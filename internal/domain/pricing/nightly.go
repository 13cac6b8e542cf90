package pricing

import (
	"fmt"
	"time"

	"campstation/internal/domain/shared/money"
)

// NightlyCharge is the price of one night and the rule that produced it.
type NightlyCharge struct {
	Date        time.Time
	DailyRate   money.Money
	RuleID      int64
	PricingName string
	Weekend     bool
}

// IsWeekend reports Saturday and Sunday nights.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NightlyRate prices the night of date under rule. The weekend price replaces
// the base price first, then the weekday multiplier scales the result.
func NightlyRate(rule Rule, date time.Time) (NightlyCharge, error) {
	weekend := IsWeekend(date)
	price := rule.BasePrice
	if weekend && rule.WeekendPrice != nil {
		price = *rule.WeekendPrice
	}
	if factor, ok := rule.Multipliers[date.Weekday()]; ok {
		scaled, err := price.MulRatio(factor)
		if err != nil {
			return NightlyCharge{}, fmt.Errorf("%w: rule %d %s multiplier: %v", ErrRuleConfiguration, rule.ID, date.Weekday(), err)
		}
		price = scaled
	}
	return NightlyCharge{
		Date:        date,
		DailyRate:   price,
		RuleID:      rule.ID,
		PricingName: rule.Name,
		Weekend:     weekend,
	}, nil
}
