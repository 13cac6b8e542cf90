package pricing

import "errors"

var (
	ErrInvalidDateRange   = errors.New("pricing: check-out must be after check-in")
	ErrInvalidGuestCount  = errors.New("pricing: number of guests must be at least 1")
	ErrGuestCountExceeded = errors.New("pricing: number of guests exceeds the site maximum")
	ErrNoApplicableRule   = errors.New("pricing: no pricing rule applies")
	ErrRuleConfiguration  = errors.New("pricing: invalid rule configuration")
)
