package pricing

import (
	"fmt"

	"campstation/internal/domain/shared/money"
)

// CheckGuestLimit rejects parties larger than the rule allows.
func CheckGuestLimit(rule Rule, guests int) error {
	if guests > rule.MaxGuests {
		return fmt.Errorf("%w: %d guests, %q allows at most %d", ErrGuestCountExceeded, guests, rule.Name, rule.MaxGuests)
	}
	return nil
}

// ExtraGuestFee is the per-night fee for guests above the rule's base occupancy.
func ExtraGuestFee(rule Rule, guests int) (money.Money, error) {
	if err := CheckGuestLimit(rule, guests); err != nil {
		return money.Money{}, err
	}
	extra := guests - rule.BaseGuests
	if extra <= 0 || rule.ExtraGuestFee.IsZero() {
		return money.Money{Amount: 0, Currency: rule.BasePrice.Currency}, nil
	}
	return rule.ExtraGuestFee.Multiply(int64(extra)), nil
}
