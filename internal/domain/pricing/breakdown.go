package pricing

import (
	"fmt"
	"time"

	"campstation/internal/domain/shared/daterange"
	"campstation/internal/domain/shared/money"
)

// MaxNights bounds the length of a single quoted stay.
const MaxNights = 365

// Stay is a pricing request: one site, a range of nights and a party size.
type Stay struct {
	SiteID int64
	Range  daterange.DateRange
	Guests int
}

// NewStay validates and builds a stay.
func NewStay(siteID int64, checkIn, checkOut time.Time, guests int) (Stay, error) {
	stay := Stay{
		SiteID: siteID,
		Range:  daterange.DateRange{CheckIn: daterange.Day(checkIn), CheckOut: daterange.Day(checkOut)},
		Guests: guests,
	}
	if err := stay.Validate(); err != nil {
		return Stay{}, err
	}
	return stay, nil
}

func (s Stay) Validate() error {
	if err := s.Range.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	if n := s.Range.Nights(); n > MaxNights {
		return fmt.Errorf("%w: %d nights exceeds the %d night limit", ErrInvalidDateRange, n, MaxNights)
	}
	if s.Guests < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidGuestCount, s.Guests)
	}
	return nil
}

// Breakdown is the itemized price of a stay.
type Breakdown struct {
	SiteID         int64
	CheckIn        time.Time
	CheckOut       time.Time
	Nights         int
	Guests         int
	BasePrice      money.Money
	Subtotal       money.Money
	ExtraGuestFee  money.Money
	TotalDiscount  money.Money
	TotalSurcharge money.Money
	TotalAmount    money.Money
	Daily          []NightlyCharge
	Discounts      []AppliedDiscount
}

// Aggregate folds nightly charges, per-night extra guest fees and discounts
// into a breakdown. Weekend and weekday effects already live in each daily
// rate, so the surcharge total is always zero.
func Aggregate(stay Stay, nightly []NightlyCharge, extraFees []money.Money, discounts DiscountResult) (Breakdown, error) {
	if len(nightly) != stay.Range.Nights() {
		return Breakdown{}, fmt.Errorf("pricing: %d nightly charges for a %d night stay", len(nightly), stay.Range.Nights())
	}
	currency := money.KRW
	if len(nightly) > 0 {
		currency = nightly[0].DailyRate.Currency
	}
	base, err := sumRates(nightly, currency)
	if err != nil {
		return Breakdown{}, err
	}
	extra, err := sumMoney(extraFees, currency)
	if err != nil {
		return Breakdown{}, err
	}
	discount := discounts.Total
	if discount.Currency == "" {
		discount = money.Money{Amount: discount.Amount, Currency: currency}
	}
	surcharge := money.Money{Amount: 0, Currency: currency}

	total, err := base.Add(extra)
	if err != nil {
		return Breakdown{}, err
	}
	if total, err = total.Add(surcharge); err != nil {
		return Breakdown{}, err
	}
	if total, err = total.Sub(discount); err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		SiteID:         stay.SiteID,
		CheckIn:        stay.Range.CheckIn,
		CheckOut:       stay.Range.CheckOut,
		Nights:         stay.Range.Nights(),
		Guests:         stay.Guests,
		BasePrice:      base,
		Subtotal:       base,
		ExtraGuestFee:  extra,
		TotalDiscount:  discount,
		TotalSurcharge: surcharge,
		TotalAmount:    total.ClampZero(),
		Daily:          append([]NightlyCharge(nil), nightly...),
		Discounts:      append([]AppliedDiscount(nil), discounts.Discounts...),
	}, nil
}

func sumRates(nightly []NightlyCharge, currency string) (money.Money, error) {
	total := money.Money{Amount: 0, Currency: currency}
	for _, n := range nightly {
		var err error
		if total, err = total.Add(n.DailyRate); err != nil {
			return money.Money{}, fmt.Errorf("%w: night %s: %v", ErrRuleConfiguration, n.Date.Format(daterange.Layout), err)
		}
	}
	return total, nil
}

func sumMoney(values []money.Money, currency string) (money.Money, error) {
	total := money.Money{Amount: 0, Currency: currency}
	for _, v := range values {
		var err error
		if total, err = total.Add(v); err != nil {
			return money.Money{}, fmt.Errorf("%w: extra guest fee: %v", ErrRuleConfiguration, err)
		}
	}
	return total, nil
}
