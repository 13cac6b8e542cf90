package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrInvalidRatio     = errors.New("money: ratio must be a finite non-negative number")
)

// KRW is the only currency campsite prices are quoted in. Won has no minor unit.
const KRW = "KRW"

// Money keeps amounts as integers in the smallest currency unit.
type Money struct {
	Amount   int64
	Currency string
}

// New constructs a Money value validating minimal invariants.
func New(amount int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	currency = strings.ToUpper(currency)
	return Money{Amount: amount, Currency: currency}, nil
}

// Must creates Money and panics if validation fails; useful in tests and fixtures.
func Must(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Won is shorthand for a KRW amount.
func Won(amount int64) Money {
	return Money{Amount: amount, Currency: KRW}
}

// Add adds two money values ensuring currencies match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Sub subtracts other from the receiver.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

// Multiply multiplies the amount by the provided factor.
func (m Money) Multiply(times int64) Money {
	return Money{Amount: m.Amount * times, Currency: m.Currency}
}

// MulRatio multiplies the amount by ratio and rounds half up to a whole unit.
// The ratio is taken at its shortest decimal representation, so 1.1 means
// exactly 11/10 and not the nearest binary float.
func (m Money) MulRatio(ratio float64) (Money, error) {
	r, err := ratioDecimal(ratio)
	if err != nil {
		return Money{}, err
	}
	return m.scaled(r), nil
}

// Percent returns percent/100 of the amount rounded half up.
func (m Money) Percent(percent float64) (Money, error) {
	r, err := ratioDecimal(percent)
	if err != nil {
		return Money{}, err
	}
	return m.scaled(r.Shift(-2)), nil
}

// Min returns the smaller of two amounts of the same currency.
func (m Money) Min(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	if other.Amount < m.Amount {
		return other, nil
	}
	return m, nil
}

// ClampZero returns the receiver, or zero when the amount is negative.
func (m Money) ClampZero() Money {
	if m.Amount < 0 {
		return Money{Amount: 0, Currency: m.Currency}
	}
	return m
}

// IsZero returns true if the amount equals zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

func (m Money) scaled(r decimal.Decimal) Money {
	product := decimal.NewFromInt(m.Amount).Mul(r).Round(0)
	return Money{Amount: product.IntPart(), Currency: m.Currency}
}

func ratioDecimal(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return decimal.Zero, ErrInvalidRatio
	}
	return decimal.NewFromFloat(v), nil
}
