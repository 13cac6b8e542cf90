package pricing

import (
	"testing"
	"time"

	"campstation/internal/domain/shared/daterange"
	"campstation/internal/domain/shared/money"
)

func baseRule() Rule {
	return Rule{
		ID:         1,
		SiteID:     7,
		Name:       "기본 요금",
		Type:       RuleTypeBase,
		BasePrice:  money.Won(50000),
		BaseGuests: 2,
		MaxGuests:  4,
		Active:     true,
	}
}

func day(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := daterange.ParseDay(raw)
	if err != nil {
		t.Fatalf("ParseDay(%q): %v", raw, err)
	}
	return d
}

func stay(t *testing.T, checkIn, checkOut string, guests int) Stay {
	t.Helper()
	s, err := NewStay(7, day(t, checkIn), day(t, checkOut), guests)
	if err != nil {
		t.Fatalf("NewStay: %v", err)
	}
	return s
}

func wonPtr(amount int64) *money.Money {
	m := money.Won(amount)
	return &m
}

func window(startMonth time.Month, startDay int, endMonth time.Month, endDay int) *DateWindow {
	return &DateWindow{
		Start: MonthDay{Month: startMonth, Day: startDay},
		End:   MonthDay{Month: endMonth, Day: endDay},
	}
}
