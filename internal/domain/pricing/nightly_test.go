package pricing

import (
	"errors"
	"testing"
	"time"
)

func TestNightlyRate(t *testing.T) {
	rule := baseRule()
	rule.WeekendPrice = wonPtr(70000)
	rule.Multipliers = DayMultipliers{time.Saturday: 1.1, time.Monday: 0.9}

	cases := []struct {
		date    string
		want    int64
		weekend bool
	}{
		{date: "2025-07-15", want: 50000},                // Tuesday
		{date: "2025-07-14", want: 45000},                // Monday, multiplier only
		{date: "2025-07-19", want: 77000, weekend: true}, // Saturday, weekend price then multiplier
		{date: "2025-07-20", want: 70000, weekend: true}, // Sunday
	}
	for _, tc := range cases {
		got, err := NightlyRate(rule, day(t, tc.date))
		if err != nil {
			t.Fatalf("NightlyRate(%s): %v", tc.date, err)
		}
		if got.DailyRate.Amount != tc.want || got.Weekend != tc.weekend {
			t.Fatalf("NightlyRate(%s) = %d weekend=%v, want %d weekend=%v", tc.date, got.DailyRate.Amount, got.Weekend, tc.want, tc.weekend)
		}
		if got.PricingName != rule.Name || got.RuleID != rule.ID {
			t.Fatalf("charge not attributed to rule: %+v", got)
		}
	}
}

func TestNightlyRateWeekendWithoutOverrideUsesBase(t *testing.T) {
	got, err := NightlyRate(baseRule(), day(t, "2025-07-19"))
	if err != nil {
		t.Fatalf("NightlyRate: %v", err)
	}
	if got.DailyRate.Amount != 50000 || !got.Weekend {
		t.Fatalf("got %+v", got)
	}
}

func TestNightlyRateRejectsNegativeMultiplier(t *testing.T) {
	rule := baseRule()
	rule.Multipliers = DayMultipliers{time.Tuesday: -1}
	if _, err := NightlyRate(rule, day(t, "2025-07-15")); !errors.Is(err, ErrRuleConfiguration) {
		t.Fatalf("err = %v, want ErrRuleConfiguration", err)
	}
}

func TestParseDayMultipliers(t *testing.T) {
	got, err := ParseDayMultipliers(map[string]float64{"friday": 1.2, "SUNDAY": 1.1})
	if err != nil {
		t.Fatalf("ParseDayMultipliers: %v", err)
	}
	if got[time.Friday] != 1.2 || got[time.Sunday] != 1.1 || len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if names := got.Names(); names["FRIDAY"] != 1.2 {
		t.Fatalf("Names() = %v", names)
	}
	if _, err := ParseDayMultipliers(map[string]float64{"FUNDAY": 2}); !errors.Is(err, ErrRuleConfiguration) {
		t.Fatalf("err = %v, want ErrRuleConfiguration", err)
	}
}

func TestExtraGuestFee(t *testing.T) {
	rule := baseRule()
	rule.ExtraGuestFee = *wonPtr(10000)
	cases := []struct {
		guests int
		want   int64
	}{
		{guests: 1, want: 0},
		{guests: 2, want: 0},
		{guests: 3, want: 10000},
		{guests: 4, want: 20000},
	}
	for _, tc := range cases {
		got, err := ExtraGuestFee(rule, tc.guests)
		if err != nil {
			t.Fatalf("ExtraGuestFee(%d): %v", tc.guests, err)
		}
		if got.Amount != tc.want {
			t.Fatalf("ExtraGuestFee(%d) = %d, want %d", tc.guests, got.Amount, tc.want)
		}
	}
	if _, err := ExtraGuestFee(rule, 5); !errors.Is(err, ErrGuestCountExceeded) {
		t.Fatalf("err = %v, want ErrGuestCountExceeded", err)
	}
}
