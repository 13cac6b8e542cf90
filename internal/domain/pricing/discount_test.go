package pricing

import (
	"testing"

	"campstation/internal/domain/shared/money"
)

func TestApplyDiscountsStacksEveryEligiblePolicy(t *testing.T) {
	rule := baseRule()
	rule.LongStay = &DiscountPolicy{RatePercent: 10, Threshold: 3}
	rule.ExtendedStay = &DiscountPolicy{RatePercent: 5, Threshold: 7}
	rule.EarlyBird = &DiscountPolicy{RatePercent: 3, Threshold: 30}

	s := stay(t, "2025-08-01", "2025-08-08", 2)
	got, err := ApplyDiscounts(s, money.Won(350000), money.Won(0), []Rule{rule}, day(t, "2025-07-01"))
	if err != nil {
		t.Fatalf("ApplyDiscounts: %v", err)
	}
	want := []struct {
		kind   DiscountType
		amount int64
		desc   string
	}{
		{kind: DiscountLongStay, amount: 35000, desc: "장기 숙박 할인 (3박 이상)"},
		{kind: DiscountExtendedStay, amount: 17500, desc: "연박 할인 (7박 이상)"},
		{kind: DiscountEarlyBird, amount: 10500, desc: "조기 예약 할인 (30일 전)"},
	}
	if len(got.Discounts) != len(want) {
		t.Fatalf("discounts = %+v", got.Discounts)
	}
	for i, w := range want {
		d := got.Discounts[i]
		if d.Type != w.kind || d.Amount.Amount != w.amount || d.Description != w.desc {
			t.Fatalf("discount %d = %+v, want %+v", i, d, w)
		}
	}
	if got.Total.Amount != 63000 {
		t.Fatalf("total = %d, want 63000", got.Total.Amount)
	}
}

func TestApplyDiscountsThresholds(t *testing.T) {
	rule := baseRule()
	rule.LongStay = &DiscountPolicy{RatePercent: 10, Threshold: 3}
	rule.EarlyBird = &DiscountPolicy{RatePercent: 5, Threshold: 30}

	s := stay(t, "2025-08-01", "2025-08-03", 2)
	got, err := ApplyDiscounts(s, money.Won(100000), money.Won(0), []Rule{rule}, day(t, "2025-07-03"))
	if err != nil {
		t.Fatalf("ApplyDiscounts: %v", err)
	}
	if len(got.Discounts) != 0 || got.Total.Amount != 0 {
		t.Fatalf("2 nights booked 29 days ahead should get nothing, got %+v", got.Discounts)
	}

	got, err = ApplyDiscounts(s, money.Won(100000), money.Won(0), []Rule{rule}, day(t, "2025-07-02"))
	if err != nil {
		t.Fatalf("ApplyDiscounts: %v", err)
	}
	if len(got.Discounts) != 1 || got.Discounts[0].Type != DiscountEarlyBird {
		t.Fatalf("booking exactly 30 days ahead should be early bird, got %+v", got.Discounts)
	}
}

func TestApplyDiscountsUsesBestRateAcrossSelectedRules(t *testing.T) {
	base := baseRule()
	base.LongStay = &DiscountPolicy{RatePercent: 5, Threshold: 3}
	peak := baseRule()
	peak.ID = 2
	peak.LongStay = &DiscountPolicy{RatePercent: 8, Threshold: 4}
	offSeason := baseRule()
	offSeason.ID = 3
	offSeason.LongStay = &DiscountPolicy{RatePercent: 20, Threshold: 10}

	s := stay(t, "2025-08-01", "2025-08-05", 2)
	got, err := ApplyDiscounts(s, money.Won(200000), money.Won(0), []Rule{base, peak, offSeason}, day(t, "2025-07-30"))
	if err != nil {
		t.Fatalf("ApplyDiscounts: %v", err)
	}
	if len(got.Discounts) != 1 || got.Discounts[0].RatePercent != 8 || got.Discounts[0].Amount.Amount != 16000 {
		t.Fatalf("discounts = %+v, want single 8%% line", got.Discounts)
	}
}

func TestApplyDiscountsCapsAtChargeableAmount(t *testing.T) {
	rule := baseRule()
	rule.LongStay = &DiscountPolicy{RatePercent: 70, Threshold: 1}
	rule.ExtendedStay = &DiscountPolicy{RatePercent: 70, Threshold: 1}

	s := stay(t, "2025-08-01", "2025-08-02", 3)
	got, err := ApplyDiscounts(s, money.Won(50000), money.Won(10000), []Rule{rule}, day(t, "2025-07-30"))
	if err != nil {
		t.Fatalf("ApplyDiscounts: %v", err)
	}
	if got.Total.Amount != 60000 {
		t.Fatalf("total = %d, want capped at subtotal+fees 60000", got.Total.Amount)
	}

	b, err := Aggregate(s, []NightlyCharge{{Date: s.Range.CheckIn, DailyRate: money.Won(50000)}}, []money.Money{money.Won(10000)}, got)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if b.TotalAmount.Amount != 0 {
		t.Fatalf("total amount = %d, want 0", b.TotalAmount.Amount)
	}
}
