package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campstation/internal/domain/shared/money"
)

type RuleType string

const (
	RuleTypeBase         RuleType = "BASE"
	RuleTypeSeasonal     RuleType = "SEASONAL"
	RuleTypeDateRange    RuleType = "DATE_RANGE"
	RuleTypeSpecialEvent RuleType = "SPECIAL_EVENT"
)

// Specificity ranks rule types for tie-breaking between equal priorities.
func (t RuleType) Specificity() int {
	switch t {
	case RuleTypeSpecialEvent:
		return 3
	case RuleTypeDateRange:
		return 2
	case RuleTypeSeasonal:
		return 1
	default:
		return 0
	}
}

func (t RuleType) Valid() bool {
	switch t {
	case RuleTypeBase, RuleTypeSeasonal, RuleTypeDateRange, RuleTypeSpecialEvent:
		return true
	}
	return false
}

// SeasonType labels seasonal rules. It does not affect matching; the date window does.
type SeasonType string

const (
	SeasonPeak   SeasonType = "PEAK"
	SeasonHigh   SeasonType = "HIGH"
	SeasonNormal SeasonType = "NORMAL"
	SeasonLow    SeasonType = "LOW"
)

// MonthDay is a year-independent calendar day.
type MonthDay struct {
	Month time.Month
	Day   int
}

func (md MonthDay) valid() bool {
	if md.Month < time.January || md.Month > time.December || md.Day < 1 {
		return false
	}
	// leap year so that Feb 29 stays a legal bound
	last := time.Date(2024, md.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return md.Day <= last
}

func (md MonthDay) ordinal() int {
	return int(md.Month)*100 + md.Day
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

func monthDayOf(t time.Time) MonthDay {
	return MonthDay{Month: t.Month(), Day: t.Day()}
}

// DateWindow is an inclusive month/day interval that may wrap over new year.
type DateWindow struct {
	Start MonthDay
	End   MonthDay
}

// Contains reports whether t's month/day falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	cur := monthDayOf(t).ordinal()
	start, end := w.Start.ordinal(), w.End.ordinal()
	if start <= end {
		return cur >= start && cur <= end
	}
	return cur >= start || cur <= end
}

// DiscountPolicy is a percentage discount unlocked by a threshold.
// For stay-length policies the threshold is nights, for early booking it is days.
type DiscountPolicy struct {
	RatePercent float64
	Threshold   int
}

// DayMultipliers scales the nightly price on specific weekdays.
type DayMultipliers map[time.Weekday]float64

var weekdayNames = map[string]time.Weekday{
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
	"SUNDAY":    time.Sunday,
}

// ParseDayMultipliers converts a name-keyed map (MONDAY..SUNDAY) into DayMultipliers.
func ParseDayMultipliers(raw map[string]float64) (DayMultipliers, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(DayMultipliers, len(raw))
	for name, factor := range raw {
		day, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrRuleConfiguration, name)
		}
		if factor < 0 {
			return nil, fmt.Errorf("%w: negative multiplier for %s", ErrRuleConfiguration, name)
		}
		out[day] = factor
	}
	return out, nil
}

// Names renders the multipliers keyed by upper-case weekday name.
func (d DayMultipliers) Names() map[string]float64 {
	if len(d) == 0 {
		return nil
	}
	out := make(map[string]float64, len(d))
	for day, factor := range d {
		out[strings.ToUpper(day.String())] = factor
	}
	return out
}

// Rule is one pricing policy configured for a site.
type Rule struct {
	ID            int64
	SiteID        int64
	Name          string
	Description   string
	Type          RuleType
	Season        SeasonType
	Window        *DateWindow
	BasePrice     money.Money
	WeekendPrice  *money.Money
	Multipliers   DayMultipliers
	BaseGuests    int
	MaxGuests     int
	ExtraGuestFee money.Money
	LongStay      *DiscountPolicy
	ExtendedStay  *DiscountPolicy
	EarlyBird     *DiscountPolicy
	Priority      int
	Active        bool
}

// DefaultPriority is the priority conventionally assigned to each rule type.
func DefaultPriority(t RuleType) int {
	switch t {
	case RuleTypeSpecialEvent:
		return 30
	case RuleTypeDateRange:
		return 20
	case RuleTypeSeasonal:
		return 10
	default:
		return 0
	}
}

// RuleRepository reads rules owned by the rule authoring subsystem.
type RuleRepository interface {
	ActiveBySite(ctx context.Context, siteID int64) ([]Rule, error)
	BySite(ctx context.Context, siteID int64) ([]Rule, error)
}
