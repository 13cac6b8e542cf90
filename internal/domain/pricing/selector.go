package pricing

import (
	"fmt"
	"sort"
	"time"

	"campstation/internal/domain/shared/daterange"
)

// SelectRule picks the single rule that prices the night of date.
func SelectRule(rules []Rule, date time.Time) (Rule, error) {
	var (
		best  Rule
		found bool
	)
	for _, rule := range rules {
		ok, err := Matches(rule, date)
		if err != nil {
			return Rule{}, err
		}
		if !ok {
			continue
		}
		if !found || outranks(rule, best) {
			best = rule
			found = true
		}
	}
	if !found {
		return Rule{}, fmt.Errorf("%w: %s", ErrNoApplicableRule, date.Format(daterange.Layout))
	}
	return best, nil
}

// outranks orders rules by priority, then type specificity, then lowest id.
func outranks(a, b Rule) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if sa, sb := a.Type.Specificity(), b.Type.Specificity(); sa != sb {
		return sa > sb
	}
	return a.ID < b.ID
}

// SortByPrecedence orders rules the way SelectRule would prefer them.
func SortByPrecedence(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return outranks(rules[i], rules[j])
	})
}
