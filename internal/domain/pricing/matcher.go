package pricing

import (
	"fmt"
	"time"
)

// Matches reports whether rule applies to the night of date.
// Inactive rules never match. BASE rules match every date. Every other type
// matches only inside its window; an active non-BASE rule without a usable
// window is a configuration error.
func Matches(rule Rule, date time.Time) (bool, error) {
	if !rule.Active {
		return false, nil
	}
	if rule.Type == RuleTypeBase {
		return true, nil
	}
	if !rule.Type.Valid() {
		return false, fmt.Errorf("%w: rule %d has unknown type %q", ErrRuleConfiguration, rule.ID, rule.Type)
	}
	if rule.Window == nil {
		return false, fmt.Errorf("%w: %s rule %d has no start/end date", ErrRuleConfiguration, rule.Type, rule.ID)
	}
	if !rule.Window.Start.valid() || !rule.Window.End.valid() {
		return false, fmt.Errorf("%w: rule %d has impossible window %s..%s", ErrRuleConfiguration, rule.ID, rule.Window.Start, rule.Window.End)
	}
	return rule.Window.Contains(date), nil
}
