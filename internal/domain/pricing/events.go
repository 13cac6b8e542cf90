package pricing

import (
	"strconv"
	"time"

	"campstation/internal/domain/shared/events"
)

// EventRulesChanged is published by the rule authoring subsystem whenever a
// site's rules are created, updated or deleted.
const EventRulesChanged = "pricing.rules_changed.v1"

// RulesChangedEvent signals that quotes computed for SiteID are stale.
type RulesChangedEvent struct {
	events.Meta
	SiteID int64
}

func NewRulesChangedEvent(id events.ID, siteID int64, at time.Time) RulesChangedEvent {
	return RulesChangedEvent{
		Meta:   events.NewMeta(id, EventRulesChanged, strconv.FormatInt(siteID, 10), at),
		SiteID: siteID,
	}
}

var _ events.Event = RulesChangedEvent{}
