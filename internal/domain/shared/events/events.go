package events

import "time"

// Event is a fact other subsystems may react to.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// ID identifies one published occurrence. Redeliveries share it.
type ID string

// Meta holds the envelope fields every event carries.
type Meta struct {
	ID        ID
	Name      string
	Aggregate string
	At        time.Time
}

// NewMeta stamps at in UTC, or the current time when at is zero.
func NewMeta(id ID, name, aggregate string, at time.Time) Meta {
	if at.IsZero() {
		at = time.Now()
	}
	return Meta{ID: id, Name: name, Aggregate: aggregate, At: at.UTC()}
}

func (m Meta) EventName() string     { return m.Name }
func (m Meta) AggregateID() string   { return m.Aggregate }
func (m Meta) OccurredAt() time.Time { return m.At }
