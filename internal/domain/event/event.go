package event

import (
	"fmt"
	"time"
)

// Event is the parent record entities are grouped under.
type Event struct {
	id       string
	name     string
	startsAt time.Time
}

// New validates and creates an Event.
func New(id, name string, startsAt time.Time) (Event, error) {
	if id == "" {
		return Event{}, fmt.Errorf("event id is required")
	}
	if name == "" {
		return Event{}, fmt.Errorf("event name is required")
	}
	return Reconstruct(id, name, startsAt), nil
}

// Reconstruct restores an Event from storage without validation.
func Reconstruct(id, name string, startsAt time.Time) Event {
	return Event{id: id, name: name, startsAt: startsAt.UTC()}
}

// ID returns the event identifier.
func (e Event) ID() string { return e.id }

// Name returns the event title.
func (e Event) Name() string { return e.name }

// StartsAt returns the event start time in UTC.
func (e Event) StartsAt() time.Time { return e.startsAt }
