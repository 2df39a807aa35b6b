package colony

import (
	"fmt"
	"strconv"
	"strings"
)

// Event is one of a closed set of happenings broadcast by a Base.
type Event uint8

const (
	// MeteorImpact threatens residential colonies and space cruisers.
	MeteorImpact Event = iota
	// Discovery is celebrated by scientific colonies.
	Discovery
	// Invasion alerts military and residential colonies.
	Invasion
	// SupplyShortage hits residential colonies.
	SupplyShortage
	// BlackHole threatens space cruisers.
	BlackHole
)

var eventNames = [...]string{
	MeteorImpact:   "Meteor impact",
	Discovery:      "Discovery",
	Invasion:       "Invasion",
	SupplyShortage: "Supply shortage",
	BlackHole:      "Black hole",
}

// Events returns every event in declaration order.
func Events() []Event {
	return []Event{MeteorImpact, Discovery, Invasion, SupplyShortage, BlackHole}
}

// String returns the display name.
func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "Event(" + strconv.Itoa(int(e)) + ")"
}

// Valid reports whether e is a member of the closed set.
func (e Event) Valid() bool {
	return int(e) < len(eventNames)
}

// ParseEvent maps a display name, case-insensitively, back to its Event.
func ParseEvent(s string) (Event, error) {
	for i, name := range eventNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Event(i), nil
		}
	}
	return 0, fmt.Errorf("colony: parse event: unknown event %q", s)
}
