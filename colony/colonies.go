package colony

import (
	"log/slog"
	"slices"
	"sync/atomic"
)

// colonyIDs hands out process-unique colony IDs starting at 1.
var colonyIDs atomic.Int64

func nextID() int {
	return int(colonyIDs.Add(1))
}

// reactor is the shared subscriber body: log msg when an event in interests
// arrives, ignore everything else.
type reactor struct {
	logger    *slog.Logger
	interests []Event
	msg       string
	attrs     []any
}

func newReactor(logger *slog.Logger, msg string, interests ...Event) reactor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return reactor{logger: logger, msg: msg, interests: interests}
}

// Reacts reports whether the subscriber acts on e.
func (r *reactor) Reacts(e Event) bool {
	return slices.Contains(r.interests, e)
}

func (r *reactor) update(e Event) bool {
	if !r.Reacts(e) {
		return false
	}
	r.logger.Info(r.msg, append([]any{"event", e.String()}, r.attrs...)...)
	return true
}

// ScientificColony celebrates discoveries.
type ScientificColony struct {
	reactor
	handled int
}

// NewScientificColony returns a scientific colony logging to logger. A nil
// logger discards output.
func NewScientificColony(logger *slog.Logger) *ScientificColony {
	return &ScientificColony{
		reactor: newReactor(logger, "scientific colony celebrates a new discovery", Discovery),
	}
}

// Update logs e if it is a Discovery and ignores it otherwise.
func (c *ScientificColony) Update(e Event) {
	if c.update(e) {
		c.handled++
	}
}

// Handled returns how many events the colony reacted to.
func (c *ScientificColony) Handled() int { return c.handled }

// MilitaryColony prepares to repel invasions.
type MilitaryColony struct {
	reactor
	id      int
	handled int
}

// NewMilitaryColony returns a military colony with the next colony ID.
func NewMilitaryColony(logger *slog.Logger) *MilitaryColony {
	c := &MilitaryColony{
		reactor: newReactor(logger, "military colony prepares to stop the invasion", Invasion),
		id:      nextID(),
	}
	c.attrs = []any{"colony_id", c.id}
	return c
}

// Update logs e if it is an Invasion and ignores it otherwise.
func (c *MilitaryColony) Update(e Event) {
	if c.update(e) {
		c.handled++
	}
}

// ID returns the colony's process-unique ID.
func (c *MilitaryColony) ID() int { return c.id }

// Handled returns how many events the colony reacted to.
func (c *MilitaryColony) Handled() int { return c.handled }

// ResidentialColony faces shortages, invasions and meteor impacts.
type ResidentialColony struct {
	reactor
	id      int
	handled int
}

// NewResidentialColony returns a residential colony with the next colony ID.
func NewResidentialColony(logger *slog.Logger) *ResidentialColony {
	c := &ResidentialColony{
		reactor: newReactor(logger, "residential colony faces a new crisis",
			SupplyShortage, Invasion, MeteorImpact),
		id: nextID(),
	}
	c.attrs = []any{"colony_id", c.id}
	return c
}

// Update logs e if it is a SupplyShortage, Invasion or MeteorImpact.
func (c *ResidentialColony) Update(e Event) {
	if c.update(e) {
		c.handled++
	}
}

// ID returns the colony's process-unique ID.
func (c *ResidentialColony) ID() int { return c.id }

// Handled returns how many events the colony reacted to.
func (c *ResidentialColony) Handled() int { return c.handled }

// SpaceCruiser is threatened by black holes and meteor impacts.
type SpaceCruiser struct {
	reactor
	handled int
}

// NewSpaceCruiser returns a space cruiser logging to logger.
func NewSpaceCruiser(logger *slog.Logger) *SpaceCruiser {
	return &SpaceCruiser{
		reactor: newReactor(logger, "space cruiser is under threat", BlackHole, MeteorImpact),
	}
}

// Update logs e if it is a BlackHole or MeteorImpact.
func (c *SpaceCruiser) Update(e Event) {
	if c.update(e) {
		c.handled++
	}
}

// Handled returns how many events the cruiser reacted to.
func (c *SpaceCruiser) Handled() int { return c.handled }
