package colony_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2y-d5l/forkjoin/colony"
)

func TestPublish_DeliversInRegistrationOrderWithoutFiltering(t *testing.T) {
	base := colony.NewBase(nil)

	var got []string
	record := func(name string) colony.Subscriber {
		return colony.SubscriberFunc(func(e colony.Event) {
			got = append(got, name+":"+e.String())
		})
	}
	base.Subscribe(record("a"))
	base.Subscribe(record("b"))
	base.Subscribe(nil)
	base.Subscribe(record("c"))
	require.Equal(t, 3, base.Len())

	base.Publish(colony.BlackHole)

	assert.Equal(t, []string{"a:Black hole", "b:Black hole", "c:Black hole"}, got)

	cur, ok := base.Current()
	assert.True(t, ok)
	assert.Equal(t, colony.BlackHole, cur)
}

func TestUnsubscribe_RemovesFirstRegistration(t *testing.T) {
	base := colony.NewBase(nil)
	sci := colony.NewScientificColony(nil)
	mil := colony.NewMilitaryColony(nil)

	base.Subscribe(sci)
	base.Subscribe(mil)
	base.Subscribe(sci)

	assert.True(t, base.Unsubscribe(sci))
	assert.Equal(t, 2, base.Len())

	base.Publish(colony.Discovery)
	assert.Equal(t, 1, sci.Handled())

	assert.True(t, base.Unsubscribe(sci))
	assert.False(t, base.Unsubscribe(sci))
	assert.False(t, base.Unsubscribe(colony.SubscriberFunc(func(colony.Event) {})))
	assert.Equal(t, 1, base.Len())
}

func TestSubscribers_FilterTheirEvents(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))

	sci := colony.NewScientificColony(logger)
	mil := colony.NewMilitaryColony(logger)
	res1 := colony.NewResidentialColony(logger)
	res2 := colony.NewResidentialColony(logger)
	cruiser := colony.NewSpaceCruiser(logger)

	base := colony.NewBase(logger)
	for _, s := range []colony.Subscriber{sci, mil, res1, res2, cruiser} {
		base.Subscribe(s)
	}

	for _, e := range colony.Events() {
		base.Publish(e)
	}

	assert.Equal(t, 1, sci.Handled())
	assert.Equal(t, 1, mil.Handled())
	assert.Equal(t, 3, res1.Handled())
	assert.Equal(t, 3, res2.Handled())
	assert.Equal(t, 2, cruiser.Handled())

	assert.True(t, cruiser.Reacts(colony.MeteorImpact))
	assert.False(t, cruiser.Reacts(colony.Invasion))

	assert.Contains(t, out.String(), "residential colony faces a new crisis")
	assert.Contains(t, out.String(), "colony_id=")
}

func TestColonyIDs_AreUniqueAndIncreasing(t *testing.T) {
	a := colony.NewMilitaryColony(nil)
	b := colony.NewResidentialColony(nil)
	c := colony.NewMilitaryColony(nil)

	assert.Less(t, a.ID(), b.ID())
	assert.Less(t, b.ID(), c.ID())
	assert.Positive(t, a.ID())
}

func TestEvent_StringAndParse(t *testing.T) {
	for _, e := range colony.Events() {
		require.True(t, e.Valid())
		got, err := colony.ParseEvent(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	got, err := colony.ParseEvent("  supply SHORTAGE ")
	require.NoError(t, err)
	assert.Equal(t, colony.SupplyShortage, got)

	_, err = colony.ParseEvent("solar flare")
	require.Error(t, err)

	assert.False(t, colony.Event(42).Valid())
	assert.Equal(t, "Event(42)", colony.Event(42).String())
	assert.Len(t, colony.Events(), 5)
}
