package behaviour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetsim/core/model"
)

func newDriver(t *testing.T, pos model.Point, speed float64, b model.Behaviour) *model.Driver {
	t.Helper()
	d, err := model.NewDriver(1, pos, speed, b)
	require.NoError(t, err)
	return d
}

func TestGreedyDistanceBoundary(t *testing.T) {
	g := NewGreedyDistance(10)
	d := newDriver(t, model.NewPoint(0, 0), 1, g)

	near := model.NewRequest(1, model.NewPoint(10, 0), model.NewPoint(10, 1), 0)
	far := model.NewRequest(2, model.NewPoint(10.01, 0), model.NewPoint(11, 1), 0)

	// Exactly at the limit still counts.
	assert.True(t, g.Decide(d, model.NewOffer(d, near, 0, "test"), 0))
	assert.False(t, g.Decide(d, model.NewOffer(d, far, 0, "test"), 0))
}

func TestEarningsMaxRewardRate(t *testing.T) {
	e := NewEarningsMax(3.5)
	d := newDriver(t, model.NewPoint(0, 0), 2, e)

	// Approach 4 at speed 2, fare 3: reward 7 over travel 2 = 3.5.
	r := model.NewRequest(1, model.NewPoint(4, 0), model.NewPoint(4, 3), 0)
	assert.True(t, e.Decide(d, model.NewOffer(d, r, 0, "test"), 0))

	stricter := NewEarningsMax(3.6)
	assert.False(t, stricter.Decide(d, model.NewOffer(d, r, 0, "test"), 0))
}

func TestEarningsMaxRejectsZeroTravel(t *testing.T) {
	e := NewEarningsMax(0.1)
	d := newDriver(t, model.NewPoint(4, 0), 2, e)
	r := model.NewRequest(1, model.NewPoint(4, 0), model.NewPoint(4, 3), 0)

	// Driver sitting on the pickup: infinite rate is not a free pass.
	assert.False(t, e.Decide(d, model.NewOffer(d, r, 0, "test"), 0))
}

func TestLazyRequiresRestAndProximity(t *testing.T) {
	l := NewLazy(3, 5)
	d := newDriver(t, model.NewPoint(0, 0), 1, l)
	d.IdleSince = 10

	near := model.NewRequest(1, model.NewPoint(2, 0), model.NewPoint(3, 0), 0)
	far := model.NewRequest(2, model.NewPoint(6, 0), model.NewPoint(7, 0), 0)

	// Not rested yet.
	assert.False(t, l.Decide(d, model.NewOffer(d, near, 12, "test"), 12))
	// Rested but too far.
	assert.False(t, l.Decide(d, model.NewOffer(d, far, 13, "test"), 13))
	// Both conditions hold.
	assert.True(t, l.Decide(d, model.NewOffer(d, near, 13, "test"), 13))
}

func TestLazyDefaultPickupDistance(t *testing.T) {
	l := NewLazy(0, 0)
	assert.Equal(t, DefaultMaxPickupDistance, l.MaxPickupDistance)
}

func TestDefaultsBuild(t *testing.T) {
	var f Defaults
	f.SetDefaults()

	g, err := f.Build(model.BehaviourGreedyDistance)
	require.NoError(t, err)
	assert.Equal(t, model.BehaviourGreedyDistance, g.Kind())

	e, err := f.Build(model.BehaviourEarningsMax)
	require.NoError(t, err)
	assert.Equal(t, model.BehaviourEarningsMax, e.Kind())

	l, err := f.Build(model.BehaviourLazy)
	require.NoError(t, err)
	assert.Equal(t, model.BehaviourLazy, l.Kind())

	_, err = f.Build(model.BehaviourKind(99))
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for s, want := range map[string]model.BehaviourKind{
		"greedy_distance": model.BehaviourGreedyDistance,
		"earnings_max":    model.BehaviourEarningsMax,
		"lazy":            model.BehaviourLazy,
	} {
		got, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("altruistic")
	assert.Error(t, err)
}
