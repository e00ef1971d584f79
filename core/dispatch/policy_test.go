package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetsim/core/model"
)

type yes struct{}

func (yes) Kind() model.BehaviourKind             { return model.BehaviourGreedyDistance }
func (yes) Decide(*model.Driver, model.Offer, int) bool { return true }

func mkDriver(t *testing.T, id int, x, y, speed float64) *model.Driver {
	t.Helper()
	d, err := model.NewDriver(id, model.NewPoint(x, y), speed, yes{})
	require.NoError(t, err)
	return d
}

func TestNearestNeighborPicksClosestPairsFirst(t *testing.T) {
	d1 := mkDriver(t, 1, 0, 0, 2)
	d2 := mkDriver(t, 2, 50, 50, 1)
	r1 := model.NewRequest(1, model.NewPoint(10, 10), model.NewPoint(20, 20), 0)
	r2 := model.NewRequest(2, model.NewPoint(55, 55), model.NewPoint(60, 60), 0)

	props := NearestNeighbor{}.Propose(
		[]*model.Driver{d1, d2}, []*model.Request{r1, r2}, 0)
	require.Len(t, props, 2)

	// D2→R2 is the globally closest pair, leaving D1 with R1.
	assert.Equal(t, 2, props[0].Driver.ID)
	assert.Equal(t, 2, props[0].Request.ID)
	assert.Equal(t, 1, props[1].Driver.ID)
	assert.Equal(t, 1, props[1].Request.ID)
}

func TestNearestNeighborMoreRequestsThanDrivers(t *testing.T) {
	d := mkDriver(t, 1, 0, 0, 1)
	r1 := model.NewRequest(1, model.NewPoint(9, 0), model.NewPoint(9, 1), 0)
	r2 := model.NewRequest(2, model.NewPoint(3, 0), model.NewPoint(3, 1), 0)

	props := NearestNeighbor{}.Propose(
		[]*model.Driver{d}, []*model.Request{r1, r2}, 0)
	require.Len(t, props, 1)
	assert.Equal(t, 2, props[0].Request.ID)
}

func TestNearestNeighborTieBreaksByID(t *testing.T) {
	d1 := mkDriver(t, 1, 0, 0, 1)
	d2 := mkDriver(t, 2, 0, 0, 1)
	r1 := model.NewRequest(1, model.NewPoint(5, 0), model.NewPoint(6, 0), 0)
	r2 := model.NewRequest(2, model.NewPoint(-5, 0), model.NewPoint(-6, 0), 0)

	// Every pair is at distance 5: lowest driver id takes lowest request id.
	props := NearestNeighbor{}.Propose(
		[]*model.Driver{d2, d1}, []*model.Request{r2, r1}, 0)
	require.Len(t, props, 2)
	assert.Equal(t, 1, props[0].Driver.ID)
	assert.Equal(t, 1, props[0].Request.ID)
	assert.Equal(t, 2, props[1].Driver.ID)
	assert.Equal(t, 2, props[1].Request.ID)
}

func TestGlobalGreedyMatchesSortedPairs(t *testing.T) {
	d1 := mkDriver(t, 1, 0, 0, 2)
	d2 := mkDriver(t, 2, 50, 50, 1)
	r1 := model.NewRequest(1, model.NewPoint(10, 10), model.NewPoint(20, 20), 0)
	r2 := model.NewRequest(2, model.NewPoint(55, 55), model.NewPoint(60, 60), 0)

	props := GlobalGreedy{}.Propose(
		[]*model.Driver{d1, d2}, []*model.Request{r1, r2}, 0)
	require.Len(t, props, 2)
	assert.Equal(t, 2, props[0].Driver.ID)
	assert.Equal(t, 2, props[0].Request.ID)
	assert.Equal(t, 1, props[1].Driver.ID)
	assert.Equal(t, 1, props[1].Request.ID)
}

func TestGlobalGreedySkipsTakenSides(t *testing.T) {
	d1 := mkDriver(t, 1, 0, 0, 1)
	d2 := mkDriver(t, 2, 1, 0, 1)
	r := model.NewRequest(1, model.NewPoint(2, 0), model.NewPoint(3, 0), 0)

	props := GlobalGreedy{}.Propose(
		[]*model.Driver{d1, d2}, []*model.Request{r}, 0)
	require.Len(t, props, 1)
	assert.Equal(t, 2, props[0].Driver.ID)
}

func TestAdaptiveHybridSwitchesOnLoad(t *testing.T) {
	a := NewAdaptiveHybrid()
	d1 := mkDriver(t, 1, 0, 0, 1)
	d2 := mkDriver(t, 2, 10, 10, 1)
	r1 := model.NewRequest(1, model.NewPoint(1, 0), model.NewPoint(2, 0), 0)
	r2 := model.NewRequest(2, model.NewPoint(11, 10), model.NewPoint(12, 10), 0)
	r3 := model.NewRequest(3, model.NewPoint(5, 5), model.NewPoint(6, 6), 0)

	assert.Empty(t, a.LastRun())

	// Balanced load runs the nearest-neighbor path.
	a.Propose([]*model.Driver{d1, d2}, []*model.Request{r1, r2}, 0)
	assert.Equal(t, "nearest_neighbor", a.LastRun())

	// Requests outnumber drivers: switch to global greedy.
	a.Propose([]*model.Driver{d1, d2}, []*model.Request{r1, r2, r3}, 1)
	assert.Equal(t, "global_greedy", a.LastRun())

	// And back again once the backlog clears.
	a.Propose([]*model.Driver{d1, d2}, []*model.Request{r1}, 2)
	assert.Equal(t, "nearest_neighbor", a.LastRun())
}

func TestPolicyFactory(t *testing.T) {
	for _, name := range []string{"nearest_neighbor", "global_greedy", "adaptive_hybrid"} {
		p, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
	_, err := New("hungarian")
	assert.Error(t, err)
}
