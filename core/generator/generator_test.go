package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func testBounds() Bounds {
	return Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
}

func TestNewValidation(t *testing.T) {
	src := rand.NewSource(1)

	_, err := New(0, testBounds(), src)
	assert.Error(t, err)
	_, err = New(-1, testBounds(), src)
	assert.Error(t, err)
	_, err = New(2, Bounds{MinX: 10, MaxX: 5, MinY: 0, MaxY: 1}, src)
	assert.Error(t, err)
	_, err = New(2, testBounds(), nil)
	assert.Error(t, err)

	g, err := New(2, testBounds(), src)
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestGenerateWithinBounds(t *testing.T) {
	b := Bounds{MinX: -10, MinY: 5, MaxX: 10, MaxY: 25}
	g, err := New(3, b, rand.NewSource(7))
	require.NoError(t, err)

	for now := 0; now < 200; now++ {
		for _, r := range g.MaybeGenerate(now) {
			assert.Equal(t, now, r.CreationTime)
			for _, p := range []struct{ X, Y float64 }{
				{r.Pickup.X, r.Pickup.Y},
				{r.Dropoff.X, r.Dropoff.Y},
			} {
				assert.GreaterOrEqual(t, p.X, b.MinX)
				assert.Less(t, p.X, b.MaxX)
				assert.GreaterOrEqual(t, p.Y, b.MinY)
				assert.Less(t, p.Y, b.MaxY)
			}
		}
	}
	assert.Positive(t, g.Generated())
}

func TestGenerateMonotonicIDs(t *testing.T) {
	g, err := New(5, testBounds(), rand.NewSource(3))
	require.NoError(t, err)

	next := 0
	for now := 0; now < 50; now++ {
		for _, r := range g.MaybeGenerate(now) {
			assert.Equal(t, next, r.ID)
			next++
		}
	}
	assert.Equal(t, next, g.Generated())
}

func TestGenerateDeterministicUnderSeed(t *testing.T) {
	run := func(seed uint64) []string {
		g, err := New(2, testBounds(), rand.NewSource(seed))
		require.NoError(t, err)
		var trace []string
		for now := 0; now < 100; now++ {
			for _, r := range g.MaybeGenerate(now) {
				trace = append(trace, r.Pickup.String()+r.Dropoff.String())
			}
		}
		return trace
	}

	assert.Equal(t, run(42), run(42))
	assert.NotEqual(t, run(42), run(43))
}
