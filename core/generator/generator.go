// Package generator is the stochastic source of delivery requests.
// Arrivals follow a Poisson process; pickup and dropoff points are drawn
// uniformly inside the configured map bounds.
package generator

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"fleetsim/core/model"
)

// Bounds is the rectangular map requests are generated in.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Validate rejects empty or inverted rectangles.
func (b Bounds) Validate() error {
	if b.MaxX <= b.MinX || b.MaxY <= b.MinY {
		return fmt.Errorf("generator: invalid bounds [%v,%v]x[%v,%v]", b.MinX, b.MaxX, b.MinY, b.MaxY)
	}
	return nil
}

// Generator draws a request count per tick from Poisson(rate) and places
// each request uniformly inside the bounds. Ids are monotonic.
type Generator struct {
	bounds  Bounds
	poisson distuv.Poisson
	rng     *rand.Rand
	nextID  int
}

// New returns a generator emitting rate requests per tick on average. The
// source must be seeded by the caller; the generator owns no global
// randomness.
func New(rate float64, bounds Bounds, src rand.Source) (*Generator, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("generator: arrival rate must be positive, got %v", rate)
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("generator: random source is required")
	}
	return &Generator{
		bounds:  bounds,
		poisson: distuv.Poisson{Lambda: rate, Src: src},
		rng:     rand.New(src),
	}, nil
}

// MaybeGenerate returns the requests arriving at the given tick. The slice
// may be empty; dropoff points are drawn independently of pickups.
func (g *Generator) MaybeGenerate(now int) []*model.Request {
	count := int(g.poisson.Rand())
	if count <= 0 {
		return nil
	}
	reqs := make([]*model.Request, 0, count)
	for i := 0; i < count; i++ {
		r := model.NewRequest(g.nextID, g.randomPoint(), g.randomPoint(), now)
		g.nextID++
		reqs = append(reqs, r)
	}
	return reqs
}

// Generated returns how many requests have been emitted so far.
func (g *Generator) Generated() int { return g.nextID }

func (g *Generator) randomPoint() model.Point {
	x := g.bounds.MinX + g.rng.Float64()*(g.bounds.MaxX-g.bounds.MinX)
	y := g.bounds.MinY + g.rng.Float64()*(g.bounds.MaxY-g.bounds.MinY)
	return model.NewPoint(x, y)
}
