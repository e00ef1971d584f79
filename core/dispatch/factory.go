package dispatch

import "fmt"

// New returns the policy registered under the given name.
func New(name string) (Policy, error) {
	switch name {
	case "nearest_neighbor":
		return NearestNeighbor{}, nil
	case "global_greedy":
		return GlobalGreedy{}, nil
	case "adaptive_hybrid":
		return NewAdaptiveHybrid(), nil
	default:
		return nil, fmt.Errorf("dispatch: unknown policy %q", name)
	}
}
