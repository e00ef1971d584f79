package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"fleetsim/config"
)

var (
	fleetSize int
	fleetSeed uint64
	fleetOut  string
	lazyPct   float64
	earnPct   float64
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Generate a randomized fleet configuration fragment",
	RunE:  generateFleet,
}

func init() {
	rootCmd.AddCommand(fleetCmd)
	fleetCmd.Flags().IntVar(&fleetSize, "size", 10, "number of drivers")
	fleetCmd.Flags().Uint64Var(&fleetSeed, "seed", 1, "random seed")
	fleetCmd.Flags().StringVarP(&fleetOut, "out", "o", "", "output file (default stdout)")
	fleetCmd.Flags().Float64Var(&lazyPct, "lazy-pct", 0.2, "fraction of lazy drivers")
	fleetCmd.Flags().Float64Var(&earnPct, "earnings-pct", 0.3, "fraction of earnings-max drivers")
}

func generateFleet(cmd *cobra.Command, args []string) error {
	if fleetSize <= 0 {
		return fmt.Errorf("fleet size must be positive")
	}
	rng := rand.New(rand.NewSource(fleetSeed))
	drivers := make([]config.DriverConfig, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		kind := "greedy_distance"
		switch roll := rng.Float64(); {
		case roll < lazyPct:
			kind = "lazy"
		case roll < lazyPct+earnPct:
			kind = "earnings_max"
		}
		drivers = append(drivers, config.DriverConfig{
			ID:        i + 1,
			X:         rng.Float64() * 100,
			Y:         rng.Float64() * 100,
			Speed:     0.5 + rng.Float64()*1.5,
			Behaviour: config.BehaviourConfig{Kind: kind},
		})
	}

	out := os.Stdout
	if fleetOut != "" {
		f, err := os.Create(fleetOut)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"drivers": drivers})
}
