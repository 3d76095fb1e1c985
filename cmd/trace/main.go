package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tomz197/balldrop/internal/config"
	"github.com/tomz197/balldrop/internal/game"
	"github.com/tomz197/balldrop/internal/trace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stderr, cfg.LogLevel, "trace")

	seed := uint64(1)
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	presetName := flag.String("preset", cfg.Preset, "preset to play: "+strings.Join(game.PresetNames(), ", "))
	steps := flag.Int("steps", 2000, "maximum number of ticks")
	drops := flag.String("drops", "", "comma-separated x positions to drop balls at, cycled")
	seedFlag := flag.Uint64("seed", seed, "seed for the goal layout")
	integrator := flag.String("integrator", cfg.Integrator, "kinematic or rk4")
	flag.Parse()

	p, err := game.PresetByName(*presetName)
	if err != nil {
		logger.Fatal("preset", "err", err)
	}
	p = p.With(game.Overrides{
		Gravity:     cfg.Gravity,
		Restitution: cfg.Restitution,
		Timestep:    cfg.Timestep,
		Integrator:  *integrator,
	})

	xs, err := parseDrops(*drops)
	if err != nil {
		logger.Fatal("drops", "err", err)
	}

	logger.Debug("running", "preset", p.Name, "steps", *steps, "drops", xs, "seed", *seedFlag)
	report, err := trace.Run(p, trace.Options{Steps: *steps, Drops: xs, Seed: *seedFlag})
	if err != nil {
		logger.Fatal("run", "err", err)
	}
	if err := report.Render(os.Stdout); err != nil {
		logger.Fatal("render", "err", err)
	}
}

func parseDrops(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	xs := make([]float64, 0, len(parts))
	for _, part := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("drop %q: %w", part, err)
		}
		xs = append(xs, x)
	}
	return xs, nil
}
