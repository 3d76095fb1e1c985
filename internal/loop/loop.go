// Package loop wires configuration into terminal sessions and runs local play.
package loop

import (
	"io"
	"time"

	"github.com/tomz197/balldrop/internal/config"
	"github.com/tomz197/balldrop/internal/game"
	"github.com/tomz197/balldrop/internal/loop/client"
)

// SessionOptions resolves the preset, parameter overrides and seed for a
// new session. Without a configured seed every session gets its own layout.
func SessionOptions(cfg *config.Config) (client.ClientOptions, error) {
	p, err := game.PresetByName(cfg.Preset)
	if err != nil {
		return client.ClientOptions{}, err
	}
	p = p.With(game.Overrides{
		Gravity:     cfg.Gravity,
		Restitution: cfg.Restitution,
		Timestep:    cfg.Timestep,
		Integrator:  cfg.Integrator,
	})
	if _, err := p.PhysicsConfig(); err != nil {
		return client.ClientOptions{}, err
	}

	seed := uint64(time.Now().UnixNano())
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	return client.ClientOptions{Preset: p, Seed: seed}, nil
}

// Run plays one local game in the terminal behind r and w until the player quits.
func Run(r io.ByteReader, w io.Writer, opts client.ClientOptions) error {
	c, err := client.NewClient(nil, r, w, opts)
	if err != nil {
		return err
	}
	return c.Run()
}
