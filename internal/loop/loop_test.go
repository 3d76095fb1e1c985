package loop

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tomz197/balldrop/internal/config"
	"github.com/tomz197/balldrop/internal/game"
	"github.com/tomz197/balldrop/internal/physics"
)

func TestSessionOptions(t *testing.T) {
	g, seed := 0.5, uint64(12)
	opts, err := SessionOptions(&config.Config{Preset: "earth", Gravity: &g, Integrator: "rk4", Seed: &seed})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Preset.Name != "earth" || opts.Preset.Gravity != 0.5 || opts.Preset.Integrator != "rk4" || opts.Seed != 12 {
		t.Errorf("opts = %+v", opts)
	}
}

func TestSessionOptionsErrors(t *testing.T) {
	if _, err := SessionOptions(&config.Config{Preset: "pinball"}); !errors.Is(err, game.ErrUnknownPreset) {
		t.Errorf("unknown preset: %v", err)
	}
	dt := -1.0
	if _, err := SessionOptions(&config.Config{Preset: "balldrop", Timestep: &dt}); !errors.Is(err, physics.ErrInvalidConfig) {
		t.Errorf("negative timestep: %v", err)
	}
	if _, err := SessionOptions(&config.Config{Integrator: "euler"}); !errors.Is(err, physics.ErrInvalidConfig) {
		t.Errorf("unknown integrator: %v", err)
	}
}

func TestRunEndsWithInput(t *testing.T) {
	opts, err := SessionOptions(&config.Config{Preset: "collide"})
	if err != nil {
		t.Fatal(err)
	}
	opts.TermSizeFunc = func() (int, int, error) { return 80, 30, nil }

	var out bytes.Buffer
	if err := Run(bytes.NewReader([]byte("q")), &out, opts); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out.String(), "\033[H\033[2J\033[?25h") {
		t.Errorf("exit did not clear the screen and restore the cursor: %q", out.String()[max(out.Len()-40, 0):])
	}
}
