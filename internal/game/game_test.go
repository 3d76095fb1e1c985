package game

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/balldrop/internal/object"
	"github.com/tomz197/balldrop/internal/physics"
)

func mustGame(t *testing.T, p Preset) *Game {
	t.Helper()
	g, err := New(p, 1)
	if err != nil {
		t.Fatalf("New(%s): %v", p.Name, err)
	}
	return g
}

func mustPreset(t *testing.T, name string) Preset {
	t.Helper()
	p, err := PresetByName(name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// oneBall is the scoring game reduced to a single ball and no random goals.
func oneBall(t *testing.T) Preset {
	p := mustPreset(t, "balldrop")
	p.Balls = 1
	p.Goals = 0
	return p
}

func TestPresetByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "balldrop", false},
		{"balldrop", "balldrop", false},
		{" EARTH ", "earth", false},
		{"collide", "collide", false},
		{"pinball", "", true},
	}
	for _, tt := range tests {
		p, err := PresetByName(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownPreset) {
				t.Errorf("PresetByName(%q) error = %v, want ErrUnknownPreset", tt.name, err)
			}
			continue
		}
		if err != nil || p.Name != tt.want {
			t.Errorf("PresetByName(%q) = %q, %v; want %q", tt.name, p.Name, err, tt.want)
		}
	}

	if got := PresetNames(); !slices.Equal(got, []string{"balldrop", "collide", "earth"}) {
		t.Errorf("PresetNames() = %v", got)
	}
}

func TestPresetOverrides(t *testing.T) {
	g, e := 0.0, 1.0
	p := mustPreset(t, "earth").With(Overrides{Gravity: &g, Restitution: &e, Integrator: "rk4"})
	if p.Gravity != 0 || p.Restitution != 1 || p.Timestep != 0.05 {
		t.Errorf("overrides not applied: %+v", p)
	}
	cfg, err := p.PhysicsConfig()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cfg.Integrator.(physics.RK4); !ok {
		t.Errorf("integrator = %T, want RK4", cfg.Integrator)
	}

	bad := 1.5
	if _, err := mustPreset(t, "balldrop").With(Overrides{Restitution: &bad}).PhysicsConfig(); !errors.Is(err, physics.ErrInvalidConfig) {
		t.Errorf("restitution 1.5 accepted: %v", err)
	}
}

func TestPegRack(t *testing.T) {
	pegs := pegPositions(800)
	if len(pegs) != 57 {
		t.Fatalf("got %d pegs, want 57", len(pegs))
	}
	if pegs[0] != (mgl64.Vec2{38, 600}) || pegs[10] != (mgl64.Vec2{90, 520}) || pegs[19] != (mgl64.Vec2{38, 440}) {
		t.Errorf("row starts wrong: %v %v %v", pegs[0], pegs[10], pegs[19])
	}
	for _, p := range pegs {
		if p[1] <= PegFloorY || p[0] < 0 || p[0] > 800 {
			t.Errorf("peg %v outside the rack", p)
		}
	}
}

func TestGoalPositions(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for range 20 {
		goals := goalPositions(rng, 800, 5)
		if len(goals) != 5 {
			t.Fatalf("got %d goals", len(goals))
		}
		for i, x := range goals {
			if x < 0 || x >= 800 || math.Mod(x, GoalGridStep) != 0 {
				t.Errorf("goal x %v off the grid", x)
			}
			for _, y := range goals[:i] {
				if math.Abs(x-y) < GoalMinSpacing {
					t.Errorf("goals %v and %v closer than %v", x, y, GoalMinSpacing)
				}
			}
		}
	}
}

func TestNewScoringGame(t *testing.T) {
	g := mustGame(t, mustPreset(t, "balldrop"))

	var pegs, goals, held int
	for _, d := range g.Disks() {
		switch d.Role {
		case object.RolePeg:
			pegs++
		case object.RoleGoal:
			goals++
			if d.Position[1] != GoalY || d.Radius != GoalRadius {
				t.Errorf("goal at %v radius %v", d.Position, d.Radius)
			}
		case object.RoleHeld:
			held++
			if d.Position != (mgl64.Vec2{HeldStartX, HeldY}) {
				t.Errorf("held ball at %v", d.Position)
			}
		default:
			t.Errorf("unexpected disk %+v", d)
		}
	}
	if pegs != 57 || goals != 5 || held != 1 {
		t.Errorf("pegs=%d goals=%d held=%d", pegs, goals, held)
	}
	if g.BallsLeft() != 10 || g.MaxScore() != 5 || g.Score() != 0 || g.Over() {
		t.Errorf("balls=%d max=%d score=%d over=%v", g.BallsLeft(), g.MaxScore(), g.Score(), g.Over())
	}
}

func TestSameSeedSameLayout(t *testing.T) {
	p := mustPreset(t, "balldrop")
	a, _ := New(p, 42)
	b, _ := New(p, 42)
	if !slices.Equal(a.Bodies(), b.Bodies()) {
		t.Error("same seed produced different scenes")
	}
}

func TestMoveHeldClamps(t *testing.T) {
	g := mustGame(t, mustPreset(t, "balldrop"))

	if err := g.MoveHeld(-MoveStep); err != nil {
		t.Fatal(err)
	}
	if s := heldState(t, g); s.Position != (mgl64.Vec2{HeldStartX - MoveStep, HeldY}) {
		t.Errorf("after one step left: %v", s.Position)
	}

	_ = g.MoveHeld(-10000)
	if s := heldState(t, g); s.Position[0] != BallRadius {
		t.Errorf("left clamp: x = %v", s.Position[0])
	}
	_ = g.MoveHeldTo(10000)
	if s := heldState(t, g); s.Position[0] != 800-BallRadius {
		t.Errorf("right clamp: x = %v", s.Position[0])
	}
}

func heldState(t *testing.T, g *Game) physics.BodyState {
	t.Helper()
	s, err := g.sim.BodyState(g.held)
	if err != nil {
		t.Fatalf("held ball: %v", err)
	}
	return s
}

func TestDropHandsOutNextBall(t *testing.T) {
	g := mustGame(t, mustPreset(t, "balldrop"))
	_ = g.MoveHeldTo(123)

	if err := g.Drop(); err != nil {
		t.Fatal(err)
	}
	if g.BallsLeft() != 9 || g.InPlay() != 1 || !g.HasHeld() {
		t.Fatalf("balls=%d inPlay=%d held=%v", g.BallsLeft(), g.InPlay(), g.HasHeld())
	}

	dropped, err := g.sim.BodyState(g.LastDropped())
	if err != nil {
		t.Fatal(err)
	}
	if dropped.Mode != physics.Free || dropped.Velocity != (mgl64.Vec2{}) {
		t.Errorf("dropped ball: %+v", dropped)
	}
	if s := heldState(t, g); s.Position != (mgl64.Vec2{123, HeldY}) {
		t.Errorf("next ball at %v, want the previous x", s.Position)
	}
}

func TestDropWithoutBall(t *testing.T) {
	g := mustGame(t, oneBall(t))
	if err := g.Drop(); err != nil {
		t.Fatal(err)
	}
	if err := g.Drop(); !errors.Is(err, ErrNoHeldBall) {
		t.Errorf("second Drop() = %v, want ErrNoHeldBall", err)
	}
	if err := g.MoveHeld(1); !errors.Is(err, ErrNoHeldBall) {
		t.Errorf("MoveHeld() = %v, want ErrNoHeldBall", err)
	}
}

func TestGoalStrikeScores(t *testing.T) {
	g := mustGame(t, oneBall(t))
	if _, err := g.sim.Spawn(physics.BodySpec{
		Position: mgl64.Vec2{HeldStartX, 660},
		Mass:     GoalMass,
		Radius:   GoalRadius,
		Mode:     physics.Anchored,
		Goal:     true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := g.Drop(); err != nil {
		t.Fatal(err)
	}

	for range 100 {
		g.Tick(false)
		if g.Score() > 0 {
			break
		}
	}
	if g.Score() != 1 || g.Stats().Goals != 1 {
		t.Fatalf("score = %d, stats = %+v", g.Score(), g.Stats())
	}
	for _, d := range g.Disks() {
		if d.Role == object.RoleGoal || d.Role == object.RoleBall {
			t.Errorf("struck disk still on the field: %+v", d)
		}
	}
	if !g.Over() {
		t.Error("game not over after the last ball scored")
	}
	if r := g.Result(); r.Score != 1 || r.Dropped != 1 || r.MaxScore != 0 {
		t.Errorf("Result() = %+v", r)
	}
}

func TestBottomWallRetiresBall(t *testing.T) {
	g := mustGame(t, oneBall(t))
	_ = g.Drop()
	h := g.LastDropped()

	g.apply([]physics.CollisionEvent{{Kind: physics.WallHit, Wall: physics.WallBottom, A: h}})

	if g.sim.Contains(h) || g.Score() != 0 || g.Stats().Lost != 1 {
		t.Errorf("contains=%v score=%d stats=%+v", g.sim.Contains(h), g.Score(), g.Stats())
	}
	if !g.Over() {
		t.Error("game not over with no balls left")
	}
}

func TestFallingBallReachesFloor(t *testing.T) {
	g := mustGame(t, oneBall(t))
	// x=790 is clear of the rack all the way down.
	if err := g.MoveHeldTo(790); err != nil {
		t.Fatal(err)
	}
	if err := g.Drop(); err != nil {
		t.Fatal(err)
	}
	h := g.LastDropped()

	floorHit := false
	for range 400 {
		events, err := g.Tick(false)
		if err != nil {
			t.Fatalf("Tick: %v", err)
		}
		for _, ev := range events {
			if ev.Kind == physics.WallHit && ev.Wall == physics.WallBottom && ev.A == h {
				floorHit = true
			}
		}
		if g.Over() {
			break
		}
	}

	if !floorHit || g.sim.Contains(h) {
		t.Fatalf("ball not retired by the floor: hit=%v stats=%+v", floorHit, g.Stats())
	}
	if g.Stats().Lost != 1 || g.InPlay() != 0 || !g.Over() {
		t.Errorf("lost=%d inPlay=%d over=%v", g.Stats().Lost, g.InPlay(), g.Over())
	}
}

func TestStruckHeldBallIsReplaced(t *testing.T) {
	g := mustGame(t, mustPreset(t, "balldrop"))
	held := g.held
	goal, err := g.sim.Spawn(physics.BodySpec{Position: mgl64.Vec2{HeldStartX, 200}, Mass: GoalMass, Radius: GoalRadius, Mode: physics.Anchored, Goal: true})
	if err != nil {
		t.Fatal(err)
	}
	balls := g.BallsLeft()

	if err := g.apply([]physics.CollisionEvent{{Kind: physics.BodyHit, A: held, B: goal}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if g.sim.Contains(held) || g.sim.Contains(goal) || g.Score() != 1 {
		t.Fatalf("held=%v goal=%v score=%d", g.sim.Contains(held), g.sim.Contains(goal), g.Score())
	}
	if !g.HasHeld() || g.held == held || g.BallsLeft() != balls-1 {
		t.Errorf("hasHeld=%v balls=%d, want a new held ball and %d balls", g.HasHeld(), g.BallsLeft(), balls-1)
	}
}

func TestWallHitsOnPegsAndHeldAreIgnored(t *testing.T) {
	g := mustGame(t, mustPreset(t, "balldrop"))
	peg := g.Bodies()[0].Handle

	g.apply([]physics.CollisionEvent{
		{Kind: physics.WallHit, Wall: physics.WallBottom, A: peg},
		{Kind: physics.WallHit, Wall: physics.WallBottom, A: g.held},
		{Kind: physics.WallHit, Wall: physics.WallLeft, A: g.held},
	})
	if !g.sim.Contains(peg) || !g.HasHeld() || g.Stats().Lost != 0 || g.Stats().WallHits != 3 {
		t.Errorf("stats = %+v", g.Stats())
	}
}

func TestEventsForRetiredBodiesAreSkipped(t *testing.T) {
	g := mustGame(t, oneBall(t))
	goal, _ := g.sim.Spawn(physics.BodySpec{Position: mgl64.Vec2{100, 50}, Mass: GoalMass, Radius: GoalRadius, Mode: physics.Anchored, Goal: true})
	_ = g.Drop()
	ball := g.LastDropped()

	g.apply([]physics.CollisionEvent{
		{Kind: physics.BodyHit, A: ball, B: goal},
		{Kind: physics.WallHit, Wall: physics.WallBottom, A: ball},
		{Kind: physics.BodyHit, A: ball, B: goal},
	})
	if g.Score() != 1 || g.Stats().Lost != 0 {
		t.Errorf("score = %d, stats = %+v", g.Score(), g.Stats())
	}
}

func TestPauseAndForcedTick(t *testing.T) {
	g := mustGame(t, mustPreset(t, "balldrop"))
	_ = g.Drop()

	g.TogglePause()
	if !g.Paused() {
		t.Fatal("not paused")
	}
	before := g.Bodies()
	g.Tick(false)
	if !slices.Equal(before, g.Bodies()) || g.Stats().Steps != 0 {
		t.Error("paused tick changed the game")
	}

	g.Tick(true)
	if g.Stats().Steps != 1 || g.Time() != 0.05 {
		t.Errorf("forced tick: steps=%d time=%v", g.Stats().Steps, g.Time())
	}

	g.TogglePause()
	if g.Paused() {
		t.Error("still paused")
	}
}

func TestRestart(t *testing.T) {
	g := mustGame(t, mustPreset(t, "balldrop"))
	_ = g.Drop()
	_ = g.Drop()
	g.Tick(false)

	if err := g.Restart(); err != nil {
		t.Fatal(err)
	}
	if g.BallsLeft() != 10 || g.InPlay() != 0 || g.Stats() != (Stats{}) || g.Time() != 0 || !g.HasHeld() {
		t.Errorf("restart left state behind: balls=%d inPlay=%d stats=%+v", g.BallsLeft(), g.InPlay(), g.Stats())
	}
}

func TestCollidePresetConservesEnergy(t *testing.T) {
	g := mustGame(t, mustPreset(t, "collide"))
	if g.HasHeld() || g.Over() || g.MaxScore() != 0 {
		t.Fatalf("collide preset has game rules: held=%v over=%v", g.HasHeld(), g.Over())
	}

	energy := func() float64 {
		var e float64
		for _, s := range g.Bodies() {
			e += 0.5 * s.Mass * s.Velocity.Dot(s.Velocity)
		}
		return e
	}
	want := energy()
	for range 500 {
		g.Tick(false)
	}
	if g.Stats().BodyHits == 0 || g.Stats().WallHits == 0 {
		t.Fatalf("no collisions in 500 steps: %+v", g.Stats())
	}
	if got := energy(); math.Abs(got-want) > 1e-6*want {
		t.Errorf("kinetic energy %v, want %v", got, want)
	}
	if len(g.Bodies()) != 2 {
		t.Error("collide preset retired a body")
	}
}
