package physics

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// contact is the far side of a disk-disk collision test.
type contact struct {
	pos     mgl64.Vec2
	vel     mgl64.Vec2
	radius  float64
	invMass float64
}

// contactNormal returns the unit vector from q towards p when the disks
// (p, rp) and (q, rq) touch or overlap. Coincident centres have no defined
// normal and report no contact.
func contactNormal(p mgl64.Vec2, rp float64, q mgl64.Vec2, rq float64) (mgl64.Vec2, bool) {
	dist := Distance(p, q)
	if dist > rp+rq || dist == 0 {
		return mgl64.Vec2{}, false
	}
	// Divide per component so axis-aligned normals come out exactly unit.
	d := p.Sub(q)
	return mgl64.Vec2{d[0] / dist, d[1] / dist}, true
}

// impulse computes the velocity changes for a contact between a and c with
// restitution e. It reports false when the pair is not touching, is already
// separating along the normal, or cannot exchange momentum at all.
func impulse(a *Body, c contact, e float64) (dva, dvc mgl64.Vec2, ok bool) {
	n, touching := contactNormal(a.pos, a.radius, c.pos, c.radius)
	if !touching {
		return dva, dvc, false
	}
	return exchange(n, a.vel.Sub(c.vel).Dot(n), a.inverseMass(), c.invMass, e)
}

// exchange splits the impulse J = -(1+e) vn / k along the normal n between
// two sides with inverse masses invA and invC. Only approaching pairs
// (vn < 0) with a finite combined mass resolve.
func exchange(n mgl64.Vec2, vn, invA, invC, e float64) (dva, dvc mgl64.Vec2, ok bool) {
	if vn >= 0 {
		return dva, dvc, false
	}
	k := invA + invC
	if k == 0 {
		return dva, dvc, false
	}
	j := -(1 + e) * vn
	dva = n.Mul(j * (invA / k))
	dvc = n.Mul(-j * (invC / k))
	return dva, dvc, true
}

// wallGap returns the signed distance from p to wall w, positive inside a
// width x height field, and the wall's inward unit normal.
func wallGap(w Wall, p mgl64.Vec2, width, height float64) (float64, mgl64.Vec2) {
	switch w {
	case WallLeft:
		return p[0], mgl64.Vec2{1, 0}
	case WallRight:
		return width - p[0], mgl64.Vec2{-1, 0}
	case WallTop:
		return height - p[1], mgl64.Vec2{0, -1}
	default:
		return p[1], mgl64.Vec2{0, 1}
	}
}

// collideWall tests body b against wall w and applies the impulse on contact.
// A body touching the wall or with its centre on or past it is in contact;
// the normal always points into the field.
func (s *Simulation) collideWall(b *Body, w Wall) bool {
	gap, n := wallGap(w, b.pos, s.cfg.Width, s.cfg.Height)
	if gap > b.radius {
		return false
	}
	dv, _, ok := exchange(n, b.vel.Dot(n), b.inverseMass(), 0, s.cfg.Restitution)
	if !ok {
		return false
	}
	b.setVelocity(b.vel.Add(dv))
	return true
}

// collideBodies tests a against b and applies equal and opposite impulses on contact.
func (s *Simulation) collideBodies(a, b *Body) bool {
	c := contact{pos: b.pos, vel: b.vel, radius: b.radius, invMass: b.inverseMass()}
	dva, dvb, ok := impulse(a, c, s.cfg.Restitution)
	if !ok {
		return false
	}
	if a.mode != Anchored {
		a.setVelocity(a.vel.Add(dva))
	}
	if b.mode != Anchored {
		b.setVelocity(b.vel.Add(dvb))
	}
	return true
}

// collisionPass resolves wall and disk contacts in index order. Every wall
// is tested for every body; each body resolves at most one disk contact,
// the one with the lowest partner index above its own.
func (s *Simulation) collisionPass(events []CollisionEvent) []CollisionEvent {
	s.rebuildGrid()

	for i, bi := range s.bodies {
		for _, w := range walls {
			if s.collideWall(bi, w) {
				events = append(events, CollisionEvent{Kind: WallHit, Wall: w, A: bi.handle})
			}
		}

		for _, j := range s.candidates(i) {
			bj := s.bodies[j]
			if s.collideBodies(bi, bj) {
				events = append(events, CollisionEvent{Kind: BodyHit, A: bi.handle, B: bj.handle})
				break
			}
		}
	}
	return events
}

// rebuildGrid re-buckets every body. Positions do not change during the
// collision pass, so one build serves the whole pass.
func (s *Simulation) rebuildGrid() {
	cell := gridCellSize(s.cfg.Width, s.cfg.Height, s.maxRadius)
	if s.grid == nil {
		s.grid = NewSpatialGrid(s.cfg.Width, s.cfg.Height, cell)
	} else if cell != s.grid.CellSize() {
		s.grid.Reset(s.cfg.Width, s.cfg.Height, cell)
	} else {
		s.grid.Clear()
	}
	for i, b := range s.bodies {
		s.grid.Insert(b.pos[0], b.pos[1], i)
	}
}

// candidates returns the indices j > i near body i in ascending order.
// The returned slice is reused by the next call.
func (s *Simulation) candidates(i int) []int {
	s.scratch = s.scratch[:0]
	p := s.bodies[i].pos
	s.grid.QueryAround(p[0], p[1], func(j int) bool {
		if j > i {
			s.scratch = append(s.scratch, j)
		}
		return false
	})
	slices.Sort(s.scratch)
	return s.scratch
}
