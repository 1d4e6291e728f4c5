package physics

import "math"

// resolveCollisions turns an uncorrected step (prev → tentative) into a
// physically consistent one. At most one peg collision is resolved per frame;
// a looser second pass separately records every peg the ball visually grazes,
// decoupled from the physics. Wall and bucket contacts follow afterward on
// the corrected position.
func resolveCollisions(b *Board, st *attemptState, prev, tentative Vec2, randomness float64, rng *Rng, pt *TrajectoryPoint) {
	st.pos = tentative

	for i := range b.Pegs {
		peg := &b.Pegs[i]
		if math.Abs(peg.Y-tentative.Y) > CollisionRadius+MaxFrameDistance {
			continue
		}
		dx := tentative.X - peg.X
		dy := tentative.Y - peg.Y
		if dx*dx+dy*dy >= CollisionRadius*CollisionRadius {
			continue
		}
		// Debounce: a ball grazing along a peg surface must not register the
		// same contact again for a few frames.
		if last, ok := st.recentPegHits[i]; ok && st.frame-last <= PegDebounceFrames {
			continue
		}
		resolvePegHit(st, peg, prev, tentative, randomness, rng)
		st.recentPegHits[i] = st.frame
		pt.PegHit = true
		pt.PegHitRow = peg.Row
		pt.PegHitCol = peg.Col
		break
	}

	// Presentation pass: looser radius, every peg, no physics effect.
	for i := range b.Pegs {
		peg := &b.Pegs[i]
		if math.Abs(peg.Y-st.pos.Y) > PegGrazeRadius {
			continue
		}
		dx := st.pos.X - peg.X
		dy := st.pos.Y - peg.Y
		if dx*dx+dy*dy < PegGrazeRadius*PegGrazeRadius {
			pt.PegsHit = append(pt.PegsHit, PegRef{Row: peg.Row, Col: peg.Col})
		}
	}

	resolveWalls(b, st, pt)
	if st.pos.Y >= b.BucketZoneY {
		resolveBucket(b, st, pt)
	}
}

// resolvePegHit repositions the ball on the contact boundary and reflects its
// velocity. The contact parameter is found by bisecting the step segment,
// which both prevents tunneling at high speed and lands on the numerically
// precise first-contact point instead of wherever the discrete step ended up.
func resolvePegHit(st *attemptState, peg *Peg, prev, tentative Vec2, randomness float64, rng *Rng) {
	pegPos := Vec2{X: peg.X, Y: peg.Y}

	t := contactParameter(prev, tentative, pegPos)
	contact := lerp(prev, tentative, t)

	normal := contact.Minus(pegPos)
	if normal.IsZero() {
		// Degenerate: ball center exactly on the peg center. Eject sideways.
		normal = Vec2{X: 1, Y: 0}
	} else {
		normal = normal.Normalize()
	}

	st.pos = pegPos.Plus(normal.Times(CollisionRadius + ContactEpsilon))

	// Reflect about the contact normal, keep PegRestitution of the speed,
	// then perturb the direction by a small seeded rotation. That rotation is
	// what makes repeated attempts explore materially different outcomes from
	// similar starting positions.
	v := st.vel
	reflected := v.Minus(normal.Times(2 * v.Dot(normal)))
	reflected = reflected.Times(PegRestitution)
	jitter := (rng.Float64()*2 - 1) * randomness
	reflected = reflected.Rotate(jitter)

	st.vel = clampVelocity(reflected)
	if speed := st.vel.Magnitude(); speed < MinBounceSpeed {
		if speed == 0 {
			st.vel = Vec2{X: 0, Y: MinBounceSpeed}
		} else {
			st.vel = st.vel.Times(MinBounceSpeed / speed)
		}
	}
}

// contactParameter bisects t in [0,1] along prev→tentative for the point
// where distance to the peg first equals CollisionRadius. prev is assumed
// outside the collision radius; tentative inside.
func contactParameter(prev, tentative, pegPos Vec2) float64 {
	lo, hi := 0.0, 1.0
	for i := 0; i < 10; i++ {
		mid := (lo + hi) / 2
		p := lerp(prev, tentative, mid)
		if p.Minus(pegPos).Magnitude() > CollisionRadius {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

func resolveWalls(b *Board, st *attemptState, pt *TrajectoryPoint) {
	if st.pos.X < b.MinX {
		st.pos.X = b.MinX
		st.vel.X = fix(-st.vel.X * WallRestitution)
		pt.WallHit = "left"
	} else if st.pos.X > b.MaxX {
		st.pos.X = b.MaxX
		st.vel.X = fix(-st.vel.X * WallRestitution)
		pt.WallHit = "right"
	}
}

// resolveBucket handles divider walls and the bucket floor, with extra
// damping so the ball settles instead of bouncing forever.
func resolveBucket(b *Board, st *attemptState, pt *TrajectoryPoint) {
	half := SlotWallThickness/2 + BallRadius
	for i := 0; i < b.Config.SlotCount-1; i++ {
		d := b.DividerX(i)
		if math.Abs(st.pos.X-d) >= half {
			continue
		}
		if st.pos.X < d {
			st.pos.X = fix(d - half)
		} else {
			st.pos.X = fix(d + half)
		}
		st.vel.X = fix(-st.vel.X * BucketWallRestitution)
		pt.BucketWallHit = true
		break
	}

	if st.pos.Y+BallRadius >= b.BucketFloorY {
		st.pos.Y = fix(b.BucketFloorY - BallRadius)
		st.vel.Y = fix(-st.vel.Y * BucketFloorRestitution)
		st.vel.X = fix(st.vel.X * BucketFloorFriction)
		if math.Abs(st.vel.Y) < SettleSpeed {
			st.vel.Y = 0
		}
		pt.BucketFloorHit = true
	}

	onFloor := st.pos.Y+BallRadius >= b.BucketFloorY-1
	if onFloor && math.Abs(st.vel.X) < SettleSpeed && math.Abs(st.vel.Y) < SettleSpeed {
		st.settled = true
	}
}

// clampVelocity caps per-axis components and overall speed to realistic
// maxima.
func clampVelocity(v Vec2) Vec2 {
	if v.X > MaxVelocityComponent {
		v.X = MaxVelocityComponent
	}
	if v.X < -MaxVelocityComponent {
		v.X = -MaxVelocityComponent
	}
	if v.Y > MaxVelocityComponent {
		v.Y = MaxVelocityComponent
	}
	if v.Y < -MaxVelocityComponent {
		v.Y = -MaxVelocityComponent
	}
	if speed := v.Magnitude(); speed > MaxSpeed {
		v = v.Times(MaxSpeed / speed)
	}
	return v
}
