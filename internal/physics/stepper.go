package physics

import "math"

// attemptState is the per-attempt mutable state, constructed fresh for every
// attempt so attempts stay independent and the search loop could fan out
// across goroutines without shared state.
type attemptState struct {
	pos      Vec2
	vel      Vec2
	rotation float64
	frame    int

	recentPegHits map[int]int // peg index -> frame of last resolved contact
	stuckFrames   int
	lastY         float64
	settled       bool
	reachedBucket bool
}

func newAttemptState(params SimulationParams, startY float64) *attemptState {
	return &attemptState{
		pos:           NewVec2(params.StartX, startY),
		vel:           NewVec2(params.StartVX, 0),
		recentPegHits: make(map[int]int, 8),
		lastY:         startY,
	}
}

// simulateAttempt runs one full attempt: integrate, collide, cap, settle.
// The trajectory begins with RestFrames motionless frames so the renderer has
// a pause before the drop.
func simulateAttempt(b *Board, params SimulationParams, rng *Rng) SimulationOutcome {
	startY := BallRadius * 2
	st := newAttemptState(params, startY)

	traj := make([]TrajectoryPoint, 0, 256)
	for i := 0; i < RestFrames; i++ {
		traj = append(traj, TrajectoryPoint{Frame: i, X: st.pos.X, Y: st.pos.Y})
	}

	for frame := RestFrames; frame < MaxFrames; frame++ {
		st.frame = frame
		prev := st.pos

		st.vel.Y = fix(st.vel.Y + Gravity*Dt)
		if st.vel.Y > TerminalVelocity {
			st.vel.Y = TerminalVelocity
		}
		st.vel.X = fix(st.vel.X * HorizontalDrag)

		tentative := st.pos.Plus(st.vel.Times(Dt))

		pt := TrajectoryPoint{Frame: frame}
		resolveCollisions(b, st, prev, tentative, params.BounceRandomness, rng, &pt)
		st.evictStaleHits()

		clampFrameDistance(st, prev)

		st.rotation = fix(st.rotation + st.vel.X*Dt/BallRadius)

		pt.X = st.pos.X
		pt.Y = st.pos.Y
		pt.VX = st.vel.X
		pt.VY = st.vel.Y
		pt.Rotation = st.rotation
		traj = append(traj, pt)

		if st.trackProgress(b.BucketZoneY) {
			// Stalled above the buckets; abort the run.
			return SimulationOutcome{Trajectory: traj, LandedSlot: -1}
		}

		if st.settled {
			break
		}
	}

	return st.outcome(b, traj)
}

// trackProgress updates the stall counter from the ball's vertical movement
// since the previous frame and reports whether the run has stalled. Inside the
// bucket zone a ball rattles between dividers without descending, so stall
// tracking only applies above it.
func (st *attemptState) trackProgress(bucketZoneY float64) bool {
	if st.pos.Y >= bucketZoneY {
		st.reachedBucket = true
		st.stuckFrames = 0
	} else if st.pos.Y-st.lastY < StuckProgressMin {
		st.stuckFrames++
	} else {
		st.stuckFrames = 0
	}
	st.lastY = st.pos.Y
	return st.stuckFrames > StuckFrameLimit
}

// outcome classifies a finished run. A ball that never reached the bucket
// zone has no landing slot; otherwise the slot follows from the final x.
func (st *attemptState) outcome(b *Board, traj []TrajectoryPoint) SimulationOutcome {
	if !st.reachedBucket {
		return SimulationOutcome{Trajectory: traj, LandedSlot: -1}
	}
	return SimulationOutcome{
		Trajectory: traj,
		LandedSlot: b.SlotIndexForX(st.pos.X),
	}
}

// clampFrameDistance rescales any displacement beyond MaxFrameDistance back
// toward the frame's start position. Collision resolution already prevents
// tunneling; this is the safety net against residual numerical overshoot.
func clampFrameDistance(st *attemptState, prev Vec2) {
	step := st.pos.Minus(prev)
	dist := step.Magnitude()
	if dist > MaxFrameDistance {
		st.pos = prev.Plus(step.Times(MaxFrameDistance / dist))
	}
}

// evictStaleHits drops debounce entries older than the window so the map
// stays a handful of entries no matter how long the run gets.
func (st *attemptState) evictStaleHits() {
	for peg, frame := range st.recentPegHits {
		if st.frame-frame > PegDebounceFrames {
			delete(st.recentPegHits, peg)
		}
	}
}

// clampStartX keeps a perturbed start position on the board.
func clampStartX(b *Board, x float64) float64 {
	return math.Min(math.Max(x, b.MinX), b.MaxX)
}
