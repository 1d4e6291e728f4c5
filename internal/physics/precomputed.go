package physics

// validatePrecomputed replays an externally supplied trajectory and
// independently re-derives its landing slot from the final point's x using
// the same geometry the simulator uses. A mismatch against the payload's
// claim or the requested target is annotated, never silently trusted — the
// trajectory is still returned so the caller can replay it for diagnostics.
func validatePrecomputed(b *Board, params GenerateParams) (*GenerateTrajectoryResult, error) {
	payload := params.Precomputed
	if len(payload.Points) == 0 {
		return nil, &ConfigError{Field: "precomputed", Reason: "trajectory has no points"}
	}

	traj := make([]TrajectoryPoint, len(payload.Points))
	var prev PrecomputedPoint
	for i, p := range payload.Points {
		pt := TrajectoryPoint{
			Frame:    p.Frame,
			X:        fix(p.X),
			Y:        fix(p.Y),
			Rotation: fix(p.Rotation),
		}
		if i > 0 {
			// Velocities are not on the wire; derive them for the renderer.
			pt.VX = fix((p.X - prev.X) / Dt)
			pt.VY = fix((p.Y - prev.Y) / Dt)
		}
		traj[i] = pt
		prev = p
	}

	final := payload.Points[len(payload.Points)-1]
	derived := b.SlotIndexForX(fix(final.X))

	mismatch := false
	if payload.LandingSlot != nil && *payload.LandingSlot != derived {
		mismatch = true
	}
	if params.TargetSlot != nil && *params.TargetSlot != derived {
		mismatch = true
	}

	result := &GenerateTrajectoryResult{
		Trajectory:    traj,
		LandedSlot:    derived,
		MatchedTarget: !mismatch,
		Attempts:      0,
		SlotHistogram: map[int]int{derived: 1},
		Source:        SourcePrecomputed,
	}
	if mismatch {
		result.Failure = FailureInvalidPrecomputed
	}
	return result, nil
}
