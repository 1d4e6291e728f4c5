package physics

// Simulation and board tuning for the plinko engine.
// These MUST match the constants in frontend/src/game/plinko/constants.ts exactly,
// otherwise server trajectories drift from what the client renders.

const (
	FrameRate = 60.0
	Dt        = 1.0 / FrameRate

	BallRadius = 7.0
	PegRadius  = 5.0

	// CollisionRadius is the center-to-center distance at which a ball
	// contacts a peg.
	CollisionRadius = BallRadius + PegRadius

	BorderWidth = 10.0

	Gravity          = 980.0 // px/s^2
	TerminalVelocity = 600.0 // px/s, vertical
	HorizontalDrag   = 0.985 // per-frame vx multiplier

	PegRestitution         = 0.75
	WallRestitution        = 0.7
	BucketWallRestitution  = 0.5
	BucketFloorRestitution = 0.3
	BucketFloorFriction    = 0.8

	MaxVelocityComponent = 600.0
	MaxSpeed             = 800.0
	MinBounceSpeed       = 60.0

	// MaxFrameDistance bounds per-frame displacement. Anything larger is a
	// numerical fault; the step gets rescaled back toward the frame start.
	MaxFrameDistance = 15.0

	MaxFrames  = 800
	RestFrames = 8 // motionless lead-in frames for presentation pacing

	PegDebounceFrames = 10
	PegGrazeRadius    = CollisionRadius * 1.3

	StuckProgressMin = 0.35 // minimum downward px per frame above the buckets
	StuckFrameLimit  = 60

	SettleSpeed    = 5.0
	ContactEpsilon = 0.01

	// Board layout. Peg columns are fixed regardless of slot count so peg
	// density looks the same across prize configurations.
	PegColumns          = 9
	PegFieldHeightRatio = 0.65
	PegTopRatio         = 0.12
	BucketZoneRatio     = 0.82
	SlotWallThickness   = 4.0

	MinBoardWidth  = 200.0
	MinBoardHeight = 280.0
	MinPegRows     = 3
	MaxPegRows     = 20

	DefaultMaxAttempts = 50000
)
