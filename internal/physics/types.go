package physics

import "errors"

// PegRef identifies a peg by lattice position.
type PegRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// TrajectoryPoint is one frame of ball state. The sequence is append-only;
// the renderer consumes it read-only, in frame order.
type TrajectoryPoint struct {
	Frame    int     `json:"frame"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	Rotation float64 `json:"rotation"`

	PegHit    bool `json:"peg_hit"`
	PegHitRow int  `json:"peg_hit_row,omitempty"`
	PegHitCol int  `json:"peg_hit_col,omitempty"`

	// PegsHit lists every peg the ball visually touches this frame (looser
	// radius than the physics contact), for spark/sound presentation.
	PegsHit []PegRef `json:"pegs_hit,omitempty"`

	WallHit        string `json:"wall_hit,omitempty"` // "left" or "right"
	BucketWallHit  bool   `json:"bucket_wall_hit,omitempty"`
	BucketFloorHit bool   `json:"bucket_floor_hit,omitempty"`
}

// SimulationParams are the initial conditions of one attempt. The search
// engine steers the ball purely by varying these; nothing touches the ball
// mid-flight.
type SimulationParams struct {
	StartX           float64
	StartVX          float64
	BounceRandomness float64
}

// SimulationOutcome is the result of one full attempt. LandedSlot -1 marks an
// invalid run (stuck, or never reached the bucket zone).
type SimulationOutcome struct {
	Trajectory []TrajectoryPoint
	LandedSlot int
}

// DropZone is a horizontal band of starting x positions, expressed as
// fractions of board width.
type DropZone struct {
	Name string  `json:"name,omitempty"`
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

var namedDropZones = map[string]DropZone{
	"left":   {Name: "left", From: 0.12, To: 0.38},
	"center": {Name: "center", From: 0.40, To: 0.60},
	"right":  {Name: "right", From: 0.62, To: 0.88},
}

// DropZoneByName resolves a player-selectable drop zone.
func DropZoneByName(name string) (DropZone, bool) {
	z, ok := namedDropZones[name]
	return z, ok
}

// PrecomputedPoint is one frame of an externally produced trajectory.
type PrecomputedPoint struct {
	Frame    int     `json:"frame"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// PrecomputedTrajectory is an already-decided trajectory emitted by a remote
// fairness authority. The engine only validates and replays it, never trusts
// its claimed landing slot without re-deriving it.
type PrecomputedTrajectory struct {
	Points      []PrecomputedPoint `json:"points"`
	LandingSlot *int               `json:"landing_slot,omitempty"`
	Seed        *int64             `json:"seed,omitempty"`
	Provider    string             `json:"provider,omitempty"`
}

// GenerateParams is the engine's single entry-point input.
type GenerateParams struct {
	Board       BoardConfig
	Seed        int64
	TargetSlot  *int
	DropZone    *DropZone
	MaxAttempts int // 0 means DefaultMaxAttempts
	Precomputed *PrecomputedTrajectory
}

// Result sources and soft-failure annotations.
const (
	SourceSimulated   = "simulated"
	SourcePrecomputed = "precomputed"

	FailureMaxAttempts        = "max-attempts-exceeded"
	FailureInvalidPrecomputed = "invalid-precomputed-path"
)

// GenerateTrajectoryResult is the engine's public output. Soft failures are
// carried in Failure rather than returned as errors; hard errors are reserved
// for configuration problems and total search failure.
type GenerateTrajectoryResult struct {
	Trajectory    []TrajectoryPoint `json:"trajectory"`
	LandedSlot    int               `json:"landed_slot"`
	MatchedTarget bool              `json:"matched_target"`
	Attempts      int               `json:"attempts"`
	SlotHistogram map[int]int       `json:"slot_histogram"`
	Failure       string            `json:"failure,omitempty"`
	Source        string            `json:"source"`
}

// ErrNoValidTrajectory is returned when not a single attempt produced a valid
// landing — a geometrically broken configuration.
var ErrNoValidTrajectory = errors.New("no attempt produced a valid trajectory")
