package physics

import "fmt"

// Peg is a fixed circular obstacle in the board's staggered lattice.
// The set is generated once per board configuration and shared read-only
// across all simulation attempts.
type Peg struct {
	Row int     `json:"row"`
	Col int     `json:"col"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// BoardConfig describes a plinko board. Dimensions are in the renderer's
// pixel space.
type BoardConfig struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	PegRows   int     `json:"peg_rows"`
	SlotCount int     `json:"slot_count"`
}

// ConfigError reports an unusable board or request configuration. It is the
// hard-failure side of the error taxonomy; soft failures travel as data on
// GenerateTrajectoryResult instead.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// Board holds the derived, immutable geometry for one configuration.
type Board struct {
	Config BoardConfig
	Pegs   []Peg

	SlotWidth    float64
	BucketZoneY  float64 // below this y the ball is between the buckets
	BucketFloorY float64
	MinX         float64 // leftmost legal ball-center x
	MaxX         float64
}

// Validate rejects configurations the physics cannot produce a sane
// trajectory for.
func (c BoardConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return &ConfigError{Field: "board", Reason: "dimensions must be positive"}
	}
	if c.Width < MinBoardWidth || c.Height < MinBoardHeight {
		return &ConfigError{
			Field:  "board",
			Reason: fmt.Sprintf("dimensions below usability floor (%gx%g minimum)", MinBoardWidth, MinBoardHeight),
		}
	}
	if c.PegRows < MinPegRows || c.PegRows > MaxPegRows {
		return &ConfigError{
			Field:  "peg_rows",
			Reason: fmt.Sprintf("must be in [%d,%d], got %d", MinPegRows, MaxPegRows, c.PegRows),
		}
	}
	if c.SlotCount <= 0 {
		return &ConfigError{Field: "slot_count", Reason: "must be positive"}
	}
	if c.Width/float64(c.SlotCount)-SlotWallThickness < 2*BallRadius {
		return &ConfigError{Field: "slot_count", Reason: "slots too narrow for the ball"}
	}
	return nil
}

// NewBoard validates the configuration and builds the peg lattice and bucket
// geometry.
func NewBoard(cfg BoardConfig) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Board{
		Config:       cfg,
		Pegs:         generatePegLayout(cfg),
		SlotWidth:    cfg.Width / float64(cfg.SlotCount),
		BucketZoneY:  cfg.Height * BucketZoneRatio,
		BucketFloorY: cfg.Height,
		MinX:         BorderWidth + BallRadius,
		MaxX:         cfg.Width - BorderWidth - BallRadius,
	}
	return b, nil
}

// generatePegLayout places pegs on a staggered triangular lattice. Rows
// alternate between PegColumns+1 and PegColumns pegs; the half-spacing offset
// on odd rows is what forces the ball to keep choosing a side. Side clearance
// keeps the outermost pegs at least one ball diameter off the walls.
func generatePegLayout(cfg BoardConfig) []Peg {
	clearance := BorderWidth + PegRadius + 2*BallRadius
	hSpacing := (cfg.Width - 2*clearance) / float64(PegColumns)
	vSpacing := PegFieldHeightRatio * cfg.Height / float64(cfg.PegRows+1)
	topY := PegTopRatio * cfg.Height

	pegs := make([]Peg, 0, cfg.PegRows*(PegColumns+1))
	for row := 0; row < cfg.PegRows; row++ {
		y := fix(topY + vSpacing*float64(row))
		if row%2 == 0 {
			for col := 0; col <= PegColumns; col++ {
				pegs = append(pegs, Peg{
					Row: row, Col: col,
					X: fix(clearance + hSpacing*float64(col)),
					Y: y,
				})
			}
		} else {
			for col := 0; col < PegColumns; col++ {
				pegs = append(pegs, Peg{
					Row: row, Col: col,
					X: fix(clearance + hSpacing/2 + hSpacing*float64(col)),
					Y: y,
				})
			}
		}
	}
	return pegs
}

// SlotBoundaries returns the inner left/right edge of a slot, inside its
// divider walls.
func (b *Board) SlotBoundaries(slot int) (leftEdge, rightEdge float64) {
	leftEdge = fix(float64(slot)*b.SlotWidth + SlotWallThickness/2)
	rightEdge = fix(float64(slot+1)*b.SlotWidth - SlotWallThickness/2)
	return leftEdge, rightEdge
}

// SlotIndexForX maps an x position to a slot index, clamped into
// [0, SlotCount-1]. This is the single source of truth for "which slot did
// this trajectory land in" — the precomputed-path validator uses it too.
func (b *Board) SlotIndexForX(x float64) int {
	idx := int(x / b.SlotWidth)
	if idx < 0 {
		idx = 0
	}
	if idx >= b.Config.SlotCount {
		idx = b.Config.SlotCount - 1
	}
	return idx
}

// DividerX returns the center x of the divider wall right of slot i,
// for i in [0, SlotCount-2].
func (b *Board) DividerX(i int) float64 {
	return fix(float64(i+1) * b.SlotWidth)
}
