package models

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// PlinkoRound is one persisted prize-game round: the board it ran on, the
// outcome, and the full trajectory for replay and audit.
type PlinkoRound struct {
	ID         int    `db:"id" json:"id"`
	RoundToken string `db:"round_token" json:"round_token"`

	BoardWidth  float64 `db:"board_width" json:"board_width"`
	BoardHeight float64 `db:"board_height" json:"board_height"`
	PegRows     int     `db:"peg_rows" json:"peg_rows"`
	SlotCount   int     `db:"slot_count" json:"slot_count"`

	Seed          int64          `db:"seed" json:"seed"`
	TargetSlot    sql.NullInt64  `db:"target_slot" json:"target_slot,omitempty"`
	LandedSlot    int            `db:"landed_slot" json:"landed_slot"`
	MatchedTarget bool           `db:"matched_target" json:"matched_target"`
	Attempts      int            `db:"attempts" json:"attempts"`
	Source        string         `db:"source" json:"source"`
	Failure       sql.NullString `db:"failure" json:"failure,omitempty"`
	Provider      sql.NullString `db:"provider" json:"provider,omitempty"`

	Trajectory types.JSONText `db:"trajectory" json:"trajectory"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
