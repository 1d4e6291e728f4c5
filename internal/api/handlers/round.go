package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michael-h-patrianna/plinko-sub002/internal/game"
	"github.com/michael-h-patrianna/plinko-sub002/internal/physics"
)

type boardRequest struct {
	Width     float64 `json:"width" binding:"required"`
	Height    float64 `json:"height" binding:"required"`
	PegRows   int     `json:"peg_rows" binding:"required"`
	SlotCount int     `json:"slot_count" binding:"required"`
}

func (b boardRequest) toConfig() physics.BoardConfig {
	return physics.BoardConfig{
		Width:     b.Width,
		Height:    b.Height,
		PegRows:   b.PegRows,
		SlotCount: b.SlotCount,
	}
}

// resolveDropZone accepts either a named zone or an explicit from/to band.
func resolveDropZone(name string, from, to float64) (*physics.DropZone, bool) {
	if name != "" {
		zone, ok := physics.DropZoneByName(name)
		if !ok {
			return nil, false
		}
		return &zone, true
	}
	if from != 0 || to != 0 {
		if from < 0 || to > 1 || from >= to {
			return nil, false
		}
		return &physics.DropZone{From: from, To: to}, true
	}
	return nil, true
}

// PlayRound runs a full prize round: weighted target selection, trajectory
// search, persistence, and a signed receipt.
func PlayRound(mgr *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Board        boardRequest `json:"board" binding:"required"`
			Seed         int64        `json:"seed"`
			SlotWeights  []int        `json:"slot_weights"`
			DropZone     string       `json:"drop_zone"`
			DropZoneFrom float64      `json:"drop_zone_from"`
			DropZoneTo   float64      `json:"drop_zone_to"`
			MaxAttempts  int          `json:"max_attempts"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Board dimensions, peg rows and slot count required."})
			return
		}

		zone, ok := resolveDropZone(req.DropZone, req.DropZoneFrom, req.DropZoneTo)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown or malformed drop zone."})
			return
		}

		result, err := mgr.PlayRound(c.Request.Context(), game.RoundRequest{
			Board:       req.Board.toConfig(),
			Seed:        req.Seed,
			SlotWeights: req.SlotWeights,
			DropZone:    zone,
			MaxAttempts: req.MaxAttempts,
		})
		if err != nil {
			respondEngineError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// GetRound returns a persisted round with its full trajectory for replay.
func GetRound(mgr *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		round, err := mgr.GetRound(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Round not found."})
				return
			}
			log.Printf("[API] GetRound %s: %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load round."})
			return
		}
		c.JSON(http.StatusOK, round)
	}
}

// respondEngineError maps the engine's hard-error taxonomy onto HTTP codes.
func respondEngineError(c *gin.Context, err error) {
	var cfgErr *physics.ConfigError
	if errors.As(err, &cfgErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": cfgErr.Error()})
		return
	}
	if errors.Is(err, physics.ErrNoValidTrajectory) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Board configuration produced no valid trajectory."})
		return
	}
	log.Printf("[API] engine error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Trajectory generation failed."})
}
