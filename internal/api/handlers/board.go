package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/michael-h-patrianna/plinko-sub002/internal/physics"
)

// BoardPreview returns peg coordinates and slot boundaries for a board
// configuration so the renderer can draw the board without duplicating the
// geometry math.
func BoardPreview(c *gin.Context) {
	cfg := physics.BoardConfig{
		Width:     queryFloat(c, "width", 375),
		Height:    queryFloat(c, "height", 500),
		PegRows:   queryInt(c, "peg_rows", 10),
		SlotCount: queryInt(c, "slot_count", 6),
	}

	board, err := physics.NewBoard(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	type slotRange struct {
		LeftEdge  float64 `json:"left_edge"`
		RightEdge float64 `json:"right_edge"`
	}
	slots := make([]slotRange, cfg.SlotCount)
	for i := range slots {
		left, right := board.SlotBoundaries(i)
		slots[i] = slotRange{LeftEdge: left, RightEdge: right}
	}

	c.JSON(http.StatusOK, gin.H{
		"board":         cfg,
		"pegs":          board.Pegs,
		"slots":         slots,
		"bucket_zone_y": board.BucketZoneY,
		"ball_radius":   physics.BallRadius,
		"peg_radius":    physics.PegRadius,
	})
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	if v := c.Query(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
