package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/michael-h-patrianna/plinko-sub002/internal/config"
	"github.com/michael-h-patrianna/plinko-sub002/internal/physics"
)

// GenerateTrajectory gives direct access to the engine without creating a
// round: simulate for a target slot, or validate an externally supplied
// precomputed trajectory. The precomputed path requires the fairness
// provider's shared key.
func GenerateTrajectory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Board        boardRequest                   `json:"board" binding:"required"`
			Seed         int64                          `json:"seed"`
			TargetSlot   *int                           `json:"target_slot"`
			DropZone     string                         `json:"drop_zone"`
			DropZoneFrom float64                        `json:"drop_zone_from"`
			DropZoneTo   float64                        `json:"drop_zone_to"`
			MaxAttempts  int                            `json:"max_attempts"`
			Precomputed  *physics.PrecomputedTrajectory `json:"precomputed"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Board dimensions, peg rows and slot count required."})
			return
		}

		if req.Precomputed != nil && !providerAuthorized(c, cfg) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid provider key."})
			return
		}

		zone, ok := resolveDropZone(req.DropZone, req.DropZoneFrom, req.DropZoneTo)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown or malformed drop zone."})
			return
		}

		result, err := physics.GenerateTrajectory(physics.GenerateParams{
			Board:       req.Board.toConfig(),
			Seed:        req.Seed,
			TargetSlot:  req.TargetSlot,
			DropZone:    zone,
			MaxAttempts: req.MaxAttempts,
			Precomputed: req.Precomputed,
		})
		if err != nil {
			respondEngineError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// providerAuthorized checks the X-Provider-Key header against the configured
// bcrypt hash. An unset hash means the precomputed path is disabled.
func providerAuthorized(c *gin.Context, cfg *config.Config) bool {
	if cfg.ProviderKeyHash == "" {
		return false
	}
	key := c.GetHeader("X-Provider-Key")
	if key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(cfg.ProviderKeyHash), []byte(key)) == nil
}
