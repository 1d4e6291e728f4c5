package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/michael-h-patrianna/plinko-sub002/internal/game"
	"github.com/michael-h-patrianna/plinko-sub002/internal/ws"
)

// HandleRoundWebSocket upgrades the connection and streams the round's
// trajectory playback to the renderer.
func HandleRoundWebSocket(hub *ws.Hub, mgr *game.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServePlayback(c.Writer, c.Request, mgr, c.Param("token"))
	}
}
