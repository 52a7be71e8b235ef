package routes

import (
	"net/http"
	"time"

	"github.com/bellapacxx/bingo-caller/controllers"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, ctl *controllers.Controller) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})
	r.GET("/ws/game", ctl.WatchGame)

	api := r.Group("/api")

	// ----------------------
	// Queries
	// ----------------------
	api.GET("/patterns", ctl.Patterns)
	api.GET("/games/current", ctl.CurrentGame)
	api.GET("/games/:id", ctl.GetGame)
	api.GET("/games/:id/transactions", ctl.GameTransactions)

	// ----------------------
	// Commands (caller identity required)
	// ----------------------
	cmd := api.Group("", controllers.CallerIdentity())
	cmd.POST("/games", ctl.CreateGame)
	cmd.POST("/tickets", ctl.ActivateTickets)
	cmd.DELETE("/games/:id/players/:slip", ctl.RemovePlayer)
	cmd.POST("/games/:id/players/:slip/disqualify", ctl.DisqualifyPlayer)
	cmd.POST("/games/:id/draw", ctl.CallNumber)
	cmd.POST("/games/:id/claims", ctl.VerifyClaim)
	cmd.POST("/games/:id/resume", ctl.ResumeGame)
	cmd.POST("/games/:id/end", ctl.EndGame)
	cmd.POST("/games/:id/autodraw", ctl.StartAutoDraw)
	cmd.DELETE("/games/:id/autodraw", ctl.StopAutoDraw)

	cmd.POST("/deposit", ctl.Deposit)
	cmd.POST("/withdraw", ctl.Withdraw)
}
