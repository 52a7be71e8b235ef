package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ActivateTicketsRequest struct {
	GameID  string   `json:"gameId"`
	SlipIDs []string `json:"slipIds" binding:"required,min=1,dive,required"`
}

type ClaimRequest struct {
	SlipID string `json:"slipId" binding:"required"`
}

// ActivateTickets adds slips to a game. Without gameId it targets the open
// game, creating one from defaults when auto-create is enabled.
func (ctl *Controller) ActivateTickets(c *gin.Context) {
	var req ActivateTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, players, err := ctl.Registry.ActivateTickets(c.Request.Context(), req.GameID, callerID(c), req.SlipIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gameId": s.ID(), "players": players})
}

func (ctl *Controller) RemovePlayer(c *gin.Context) {
	s, err := ctl.Registry.Session(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	players, err := s.RemovePlayer(c.Request.Context(), c.Param("slip"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gameId": s.ID(), "players": players})
}

// VerifyClaim answers 200 for both winning and non-winning claims.
func (ctl *Controller) VerifyClaim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := ctl.Registry.Session(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := s.VerifyClaim(c.Request.Context(), req.SlipID)
	if err != nil {
		respondError(c, err)
		return
	}
	if res.IsWinner && ctl.Drawer != nil {
		ctl.Drawer.Stop(s.ID())
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *Controller) DisqualifyPlayer(c *gin.Context) {
	s, err := ctl.Registry.Session(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	player, err := s.DisqualifyPlayer(c.Request.Context(), c.Param("slip"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}
