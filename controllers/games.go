package controllers

import (
	"fmt"
	"net/http"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Controller serves the game command/query API.
type Controller struct {
	Registry *services.Registry
	Drawer   *services.AutoDrawer
	Hub      *services.Hub

	// AllowedOrigins limits websocket watchers. Empty allows any origin.
	AllowedOrigins []string
}

func New(registry *services.Registry, drawer *services.AutoDrawer, hub *services.Hub) *Controller {
	return &Controller{Registry: registry, Drawer: drawer, Hub: hub}
}

// CreateGameRequest fields left out fall back to the configured defaults.
type CreateGameRequest struct {
	BetAmount     *decimal.Decimal `json:"betAmount"`
	HouseEdge     *decimal.Decimal `json:"houseEdge"`
	Pattern       string           `json:"pattern"`
	CustomPattern *game.Grid       `json:"customPattern"`
}

func (r CreateGameRequest) Settings(defaults services.Settings) (services.Settings, error) {
	s := defaults
	if r.BetAmount != nil {
		s.BetAmount = *r.BetAmount
	}
	if r.HouseEdge != nil {
		s.HouseEdge = *r.HouseEdge
	}
	switch {
	case r.CustomPattern != nil:
		p, err := game.CustomPattern(*r.CustomPattern)
		if err != nil {
			return s, fmt.Errorf("%w: %v", services.ErrInvalidSettings, err)
		}
		s.Pattern = p
	case r.Pattern != "":
		p, err := game.NamedPattern(r.Pattern)
		if err != nil {
			return s, fmt.Errorf("%w: %v", services.ErrInvalidSettings, err)
		}
		s.Pattern = p
	}
	return s, s.Validate()
}

// CreateGame starts a new session.
func (ctl *Controller) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	settings, err := req.Settings(ctl.Registry.Defaults())
	if err != nil {
		respondError(c, err)
		return
	}
	s, err := ctl.Registry.CreateSession(c.Request.Context(), settings, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	snap := s.Snapshot()
	c.JSON(http.StatusCreated, gin.H{"gameId": snap.GameID, "status": snap.Status})
}

// CurrentGame returns the active game, or idle when there is none.
func (ctl *Controller) CurrentGame(c *gin.Context) {
	snap, _ := ctl.Registry.Current()
	c.JSON(http.StatusOK, snap)
}

// GetGame returns the active game or a retained finished one.
func (ctl *Controller) GetGame(c *gin.Context) {
	snap, err := ctl.Registry.Lookup(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CallNumber draws the next number.
func (ctl *Controller) CallNumber(c *gin.Context) {
	s, err := ctl.Registry.Session(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := s.CallNextNumber(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *Controller) ResumeGame(c *gin.Context) {
	s, err := ctl.Registry.Session(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := s.Resume(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// EndGame ends the session and stops any auto draw for it.
func (ctl *Controller) EndGame(c *gin.Context) {
	gameID := c.Param("id")
	s, err := ctl.Registry.Session(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := s.End(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if ctl.Drawer != nil {
		ctl.Drawer.Stop(gameID)
	}
	c.JSON(http.StatusOK, snap)
}

func (ctl *Controller) StartAutoDraw(c *gin.Context) {
	gameID := c.Param("id")
	if err := ctl.Drawer.Start(gameID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gameId": gameID, "autoDraw": true})
}

func (ctl *Controller) StopAutoDraw(c *gin.Context) {
	gameID := c.Param("id")
	stopped := ctl.Drawer.Stop(gameID)
	c.JSON(http.StatusOK, gin.H{"gameId": gameID, "autoDraw": false, "stopped": stopped})
}

// Patterns lists the named winning patterns.
func (ctl *Controller) Patterns(c *gin.Context) {
	out := make([]game.Pattern, 0)
	for _, name := range game.PatternNames() {
		p, _ := game.NamedPattern(name)
		out = append(out, p)
	}
	c.JSON(http.StatusOK, out)
}
