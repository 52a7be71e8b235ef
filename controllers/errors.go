package controllers

import (
	"errors"
	"net/http"

	"github.com/bellapacxx/bingo-caller/services"
	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/gin-gonic/gin"
)

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrInvalidSettings, http.StatusBadRequest, "InvalidSettings"},
	{services.ErrInvalidInput, http.StatusBadRequest, "InvalidInput"},
	{services.ErrGameNotFound, http.StatusNotFound, "GameNotFound"},
	{services.ErrPlayerNotFound, http.StatusNotFound, "NotFound"},
	{services.ErrGameInProgress, http.StatusConflict, "GameInProgress"},
	{services.ErrNoPlayers, http.StatusConflict, "NoPlayers"},
	{services.ErrInvalidState, http.StatusConflict, "InvalidState"},
	{services.ErrAlreadyDisqualified, http.StatusConflict, "AlreadyDisqualified"},
	{services.ErrAlreadyClaimed, http.StatusConflict, "AlreadyClaimed"},
	{services.ErrStaleDraw, http.StatusConflict, "StaleDraw"},
}

// respondError maps service errors to HTTP. Anything unrecognised is a 500
// with a generic message.
func respondError(c *gin.Context, err error) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": err.Error(), "code": e.code})
			return
		}
	}
	logger.Errorf("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed", "code": "OperationFailed"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "InvalidInput"})
}
