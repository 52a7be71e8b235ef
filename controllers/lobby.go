package controllers

import (
	"net/http"

	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func (ctl *Controller) checkOrigin(r *http.Request) bool {
	if len(ctl.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range ctl.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// WatchGame streams game snapshots over a websocket.
func (ctl *Controller) WatchGame(c *gin.Context) {
	upgrader := websocket.Upgrader{CheckOrigin: ctl.checkOrigin}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("[WS] upgrade error: %v", err)
		return
	}
	if snap, err := ctl.Registry.Current(); err == nil {
		ctl.Hub.Join(conn, &snap)
		return
	}
	ctl.Hub.Join(conn, nil)
}
