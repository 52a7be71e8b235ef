package services

import (
	"sync"

	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/gorilla/websocket"
)

// Client is one websocket watcher of the game.
type Client struct {
	id   string
	conn *websocket.Conn
	hub  *Hub
	send chan []byte
	once sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// readPump only drains control frames; watchers send no commands.
func (c *Client) readPump() {
	defer c.hub.remove(c)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("[Client %s] disconnected normally", c.id)
			} else {
				logger.Debugf("[Client %s] read error: %v", c.id, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debugf("[Client %s] write error: %v", c.id, err)
			return
		}
	}
}
