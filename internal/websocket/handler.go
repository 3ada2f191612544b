package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"HoldemServer/internal/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws  (需带 JWT，middleware 已在 main.go 中加入)
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := c.GetString("player_id") // JWT middleware 注入
		sessionID := c.GetString("session_id")
		if playerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.Log.Warn("websocket upgrade failed", "player", playerID, "err", err)
			return
		}

		client := &Client{
			PlayerID:  playerID,
			SessionID: sessionID,
			Conn:      conn,
			Send:      make(chan OutgoingMessage, 32),
			Hub:       hub,
		}

		hub.Register(client)

		go client.writePump()
		go client.readPump()
	}
}
