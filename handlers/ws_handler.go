package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	hub "github.com/nkoroleva/medtest_platform/websocket"
)

// UpgradeRequired rejects plain HTTP requests on websocket paths.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ResultsFeed streams completed attempts to moderator dashboards.
var ResultsFeed = websocket.New(func(conn *websocket.Conn) {
	token, ok := conn.Locals("user").(*jwt.Token)
	if !ok {
		conn.Close()
		return
	}
	claims := token.Claims.(jwt.MapClaims)
	rawID, _ := claims["user_id"].(string)
	workerID, err := uuid.Parse(rawID)
	if err != nil {
		conn.Close()
		return
	}

	client := &hub.Client{WorkerID: workerID, Conn: conn}
	hub.Register <- client
	defer func() {
		hub.Unregister <- client
		conn.Close()
	}()

	// Feed is one-way; the read loop only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
})
