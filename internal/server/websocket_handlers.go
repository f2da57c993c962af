package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler upgrades the connection and runs the subscription
// handshake. The client presents either a single-use ticket (browsers) or a
// session token as a query parameter; authentication failure is terminal.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		credential := conn.Query("ticket")
		if credential == "" {
			credential = conn.Query("token")
		}
		if credential == "" {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"credential required"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(ctx, conn, credential)
		if err != nil {
			log.Printf("WebSocket: registration rejected: %v", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()

		// Read pump runs in the handler goroutine and unregisters on exit.
		client.ReadPump()
	})
}
