package websocket

import (
	"encoding/json"

	"github.com/gofiber/websocket/v2"
)

// ServeWs queues greeting (if any) as the first message, registers the
// connection, and pumps until the peer goes away.
func ServeWs(hub *Hub, conn *websocket.Conn, greeting *Message) {
	client := NewClient(hub, conn)

	if greeting != nil {
		if data, err := json.Marshal(greeting); err == nil {
			client.Send <- data
		}
	}
	hub.Register(client)

	go client.writePump()
	client.readPump()
}
