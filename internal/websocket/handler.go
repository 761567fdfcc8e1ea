package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches conn to the feed of postID and blocks until it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, postID uuid.UUID) {
	client := &Client{Hub: hub, Conn: conn, PostID: postID, Send: make(chan []byte, sendBuffer)}
	hub.register(client)

	go client.writePump()
	client.readPump()
}
