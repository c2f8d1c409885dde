package message

import (
	"log"

	"github.com/daffawrdhn/ladder-snake/pkg/structs"
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/websocket"
)

// Send marshals v with go-json and writes it to the client as one text
// frame. The client's write lock keeps frames from concurrent senders
// (lobby broadcasts, room timers) from interleaving.
func Send(client *structs.Client, v any) error {
	if client == nil {
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	client.Mux.Lock()
	defer client.Mux.Unlock()
	return client.Conn.WriteMessage(websocket.TextMessage, raw)
}

// Sender binds Send to one client, in the shape room seats expect.
func Sender(client *structs.Client) func(v any) error {
	return func(v any) error {
		return Send(client, v)
	}
}

// Broadcast sends v to every client, logging failures instead of
// propagating them. Game logic never blocks on a slow or dead socket.
func Broadcast(clients []*structs.Client, v any) {
	for _, client := range clients {
		if err := Send(client, v); err != nil {
			log.Printf("Broadcast to %s error: %s", client.ID, err)
		}
	}
}
