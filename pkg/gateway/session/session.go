package session

import (
	"log"
	"sync"

	"github.com/daffawrdhn/ladder-snake/pkg/gateway/handlers"
	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
	"github.com/gofiber/contrib/websocket"
	"github.com/oklog/ulid/v2"
)

// Open creates a new client session on the server. The connection gets a
// ULID identifier plus a process-lifetime sequence number the player label
// is later derived from. The client is registered but joins the waiting
// pool only once it sets a nickname.
func Open(s *structs.Server, conn *websocket.Conn) *structs.Client {
	s.Mux.Lock()
	s.WebsocketConnCounter++
	seq := s.WebsocketConnCounter
	s.Mux.Unlock()

	client := &structs.Client{
		Conn: conn,
		ID:   ulid.Make().String(),
		Seq:  seq,
		Mux:  &sync.RWMutex{},
	}

	if err := manager.CreateSession(s, client); err != nil {
		log.Printf("Registering session %s error: %s", client.ID, err)
	}

	log.Printf("Created new session %s (websocket ID %d)", client.ID, client.Seq)
	return client
}

// Close terminates a client's session. A match the client was committed to
// is aborted with the remaining players notified, an invite the client
// hosted is cancelled with its targets notified, and the waiting pool is
// re-broadcast without them.
func Close(s *structs.Server, client *structs.Client) {
	if client == nil {
		log.Printf("Warning: Attempted to close nil client")
		return
	}

	if room := manager.RoomOf(s, client.ID); room != nil {
		room.HandleDisconnect(client.ID)
	}

	handlers.CancelHostedInvite(s, client.ID, "Host disconnected")

	manager.RemoveFromLobby(s, client)
	if err := manager.DeleteSession(s, client); err != nil {
		log.Printf("Removing session %s error: %s", client.ID, err)
	}

	if err := client.Conn.Close(); err != nil {
		log.Printf("Closing connection %s error: %s", client.ID, err)
	}

	handlers.BroadcastLobby(s)
	log.Printf("Closed session %s (websocket ID %d)", client.ID, client.Seq)
}
