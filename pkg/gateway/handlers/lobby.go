package handlers

import (
	"log"

	"github.com/daffawrdhn/ladder-snake/pkg/gateway/message"
	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/protocol"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
)

// BroadcastLobby pushes the current roster to every waiting client: first a
// lobby_update nudge with the pool size, then a lobby_list tagged with each
// recipient's own id so clients can tell themselves apart.
func BroadcastLobby(s *structs.Server) {
	clients := manager.LobbyClients(s)
	list := manager.LobbySnapshot(s)

	message.Broadcast(clients, &protocol.LobbyUpdate{
		Type:  protocol.TypeLobbyUpdate,
		Count: len(clients),
	})

	for _, client := range clients {
		if err := message.Send(client, &protocol.LobbyList{
			Type:    protocol.TypeLobbyList,
			Players: list,
			Me:      client.ID,
		}); err != nil {
			log.Printf("Send lobby_list to %s error: %s", client.ID, err)
		}
	}
}
