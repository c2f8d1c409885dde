package manager

import (
	"sort"

	"github.com/daffawrdhn/ladder-snake/pkg/protocol"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
)

// AddToLobby places a client in the waiting pool. Re-adding a client that
// is already waiting is a no-op, so returning from a finished match is
// idempotent. The function is thread-safe.
func AddToLobby(s *structs.Server, client *structs.Client) {
	s.Lobby.Mutex.Lock()
	defer s.Lobby.Mutex.Unlock()
	s.Lobby.Waiting[client.ID] = client
}

// RemoveFromLobby takes a client out of the waiting pool, if present.
// The function is thread-safe.
func RemoveFromLobby(s *structs.Server, client *structs.Client) {
	s.Lobby.Mutex.Lock()
	defer s.Lobby.Mutex.Unlock()
	delete(s.Lobby.Waiting, client.ID)
}

// LobbyClients returns the waiting pool ordered by connection age, oldest
// first. The function is thread-safe.
func LobbyClients(s *structs.Server) []*structs.Client {
	s.Lobby.Mutex.RLock()
	defer s.Lobby.Mutex.RUnlock()
	clients := make([]*structs.Client, 0, len(s.Lobby.Waiting))
	for _, client := range s.Lobby.Waiting {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].Seq < clients[j].Seq
	})
	return clients
}

// LobbySnapshot builds the roster sent with lobby_list broadcasts, in the
// same order as LobbyClients.
func LobbySnapshot(s *structs.Server) []protocol.LobbyPlayer {
	clients := LobbyClients(s)
	s.Sessions.Mutex.RLock()
	defer s.Sessions.Mutex.RUnlock()
	list := make([]protocol.LobbyPlayer, 0, len(clients))
	for _, client := range clients {
		list = append(list, protocol.LobbyPlayer{
			ID:       client.ID,
			Nickname: client.Nickname,
		})
	}
	return list
}
