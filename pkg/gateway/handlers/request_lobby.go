package handlers

import (
	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
)

// REQUEST_LOBBY handles the request_lobby message: a client asking to
// (re)join the waiting pool, typically after a finished match. Any stale
// room mapping is dropped, and an invite the client still hosts is
// cancelled with its targets notified.
func REQUEST_LOBBY(s *structs.Server, client *structs.Client) {
	manager.ClearMembership(s, client.ID)

	CancelHostedInvite(s, client.ID, "Host returned to lobby")

	manager.AddToLobby(s, client)
	BroadcastLobby(s)
}
