package handlers

import (
	"log"

	"github.com/daffawrdhn/ladder-snake/pkg/game"
	"github.com/daffawrdhn/ladder-snake/pkg/gateway/message"
	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/protocol"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
	"github.com/google/uuid"
)

// START_GAME handles the start_game message: the host forcing an early
// start with whoever has accepted so far. StartMatch enforces the minimum
// roster and the invite claim, so a premature request is simply a no-op and
// the invite keeps waiting.
func START_GAME(s *structs.Server, client *structs.Client) {
	StartMatch(s, client.ID)
}

// StartMatch turns the host's pending invite into a running room. The
// invite is claimed atomically, so the host's explicit start and the final
// target's auto-start can race without producing two rooms. Members that
// disconnected or got committed to another room in the meantime are
// dropped; a claim that leaves fewer than two members (host included) is
// abandoned and the host is told to re-invite.
func StartMatch(s *structs.Server, hostID string) {
	accepted, ok := manager.ClaimInvite(s, hostID)
	if !ok {
		return
	}

	members := make([]*structs.Client, 0, len(accepted)+1)
	if host := manager.GetClient(s, hostID); host != nil && manager.RoomOf(s, hostID) == nil {
		members = append(members, host)
	}
	for _, targetID := range accepted {
		target := manager.GetClient(s, targetID)
		if target == nil || manager.RoomOf(s, targetID) != nil {
			continue
		}
		members = append(members, target)
	}
	if len(members) < 2 || members[0].ID != hostID {
		abandonClaim(s, hostID)
		return
	}

	roomID := uuid.NewString()
	seats := make([]*game.Seat, 0, len(members))

	s.Sessions.Mutex.RLock()
	for _, member := range members {
		seats = append(seats, &game.Seat{
			ConnID:   member.ID,
			PlayerID: member.PlayerID(),
			Nickname: member.Nickname,
			Send:     message.Sender(member),
		})
	}
	s.Sessions.Mutex.RUnlock()

	room := game.NewRoom(roomID, seats, s.MatchConfig, nil, func(id string) {
		manager.RemoveRoom(s, id)
	})

	// Bind memberships before the first broadcast so an eager roll_dice
	// already routes to the room.
	manager.BindMembers(s, roomID, members)
	manager.AddRoom(s, room)
	for _, member := range members {
		manager.RemoveFromLobby(s, member)
	}

	log.Printf("Starting room %s with %d players (host %s)", roomID, len(members), hostID)
	room.Start()

	BroadcastLobby(s)
}

// abandonClaim notifies the host that their consumed invite could not
// produce a match, so their client knows to re-invite.
func abandonClaim(s *structs.Server, hostID string) {
	host := manager.GetClient(s, hostID)
	if host == nil {
		return
	}
	if err := message.Send(host, &protocol.InviteCancelled{
		Type:   protocol.TypeInviteCancelled,
		Reason: "Not enough players connected.",
	}); err != nil {
		log.Printf("Send invite_cancelled to %s error: %s", hostID, err)
	}
}
