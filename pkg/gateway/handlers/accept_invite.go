package handlers

import (
	"log"

	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/protocol"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
	"github.com/goccy/go-json"
)

// ACCEPT_INVITE handles the accept_invite message. Answers from anyone who
// is not an undecided target of a live invite are ignored without a reply.
// When the acceptance completes the invite (every target decided, at least
// one acceptance) the match starts automatically.
func ACCEPT_INVITE(s *structs.Server, client *structs.Client, rawpacket []byte) {
	packet := &protocol.InviteRefPacket{}
	if err := json.Unmarshal(rawpacket, packet); err != nil {
		log.Print("Parsing accept_invite packet error: ", err)
		return
	}
	if err := s.PacketValidator.Struct(packet); err != nil {
		return
	}

	ok, ready := manager.DecideInvite(s, packet.HostID, client.ID, true)
	if !ok {
		return
	}

	sendInviteStatus(s, packet.HostID)

	if ready {
		StartMatch(s, packet.HostID)
	}
}
