package handlers

import (
	"log"

	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/protocol"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
	"github.com/goccy/go-json"
)

// DECLINE_INVITE handles the decline_invite message. A decline can still be
// the decision that completes the invite, so the auto-start condition is
// re-checked here exactly as it is on accept.
func DECLINE_INVITE(s *structs.Server, client *structs.Client, rawpacket []byte) {
	packet := &protocol.InviteRefPacket{}
	if err := json.Unmarshal(rawpacket, packet); err != nil {
		log.Print("Parsing decline_invite packet error: ", err)
		return
	}
	if err := s.PacketValidator.Struct(packet); err != nil {
		return
	}

	ok, ready := manager.DecideInvite(s, packet.HostID, client.ID, false)
	if !ok {
		return
	}

	sendInviteStatus(s, packet.HostID)

	if ready {
		StartMatch(s, packet.HostID)
	}
}
