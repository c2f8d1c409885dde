package handlers

import (
	"log"

	"github.com/daffawrdhn/ladder-snake/pkg/gateway/message"
	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/protocol"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
	"github.com/goccy/go-json"
)

// SEND_INVITE handles the send_invite message. A fresh invite replaces any
// prior one by the same host. Each reachable target gets an
// invite_received; targets that disconnected in the meantime are skipped
// silently. The host gets an initial invite_status.
func SEND_INVITE(s *structs.Server, client *structs.Client, rawpacket []byte) {
	packet := &protocol.SendInvitePacket{}
	if err := json.Unmarshal(rawpacket, packet); err != nil {
		log.Print("Parsing send_invite packet error: ", err)
		return
	}
	if err := s.PacketValidator.Struct(packet); err != nil {
		return
	}

	manager.CreateInvite(s, client.ID, packet.Targets)
	hostName := manager.Nickname(s, client.ID)

	for _, targetID := range packet.Targets {
		target := manager.GetClient(s, targetID)
		if target == nil {
			continue
		}
		if err := message.Send(target, &protocol.InviteReceived{
			Type:     protocol.TypeInviteReceived,
			HostID:   client.ID,
			HostName: hostName,
		}); err != nil {
			log.Printf("Send invite_received to %s error: %s", targetID, err)
		}
	}

	sendInviteStatus(s, client.ID)
}

// sendInviteStatus recomputes the per-target decision list for the host's
// pending invite and pushes it to the host, if both still exist. It works
// from a snapshot so concurrently arriving decisions cannot race the read.
func sendInviteStatus(s *structs.Server, hostID string) {
	invite := manager.SnapshotInvite(s, hostID)
	if invite == nil {
		return
	}
	host := manager.GetClient(s, hostID)
	if host == nil {
		return
	}

	statuses := make([]protocol.InviteTargetStatus, 0, len(invite.Targets))
	for _, targetID := range invite.Targets {
		status := protocol.StatusPending
		if invite.Accepted[targetID] {
			status = protocol.StatusAccepted
		} else if invite.Declined[targetID] {
			status = protocol.StatusDeclined
		}
		statuses = append(statuses, protocol.InviteTargetStatus{
			ID:       targetID,
			Nickname: manager.Nickname(s, targetID),
			Status:   status,
		})
	}

	if err := message.Send(host, &protocol.InviteStatus{
		Type:     protocol.TypeInviteStatus,
		Statuses: statuses,
		CanStart: invite.CanStart,
	}); err != nil {
		log.Printf("Send invite_status to %s error: %s", hostID, err)
	}
}
