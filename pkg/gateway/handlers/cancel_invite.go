package handlers

import (
	"log"

	"github.com/daffawrdhn/ladder-snake/pkg/gateway/message"
	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/protocol"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
)

// CANCEL_INVITE handles the cancel_invite message. Targets are told the
// invite is void and the host gets the same invite_cancelled echo as a
// confirmation.
func CANCEL_INVITE(s *structs.Server, client *structs.Client) {
	if !CancelHostedInvite(s, client.ID, "") {
		return
	}
	if err := message.Send(client, &protocol.InviteCancelled{
		Type: protocol.TypeInviteCancelled,
	}); err != nil {
		log.Printf("Send invite_cancelled echo to %s error: %s", client.ID, err)
	}
}

// CancelHostedInvite voids the invite hosted by hostID, if any, notifying
// every reachable target with the given reason. Reports whether an invite
// existed. Also used when a host disconnects or returns to the lobby.
func CancelHostedInvite(s *structs.Server, hostID string, reason string) bool {
	invite := manager.GetInvite(s, hostID)
	if invite == nil {
		return false
	}

	for _, targetID := range invite.Targets {
		target := manager.GetClient(s, targetID)
		if target == nil {
			continue
		}
		if err := message.Send(target, &protocol.InviteCancelled{
			Type:   protocol.TypeInviteCancelled,
			Reason: reason,
		}); err != nil {
			log.Printf("Send invite_cancelled to %s error: %s", targetID, err)
		}
	}

	manager.DeleteInvite(s, hostID)
	return true
}
