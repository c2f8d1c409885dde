package handlers

import (
	"fmt"
	"log"

	"github.com/daffawrdhn/ladder-snake/pkg/gateway/message"
	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/protocol"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
	"github.com/goccy/go-json"
)

// SET_NICKNAME handles the set_nickname message. The nickname must be
// non-empty, at most 12 characters, and unique among all current sessions
// ignoring case. On success the client gets a nickname_changed confirmation
// and, unless already committed to a room, joins the waiting pool.
//
// Renames mid-match are accepted by the registry but rooms keep the
// nickname snapshot they took at game_start.
func SET_NICKNAME(s *structs.Server, client *structs.Client, rawpacket []byte) {
	packet := &protocol.SetNicknamePacket{}
	if err := json.Unmarshal(rawpacket, packet); err != nil {
		log.Print("Parsing set_nickname packet error: ", err)
		return
	}
	if err := s.PacketValidator.Struct(packet); err != nil {
		sendError(client, "Nickname must be 1-12 characters.")
		return
	}

	if err := manager.SetNickname(s, client, packet.Nickname); err != nil {
		sendError(client, fmt.Sprintf(
			"Nickname '%s' is already taken! Please choose another.", packet.Nickname))
		return
	}

	if err := message.Send(client, &protocol.NicknameChanged{
		Type:     protocol.TypeNicknameChanged,
		Nickname: packet.Nickname,
	}); err != nil {
		log.Printf("Send nickname_changed to %s error: %s", client.ID, err)
	}

	// A committed player renaming mid-match stays out of the pool.
	if manager.RoomOf(s, client.ID) != nil {
		return
	}

	manager.AddToLobby(s, client)
	BroadcastLobby(s)
}

func sendError(client *structs.Client, text string) {
	if err := message.Send(client, &protocol.ErrorMessage{
		Type:    protocol.TypeError,
		Message: text,
	}); err != nil {
		log.Printf("Send error notice to %s error: %s", client.ID, err)
	}
}
