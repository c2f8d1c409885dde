package handlers

import (
	"github.com/daffawrdhn/ladder-snake/pkg/manager"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
)

// ROLL_DICE handles the roll_dice message by routing it to the sender's
// room. Rolls from clients not committed to any room are dropped; the room
// itself rejects out-of-turn rolls.
func ROLL_DICE(s *structs.Server, client *structs.Client) {
	room := manager.RoomOf(s, client.ID)
	if room == nil {
		return
	}
	room.HandleRoll(client.ID)
}
