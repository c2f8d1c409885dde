package manager

import (
	"github.com/daffawrdhn/ladder-snake/pkg/game"
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
)

// BindMembers maps each committed connection to its room id. Done before
// the room starts broadcasting so an immediate roll_dice can already be
// routed. The function is thread-safe.
func BindMembers(s *structs.Server, roomID string, members []*structs.Client) {
	s.Rooms.Mutex.Lock()
	defer s.Rooms.Mutex.Unlock()
	for _, client := range members {
		s.Rooms.Membership[client.ID] = roomID
	}
}

// AddRoom registers a live room. The function is thread-safe.
func AddRoom(s *structs.Server, room *game.Room) {
	s.Rooms.Mutex.Lock()
	defer s.Rooms.Mutex.Unlock()
	s.Rooms.Rooms[room.ID] = room
}

// RoomOf resolves the room a connection is committed to, or nil.
// The function is thread-safe.
func RoomOf(s *structs.Server, connID string) *game.Room {
	s.Rooms.Mutex.RLock()
	defer s.Rooms.Mutex.RUnlock()
	roomID, ok := s.Rooms.Membership[connID]
	if !ok {
		return nil
	}
	return s.Rooms.Rooms[roomID]
}

// ClearMembership drops a single connection's room mapping without touching
// the room itself, for clients returning to the lobby after a finished
// match. The function is thread-safe.
func ClearMembership(s *structs.Server, connID string) {
	s.Rooms.Mutex.Lock()
	defer s.Rooms.Mutex.Unlock()
	delete(s.Rooms.Membership, connID)
}

// RemoveRoom discards a room and every membership entry pointing at it.
// The function is thread-safe.
func RemoveRoom(s *structs.Server, roomID string) {
	s.Rooms.Mutex.Lock()
	defer s.Rooms.Mutex.Unlock()
	delete(s.Rooms.Rooms, roomID)
	for connID, id := range s.Rooms.Membership {
		if id == roomID {
			delete(s.Rooms.Membership, connID)
		}
	}
}
