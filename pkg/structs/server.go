package structs

import (
	"sync"

	"github.com/daffawrdhn/ladder-snake/pkg/game"
	"github.com/daffawrdhn/ladder-snake/pkg/gateway/origin"
	"github.com/go-playground/validator/v10"
)

type Server struct {
	AllowedOrigins       origin.Patterns
	Mux                  *sync.RWMutex
	Sessions             *SessionStore
	Lobby                *LobbyStore
	Invites              *InviteStore
	Rooms                *RoomStore
	MatchConfig          game.Config
	PacketValidator      *validator.Validate
	WebsocketConnCounter uint64
}

type SessionStore struct {
	Mutex   sync.RWMutex
	Clients map[string]*Client
}

// LobbyStore is the pool of idle connections: known sessions that are not
// committed to a room. Keyed by connection id.
type LobbyStore struct {
	Mutex   sync.RWMutex
	Waiting map[string]*Client
}

// PendingInvite tracks one host's outstanding invite. Targets keeps the
// order the host named them in; Accepted and Declined are disjoint subsets
// of Targets.
type PendingInvite struct {
	HostID   string
	Targets  []string
	Accepted map[string]bool
	Declined map[string]bool
}

// Decided reports whether the given target has already answered.
func (i *PendingInvite) Decided(id string) bool {
	return i.Accepted[id] || i.Declined[id]
}

// IsTarget reports whether the given id was invited at all.
func (i *PendingInvite) IsTarget(id string) bool {
	for _, t := range i.Targets {
		if t == id {
			return true
		}
	}
	return false
}

// AllDecided reports whether every target has answered.
func (i *PendingInvite) AllDecided() bool {
	return len(i.Accepted)+len(i.Declined) == len(i.Targets)
}

// CanStart reports whether the host may start a match from this invite.
func (i *PendingInvite) CanStart() bool {
	return len(i.Accepted) >= 1
}

type InviteStore struct {
	Mutex   sync.RWMutex
	Invites map[string]*PendingInvite
}

// RoomStore tracks live rooms and which room each committed connection
// belongs to.
type RoomStore struct {
	Mutex      sync.RWMutex
	Rooms      map[string]*game.Room
	Membership map[string]string // connection id -> room id
}
