package manager

import (
	"fmt"
	"strings"

	"github.com/daffawrdhn/ladder-snake/pkg/structs"
)

// GetClient retrieves the client associated with the given connection id.
// It returns nil if no such session exists. The function is thread-safe.
func GetClient(s *structs.Server, id string) *structs.Client {
	s.Sessions.Mutex.RLock()
	defer s.Sessions.Mutex.RUnlock()
	return s.Sessions.Clients[id]
}

// CreateSession registers a new client on the server. It returns an error
// if a session for the client already exists. The function is thread-safe.
func CreateSession(s *structs.Server, client *structs.Client) error {
	s.Sessions.Mutex.Lock()
	defer s.Sessions.Mutex.Unlock()
	if _, exists := s.Sessions.Clients[client.ID]; exists {
		return fmt.Errorf("session already exists for %s", client.ID)
	}
	s.Sessions.Clients[client.ID] = client
	return nil
}

// DeleteSession removes the client's session from the server. It returns an
// error if the session does not exist. The function is thread-safe.
func DeleteSession(s *structs.Server, client *structs.Client) error {
	s.Sessions.Mutex.Lock()
	defer s.Sessions.Mutex.Unlock()
	if _, exists := s.Sessions.Clients[client.ID]; !exists {
		return fmt.Errorf("session does not exist")
	}
	delete(s.Sessions.Clients, client.ID)
	return nil
}

// SetNickname stores a new nickname for the client after checking it is
// unique among all current sessions. The comparison is case-insensitive and
// excludes the client's own prior entry. Returns an error on a duplicate.
func SetNickname(s *structs.Server, client *structs.Client, nickname string) error {
	s.Sessions.Mutex.Lock()
	defer s.Sessions.Mutex.Unlock()
	lowered := strings.ToLower(nickname)
	for id, other := range s.Sessions.Clients {
		if id == client.ID {
			continue
		}
		if strings.ToLower(other.Nickname) == lowered {
			return fmt.Errorf("nickname %q is already taken", nickname)
		}
	}
	client.Nickname = nickname
	return nil
}

// Nickname reads a client's nickname by connection id, falling back to
// "Unknown" for sessions that no longer exist. The function is thread-safe.
func Nickname(s *structs.Server, id string) string {
	s.Sessions.Mutex.RLock()
	defer s.Sessions.Mutex.RUnlock()
	if client, ok := s.Sessions.Clients[id]; ok && client.Nickname != "" {
		return client.Nickname
	}
	return "Unknown"
}
