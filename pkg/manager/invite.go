package manager

import (
	"github.com/daffawrdhn/ladder-snake/pkg/structs"
)

// CreateInvite records a fresh invite for the host, silently replacing any
// prior one. The function is thread-safe.
func CreateInvite(s *structs.Server, hostID string, targets []string) *structs.PendingInvite {
	s.Invites.Mutex.Lock()
	defer s.Invites.Mutex.Unlock()
	invite := &structs.PendingInvite{
		HostID:   hostID,
		Targets:  append([]string(nil), targets...),
		Accepted: make(map[string]bool),
		Declined: make(map[string]bool),
	}
	s.Invites.Invites[hostID] = invite
	return invite
}

// GetInvite retrieves the pending invite hosted by the given connection, or
// nil if there is none. The function is thread-safe.
func GetInvite(s *structs.Server, hostID string) *structs.PendingInvite {
	s.Invites.Mutex.RLock()
	defer s.Invites.Mutex.RUnlock()
	return s.Invites.Invites[hostID]
}

// DeleteInvite discards the pending invite hosted by the given connection,
// if any. The function is thread-safe.
func DeleteInvite(s *structs.Server, hostID string) {
	s.Invites.Mutex.Lock()
	defer s.Invites.Mutex.Unlock()
	delete(s.Invites.Invites, hostID)
}

// DecideInvite records one target's answer on the host's pending invite.
// The decision is ignored when the invite no longer exists, the responder
// was never invited, or they already answered. It returns whether the
// decision was recorded and whether the invite is now ready to auto-start
// (every target decided and at least one acceptance), both read under the
// same lock so a concurrent decision cannot double-trigger a start.
func DecideInvite(s *structs.Server, hostID string, playerID string, accepted bool) (ok bool, ready bool) {
	s.Invites.Mutex.Lock()
	defer s.Invites.Mutex.Unlock()
	invite, exists := s.Invites.Invites[hostID]
	if !exists {
		return false, false
	}
	if !invite.IsTarget(playerID) || invite.Decided(playerID) {
		return false, false
	}
	if accepted {
		invite.Accepted[playerID] = true
	} else {
		invite.Declined[playerID] = true
	}
	return true, invite.AllDecided() && invite.CanStart()
}

// InviteSnapshot is a point-in-time copy of a pending invite's decision
// state, safe to read while other targets keep deciding.
type InviteSnapshot struct {
	Targets  []string
	Accepted map[string]bool
	Declined map[string]bool
	CanStart bool
}

// SnapshotInvite copies the host's pending invite under the store lock, or
// returns nil if there is none. The function is thread-safe.
func SnapshotInvite(s *structs.Server, hostID string) *InviteSnapshot {
	s.Invites.Mutex.RLock()
	defer s.Invites.Mutex.RUnlock()
	invite, exists := s.Invites.Invites[hostID]
	if !exists {
		return nil
	}
	snap := &InviteSnapshot{
		Targets:  append([]string(nil), invite.Targets...),
		Accepted: make(map[string]bool, len(invite.Accepted)),
		Declined: make(map[string]bool, len(invite.Declined)),
		CanStart: invite.CanStart(),
	}
	for id := range invite.Accepted {
		snap.Accepted[id] = true
	}
	for id := range invite.Declined {
		snap.Declined[id] = true
	}
	return snap
}

// ClaimInvite atomically consumes the host's startable invite: the CanStart
// check, the accepted-target snapshot and the deletion happen in one
// critical section, so of two racing start attempts (the host's explicit
// start_game against the final target's auto-start) at most one claim
// succeeds. Returns the accepted targets in invite order. The function is
// thread-safe.
func ClaimInvite(s *structs.Server, hostID string) ([]string, bool) {
	s.Invites.Mutex.Lock()
	defer s.Invites.Mutex.Unlock()
	invite, exists := s.Invites.Invites[hostID]
	if !exists || !invite.CanStart() {
		return nil, false
	}
	accepted := make([]string, 0, len(invite.Accepted))
	for _, target := range invite.Targets {
		if invite.Accepted[target] {
			accepted = append(accepted, target)
		}
	}
	delete(s.Invites.Invites, hostID)
	return accepted, true
}

// AcceptedTargets returns the accepted responders of an invite in the order
// the host originally named them. The function is thread-safe.
func AcceptedTargets(s *structs.Server, invite *structs.PendingInvite) []string {
	s.Invites.Mutex.RLock()
	defer s.Invites.Mutex.RUnlock()
	accepted := make([]string, 0, len(invite.Accepted))
	for _, target := range invite.Targets {
		if invite.Accepted[target] {
			accepted = append(accepted, target)
		}
	}
	return accepted
}
