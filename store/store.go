// Package store owns the canonical in-memory collections of the V2X
// network picture: vehicles, infrastructure nodes, the bounded message log
// and security alerts.
//
// There is a single logical writer (the polling coordinator). Readers may
// run concurrently with a merge; every mutation builds a fresh collection
// and swaps it in under the write lock, so a reader always observes either
// the pre- or the post-merge state, never a partial one. Returned slices
// are never mutated after the swap and must be treated as read-only.
package store

import (
	"sort"
	"sync"

	"github.com/securecomm/backend/models"
)

// DefaultMessageCap is the retained message-log length used when no
// explicit cap is configured.
const DefaultMessageCap = 20

// Store holds the four entity collections
type Store struct {
	mu         sync.RWMutex
	vehicles   []models.Vehicle
	nodes      []models.InfrastructureNode
	messages   []models.CommunicationMessage
	alerts     []models.SecurityAlert
	messageCap int
}

// Snapshot is a consistent point-in-time view of all four collections
type Snapshot struct {
	Vehicles []models.Vehicle              `json:"vehicles"`
	Nodes    []models.InfrastructureNode   `json:"infrastructureNodes"`
	Messages []models.CommunicationMessage `json:"messages"`
	Alerts   []models.SecurityAlert        `json:"alerts"`
}

// New creates a Store with the given message-log cap. A cap <= 0 selects
// DefaultMessageCap.
func New(messageCap int) *Store {
	if messageCap <= 0 {
		messageCap = DefaultMessageCap
	}
	return &Store{messageCap: messageCap}
}

// ReplaceVehicles makes the given list the authoritative vehicle
// collection. Stale ids disappear; there are no tombstones. Two fleet
// invariants are enforced during the merge: speed is zero unless the
// vehicle is online (and never negative), and lastCommunication never moves
// backwards for a vehicle id that survives the merge.
func (s *Store) ReplaceVehicles(vehicles []models.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := make(map[string]models.Vehicle, len(s.vehicles))
	for _, v := range s.vehicles {
		prev[v.ID] = v
	}

	next := make([]models.Vehicle, len(vehicles))
	copy(next, vehicles)
	for i := range next {
		if next[i].Status != models.VehicleOnline || next[i].Speed < 0 {
			next[i].Speed = 0
		}
		if old, ok := prev[next[i].ID]; ok && old.LastCommunication.After(next[i].LastCommunication) {
			next[i].LastCommunication = old.LastCommunication
		}
	}
	s.vehicles = next
}

// ReplaceNodes makes the given list the authoritative node collection
func (s *Store) ReplaceNodes(nodes []models.InfrastructureNode) {
	next := make([]models.InfrastructureNode, len(nodes))
	copy(next, nodes)

	s.mu.Lock()
	s.nodes = next
	s.mu.Unlock()
}

// ReplaceAlerts makes the given list the authoritative alert collection
func (s *Store) ReplaceAlerts(alerts []models.SecurityAlert) {
	next := make([]models.SecurityAlert, len(alerts))
	copy(next, alerts)

	s.mu.Lock()
	s.alerts = next
	s.mu.Unlock()
}

// AppendMessages prepends a batch to the message log, keeps the log sorted
// most-recent-first and truncates it to the configured cap. The log length
// never exceeds the cap after this call; when entries are dropped, the
// oldest go first.
func (s *Store) AppendMessages(batch []models.CommunicationMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.CommunicationMessage, 0, len(batch)+len(s.messages))
	next = append(next, batch...)
	next = append(next, s.messages...)
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].Timestamp.After(next[j].Timestamp)
	})
	if len(next) > s.messageCap {
		next = next[:s.messageCap]
	}
	s.messages = next
}

// ResolveAlert marks the alert with the given id resolved. The transition
// is one-way: an already-resolved alert stays resolved. Returns false when
// no alert with that id exists.
func (s *Store) ResolveAlert(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	next := make([]models.SecurityAlert, len(s.alerts))
	copy(next, s.alerts)
	for i := range next {
		if next[i].ID == id {
			next[i].Resolved = true
			found = true
		}
	}
	if found {
		s.alerts = next
	}
	return found
}

// Vehicles returns the current vehicle collection
func (s *Store) Vehicles() []models.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vehicles
}

// Nodes returns the current infrastructure node collection
func (s *Store) Nodes() []models.InfrastructureNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes
}

// Messages returns the current message log, most-recent-first
func (s *Store) Messages() []models.CommunicationMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messages
}

// Alerts returns the current alert collection
func (s *Store) Alerts() []models.SecurityAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alerts
}

// SnapshotAll returns all four collections under a single read lock, so the
// export surface sees one consistent state.
func (s *Store) SnapshotAll() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Vehicles: s.vehicles,
		Nodes:    s.nodes,
		Messages: s.messages,
		Alerts:   s.alerts,
	}
}

// MessageCap returns the configured message-log cap
func (s *Store) MessageCap() int {
	return s.messageCap
}
