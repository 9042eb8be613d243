package relay

import "sync/atomic"

// State is the process-wide relay state shared by every connection. Fields
// are updated independently with atomic stores.
type State struct {
	lastSeen  atomic.Uint32
	connected atomic.Bool
}

func NewState() *State { return &State{} }

func (s *State) LastSeen() uint32 { return s.lastSeen.Load() }

func (s *State) SetLastSeen(count uint32) { s.lastSeen.Store(count) }

func (s *State) Connected() bool { return s.connected.Load() }

func (s *State) SetConnected(ok bool) { s.connected.Store(ok) }

// Snapshot is the JSON shape served by GET /status.
type Snapshot struct {
	LastSeenCount uint32 `json:"last_seen_count"`
	Connected     bool   `json:"connected"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{LastSeenCount: s.LastSeen(), Connected: s.Connected()}
}
