package game

import "sync"

type binding struct {
	playerID string
	roomID   string
}

// Mapper holds the two-level identity indirection: ephemeral connection ↔
// stable participant ↔ room. It also owns the per-room broadcast groups,
// which follow every association change. Entries are non-owning and must be
// removed together with the Player or Room they point at.
type Mapper struct {
	mu     sync.RWMutex
	conns  map[string]binding          // conn id -> (player id, room id)
	groups map[string]map[string]*Conn // room id -> conn id -> conn
}

func NewMapper() *Mapper {
	return &Mapper{
		conns:  make(map[string]binding),
		groups: make(map[string]map[string]*Conn),
	}
}

// Bind associates a connection with a participant and room, replacing any
// prior association of the same connection and moving its group membership.
func (m *Mapper) Bind(c *Conn, playerID, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.conns[c.ID]; ok {
		m.leaveGroupLocked(old.roomID, c.ID)
	}
	m.conns[c.ID] = binding{playerID: playerID, roomID: roomID}
	if m.groups[roomID] == nil {
		m.groups[roomID] = make(map[string]*Conn)
	}
	m.groups[roomID][c.ID] = c
}

// Unbind removes a connection's association and group membership. Returns the
// prior binding, if any.
func (m *Mapper) Unbind(c *Conn) (playerID, roomID string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.conns[c.ID]
	if !ok {
		return "", "", false
	}
	delete(m.conns, c.ID)
	m.leaveGroupLocked(b.roomID, c.ID)
	return b.playerID, b.roomID, true
}

// Lookup resolves a connection to its participant and room.
func (m *Mapper) Lookup(c *Conn) (playerID, roomID string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.conns[c.ID]
	return b.playerID, b.roomID, ok
}

// Group snapshots the connections currently joined to a room.
func (m *Mapper) Group(roomID string) []*Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conns := make([]*Conn, 0, len(m.groups[roomID]))
	for _, c := range m.groups[roomID] {
		conns = append(conns, c)
	}
	return conns
}

// ConnFor finds the connection bound to a participant in a room, or nil.
func (m *Mapper) ConnFor(roomID, playerID string) *Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, c := range m.groups[roomID] {
		if b, ok := m.conns[id]; ok && b.playerID == playerID {
			return c
		}
	}
	return nil
}

// HasPlayer reports whether any live connection is bound to the participant.
func (m *Mapper) HasPlayer(roomID, playerID string) bool {
	return m.ConnFor(roomID, playerID) != nil
}

// DropPlayer removes every entry binding the participant to the room.
func (m *Mapper) DropPlayer(roomID, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.groups[roomID] {
		if b, ok := m.conns[id]; ok && b.playerID == playerID {
			delete(m.conns, id)
			m.leaveGroupLocked(roomID, id)
		}
	}
}

// DropRoom removes the room's group and every binding into it. Called
// together with room destruction so entries never outlive the room.
func (m *Mapper) DropRoom(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.groups[roomID] {
		delete(m.conns, id)
	}
	delete(m.groups, roomID)
}

func (m *Mapper) leaveGroupLocked(roomID, connID string) {
	if g := m.groups[roomID]; g != nil {
		delete(g, connID)
		if len(g) == 0 {
			delete(m.groups, roomID)
		}
	}
}
