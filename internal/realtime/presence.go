package realtime

import "sync"

// PresenceRegistry maps a user to their most recently registered connection.
// In-memory only; presence is lost on restart.
type PresenceRegistry struct {
	mu    sync.RWMutex
	conns map[string]Sender
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{conns: make(map[string]Sender)}
}

// Register binds the user to conn. The last registration wins, so a
// reconnect displaces the stale entry.
func (r *PresenceRegistry) Register(userID string, conn Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[userID] = conn
}

// Resolve returns the registered connection for userID, if any.
func (r *PresenceRegistry) Resolve(userID string) (Sender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[userID]
	return conn, ok
}

// RemoveConn unbinds userID only if conn is still the registered one, so a
// reconnected user is not clobbered when the old connection finally closes.
func (r *PresenceRegistry) RemoveConn(userID string, conn Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[userID]; ok && cur.ID() == conn.ID() {
		delete(r.conns, userID)
	}
}
