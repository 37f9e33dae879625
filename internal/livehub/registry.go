package livehub

import "sync"

// Registry maps user identity to the active connection handle. Registration
// is last-wins: a later connection for the same user replaces the earlier
// mapping. Cleanup scans by handle, because a disconnect only knows its own
// connection, and leaves mappings that meanwhile point at a newer handle
// untouched.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register maps userID to c, overwriting any prior handle for that user.
func (r *Registry) Register(userID string, c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[userID] = c
}

// UnregisterHandle removes the first mapping whose handle equals c. No-op if
// the handle is not present.
func (r *Registry) UnregisterHandle(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, handle := range r.clients {
		if handle == c {
			delete(r.clients, userID)
			return
		}
	}
}

// Lookup returns the handle registered for userID, if any.
func (r *Registry) Lookup(userID string) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[userID]
	return c, ok
}

// Snapshot returns the currently registered handles.
func (r *Registry) Snapshot() []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}

// Len reports the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
