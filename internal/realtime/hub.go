package realtime

import (
	"sync"
)

// Hub ties the registry and the router together and owns presence: every
// successful bind or unbind is followed by a broadcast of the full online set.
type Hub struct {
	registry *Registry
	router   *Router
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// NewHub creates an independent hub; tests use this to avoid the singleton.
func NewHub() *Hub {
	registry := NewRegistry()
	return &Hub{
		registry: registry,
		router:   NewRouter(registry),
	}
}

// Router exposes the hub's router for coordinators.
func (h *Hub) Router() *Router {
	return h.router
}

// Registry exposes the hub's registry for lookups; mutation goes through
// Connect/Disconnect only.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Connect binds a user's session, closes any replaced one, and re-broadcasts
// presence. One broadcast per connect; no batching.
func (h *Hub) Connect(userID string, session Session) {
	if prev := h.registry.Bind(userID, session); prev != nil {
		prev.Close()
	}
	h.broadcastPresence()
}

// Disconnect unbinds the user's session if it is still the bound one, then
// re-broadcasts presence. A stale disconnect from a superseded connection is
// ignored entirely, broadcast included.
func (h *Hub) Disconnect(userID string, session Session) {
	if !h.registry.Unbind(userID, session) {
		return
	}
	h.broadcastPresence()
}

// OnlineIDs reports the current online set.
func (h *Hub) OnlineIDs() []string {
	return h.registry.OnlineIDs()
}

func (h *Hub) broadcastPresence() {
	h.router.EmitToAll(EventOnlineUsers, h.registry.OnlineIDs())
}
