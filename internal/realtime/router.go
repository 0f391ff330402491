package realtime

import (
	"encoding/json"

	"socialty-api/internal/logger"
)

// envelope is the wire frame for every server-initiated event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Outbound is a routed event produced by a coordinator: a named payload plus
// its audience. An empty To slice means broadcast to every connected user.
// Coordinators return Outbound values from their mutate+persist step; actual
// delivery happens separately via Router.Deliver.
type Outbound struct {
	To   []string
	Name string
	Data any
}

// ToAll builds a broadcast event.
func ToAll(name string, data any) Outbound {
	return Outbound{Name: name, Data: data}
}

// ToUser builds an event addressed to a single user.
func ToUser(userID, name string, data any) Outbound {
	return Outbound{To: []string{userID}, Name: name, Data: data}
}

// ToPair builds an event addressed to both participants of a pairwise
// interaction.
func ToPair(a, b, name string, data any) Outbound {
	return Outbound{To: []string{a, b}, Name: name, Data: data}
}

// Router delivers named events to sessions resolved through the registry.
// Delivery is fire-and-forget: offline receivers are skipped silently and a
// failed write is left for the ws handler to clean up.
type Router struct {
	registry *Registry
}

// NewRouter creates a router over the given registry.
func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// EmitTo sends an event to one user. No-op when the user has no bound session.
func (rt *Router) EmitTo(userID, name string, data any) {
	session, ok := rt.registry.Lookup(userID)
	if !ok {
		return
	}
	frame, err := json.Marshal(envelope{Event: name, Data: data})
	if err != nil {
		logger.Get().Error().Err(err).Str("event", name).Msg("failed to encode event")
		return
	}
	session.Send(frame)
}

// EmitToAll sends an event to every currently bound session.
func (rt *Router) EmitToAll(name string, data any) {
	frame, err := json.Marshal(envelope{Event: name, Data: data})
	if err != nil {
		logger.Get().Error().Err(err).Str("event", name).Msg("failed to encode event")
		return
	}
	for _, session := range rt.registry.snapshot() {
		session.Send(frame)
	}
}

// Deliver routes a batch of coordinator-produced events. Duplicate ids in an
// Outbound's audience (e.g. a self-addressed message) are sent once.
func (rt *Router) Deliver(events ...Outbound) {
	for _, evt := range events {
		if len(evt.To) == 0 {
			rt.EmitToAll(evt.Name, evt.Data)
			continue
		}
		seen := make(map[string]struct{}, len(evt.To))
		for _, id := range evt.To {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			rt.EmitTo(id, evt.Name, evt.Data)
		}
	}
}
