package bus

import "time"

// Event represents a domain event published on the bus.
// Kinds are dotted namespaces, e.g. "message.queued", "composer.attachment_staged".
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// New builds an event stamped with the current time.
func New(kind string, payload any) Event {
	return Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
}
