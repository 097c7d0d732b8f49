package status

import (
	"fmt"
	"slices"
)

// Status represents the delivery state of an outgoing message.
type Status string

const (
	Queued  Status = "queued"
	Sending Status = "sending"
	Sent    Status = "sent"
	Failed  Status = "failed"
)

// validTransitions defines allowed delivery state transitions.
// Failed entries may be requeued for retry.
var validTransitions = map[Status][]Status{
	Queued:  {Sending},
	Sending: {Sent, Failed},
	Sent:    {},
	Failed:  {Queued},
}

// CanTransition reports whether a delivery status change is allowed.
func CanTransition(from, to Status) bool {
	return slices.Contains(validTransitions[from], to)
}

// Transition validates a delivery status change and returns the new status.
func Transition(from, to Status) (Status, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("invalid delivery transition from %s to %s", from, to)
	}
	return to, nil
}

// Terminal reports whether no further transitions are expected from s.
// Failed is not terminal: entries may be requeued.
func Terminal(s Status) bool {
	return s == Sent
}
