package domain

import "errors"

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusPaid      Status = "PAID"
	StatusDelivered Status = "DELIVERED"
)

// ErrInvalidStatus rejects unknown status values.
var ErrInvalidStatus = errors.New("order status is invalid")

// ErrInvalidTransition rejects a move the state machine does not allow.
var ErrInvalidTransition = errors.New("order status transition is not allowed")

// transitions is the closed state machine:
// PENDING -> CONFIRMED -> PAID -> DELIVERED, REJECTED from PENDING/CONFIRMED.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusRejected},
	StatusConfirmed: {StatusPaid, StatusRejected},
	StatusPaid:      {StatusDelivered},
	StatusRejected:  {},
	StatusDelivered: {},
}

// Valid reports whether the status is a known state.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
