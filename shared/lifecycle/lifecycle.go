// Package lifecycle holds the status graphs every engagement flow moves
// through. Services consult it before any status write so an engagement can
// never reach a state the flow does not allow.
package lifecycle

import (
	"fmt"

	"kaamdham/shared/failure"
)

type Status string

const (
	// Direct booking flow.
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusOnGoing   Status = "onGoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"

	// Job application flow.
	StatusApplied     Status = "applied"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusInProgress  Status = "inProgress"

	// Job flow (posted and instant).
	StatusOpen     Status = "open"
	StatusAssigned Status = "assigned"
	StatusClosed   Status = "closed"
	StatusDeleted  Status = "deleted"
)

type Flow string

const (
	FlowBooking     Flow = "booking"
	FlowApplication Flow = "application"
	FlowJob         Flow = "job"
)

var transitions = map[Flow]map[Status][]Status{
	FlowBooking: {
		StatusBooked:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusOnGoing},
		StatusOnGoing:   {StatusCompleted},
		StatusCompleted: {},
		StatusCancelled: {},
	},
	FlowApplication: {
		StatusApplied:     {StatusShortlisted, StatusRejected},
		StatusShortlisted: {StatusInProgress},
		StatusInProgress:  {StatusCompleted},
		StatusCompleted:   {},
		StatusRejected:    {},
	},
	FlowJob: {
		StatusOpen:     {StatusAssigned, StatusDeleted},
		StatusAssigned: {StatusClosed, StatusDeleted},
		StatusClosed:   {},
		StatusDeleted:  {},
	},
}

// CanTransition reports whether a flow allows moving from one status to
// another. Unknown statuses allow nothing.
func CanTransition(flow Flow, from, to Status) bool {
	allowed, ok := transitions[flow][from]
	if !ok {
		return false
	}

	for _, next := range allowed {
		if next == to {
			return true
		}
	}

	return false
}

// Guard returns a conflict failure when the transition is not allowed and
// nil when it is.
func Guard(flow Flow, from, to Status) error {
	if !CanTransition(flow, from, to) {
		return failure.Conflict(fmt.Sprintf("cannot move from %s to %s", from, to)) // nolint:wrapcheck
	}

	return nil
}

// Terminal reports whether a status has no outgoing transitions in the flow.
func Terminal(flow Flow, status Status) bool {
	allowed, ok := transitions[flow][status]

	return ok && len(allowed) == 0
}

// Valid reports whether the status participates in the flow at all.
func Valid(flow Flow, status Status) bool {
	_, ok := transitions[flow][status]

	return ok
}
