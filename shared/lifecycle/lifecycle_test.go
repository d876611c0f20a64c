package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kaamdham/shared/failure"
	"kaamdham/shared/lifecycle"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		flow lifecycle.Flow
		from lifecycle.Status
		to   lifecycle.Status
		want bool
	}{
		{"booking booked to confirmed", lifecycle.FlowBooking, lifecycle.StatusBooked, lifecycle.StatusConfirmed, true},
		{"booking booked to cancelled", lifecycle.FlowBooking, lifecycle.StatusBooked, lifecycle.StatusCancelled, true},
		{"booking confirmed to onGoing", lifecycle.FlowBooking, lifecycle.StatusConfirmed, lifecycle.StatusOnGoing, true},
		{"booking onGoing to completed", lifecycle.FlowBooking, lifecycle.StatusOnGoing, lifecycle.StatusCompleted, true},
		{"booking confirmed to cancelled denied", lifecycle.FlowBooking, lifecycle.StatusConfirmed, lifecycle.StatusCancelled, false},
		{"booking onGoing to cancelled denied", lifecycle.FlowBooking, lifecycle.StatusOnGoing, lifecycle.StatusCancelled, false},
		{"booking completed is terminal", lifecycle.FlowBooking, lifecycle.StatusCompleted, lifecycle.StatusOnGoing, false},
		{"booking skip to completed denied", lifecycle.FlowBooking, lifecycle.StatusBooked, lifecycle.StatusCompleted, false},

		{"application applied to shortlisted", lifecycle.FlowApplication, lifecycle.StatusApplied, lifecycle.StatusShortlisted, true},
		{"application applied to rejected", lifecycle.FlowApplication, lifecycle.StatusApplied, lifecycle.StatusRejected, true},
		{"application shortlisted to inProgress", lifecycle.FlowApplication, lifecycle.StatusShortlisted, lifecycle.StatusInProgress, true},
		{"application inProgress to completed", lifecycle.FlowApplication, lifecycle.StatusInProgress, lifecycle.StatusCompleted, true},
		{"application rejected is terminal", lifecycle.FlowApplication, lifecycle.StatusRejected, lifecycle.StatusApplied, false},
		{"application shortlisted to rejected denied", lifecycle.FlowApplication, lifecycle.StatusShortlisted, lifecycle.StatusRejected, false},

		{"job open to assigned", lifecycle.FlowJob, lifecycle.StatusOpen, lifecycle.StatusAssigned, true},
		{"job open to deleted", lifecycle.FlowJob, lifecycle.StatusOpen, lifecycle.StatusDeleted, true},
		{"job assigned to closed", lifecycle.FlowJob, lifecycle.StatusAssigned, lifecycle.StatusClosed, true},
		{"job assigned to deleted", lifecycle.FlowJob, lifecycle.StatusAssigned, lifecycle.StatusDeleted, true},

		{"unknown status allows nothing", lifecycle.FlowBooking, lifecycle.Status("bogus"), lifecycle.StatusConfirmed, false},
		{"cross flow status denied", lifecycle.FlowBooking, lifecycle.StatusApplied, lifecycle.StatusShortlisted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lifecycle.CanTransition(tt.flow, tt.from, tt.to))
		})
	}
}

func TestGuard(t *testing.T) {
	err := lifecycle.Guard(lifecycle.FlowBooking, lifecycle.StatusBooked, lifecycle.StatusConfirmed)
	assert.NoError(t, err)

	err = lifecycle.Guard(lifecycle.FlowBooking, lifecycle.StatusCompleted, lifecycle.StatusOnGoing)
	assert.Error(t, err)
	assert.Equal(t, 409, failure.GetCode(err))
}

func TestTerminal(t *testing.T) {
	assert.True(t, lifecycle.Terminal(lifecycle.FlowBooking, lifecycle.StatusCompleted))
	assert.True(t, lifecycle.Terminal(lifecycle.FlowBooking, lifecycle.StatusCancelled))
	assert.False(t, lifecycle.Terminal(lifecycle.FlowBooking, lifecycle.StatusBooked))
	assert.False(t, lifecycle.Terminal(lifecycle.FlowBooking, lifecycle.Status("bogus")))
}

func TestValid(t *testing.T) {
	assert.True(t, lifecycle.Valid(lifecycle.FlowApplication, lifecycle.StatusApplied))
	assert.False(t, lifecycle.Valid(lifecycle.FlowApplication, lifecycle.StatusBooked))
}
