package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingReference_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusRequested, StatusConfirmed, true},
		{StatusRequested, StatusCancelled, true},
		{StatusRequested, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusRequested, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusRequested, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			b := &BookingReference{Status: tt.from}
			assert.Equal(t, tt.allowed, b.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingReference_IsActive(t *testing.T) {
	assert.True(t, (&BookingReference{Status: StatusRequested}).IsActive())
	assert.True(t, (&BookingReference{Status: StatusConfirmed}).IsActive())
	assert.False(t, (&BookingReference{Status: StatusCompleted}).IsActive())
	assert.False(t, (&BookingReference{Status: StatusCancelled}).IsActive())
}

func TestBookingStatus_IsValid(t *testing.T) {
	assert.True(t, StatusRequested.IsValid())
	assert.False(t, BookingStatus("pending").IsValid())
}
