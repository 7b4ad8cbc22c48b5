package booking

import "errors"

var (
	ErrSessionNotFound     = errors.New("booking session not found or expired")
	ErrAvailabilityLoading = errors.New("availability is still loading for the selected date")
	ErrSubmissionInFlight  = errors.New("booking submission already in progress")
	ErrSlotTaken           = errors.New("selected time overlaps an existing booking")
	ErrDateInPast          = errors.New("date is in the past")
	ErrBookingNotFound     = errors.New("booking not found")
)
