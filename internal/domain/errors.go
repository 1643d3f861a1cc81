package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidDate is returned when a calendar date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")

	// ErrDateOrder is returned when a period ends before it starts.
	ErrDateOrder = errors.New("end date precedes start date")
)
