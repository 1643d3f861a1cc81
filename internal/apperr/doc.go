// Package apperr defines the caller-visible failure type shared by services and
// HTTP handlers, and the static table that translates persistence error codes
// into user messages and HTTP statuses.
//
// Every failure a caller can see is an *Error whose Kind selects how the fault
// handler renders it. Services construct errors with the helpers in this
// package; handlers never pick status codes themselves.
package apperr
