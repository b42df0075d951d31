package service

import "errors"

// --- Error Definitions ---
// Sentinel errors for the service layer, grouped by the category handlers
// map them to. Handlers translate with errors.Is; nothing below should ever
// reach a client as an unclassified failure.
var (
	// Not found (404)
	ErrMemberNotFound     = errors.New("member not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrGymNotFound        = errors.New("gym not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrNoActiveCheckIn    = errors.New("no active check-in found for member")
	ErrNotRegistered      = errors.New("member is not registered for this event")
	ErrMembershipNotFound = errors.New("membership not found")

	// Conflict (409)
	ErrAlreadyCheckedIn  = errors.New("member is already checked in")
	ErrAlreadyRegistered = errors.New("member is already registered for this event")
	ErrEventFull         = errors.New("event has reached its maximum capacity")
	ErrEmailInUse        = errors.New("email address is already in use")

	// Invalid lifecycle state (409)
	ErrEventNotUpcoming = errors.New("event is not open for registration changes")

	// Malformed caller input (400)
	ErrInvalidInput = errors.New("invalid input")
)
