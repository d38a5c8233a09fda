package services

import "errors"

// Recoverable failure reasons reported by the directory and inventory
// services. Nothing here is fatal: a failed operation leaves state unchanged.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrNoActiveSession    = errors.New("no active session")
	ErrRideNotFound       = errors.New("ride not found")
	ErrSeatUnavailable    = errors.New("no seats available on this ride")
	ErrAlreadyBooked      = errors.New("user already booked on this ride")
	ErrNotBooked          = errors.New("user has no booking on this ride")
	ErrRideBusy           = errors.New("ride is being modified, try again")
	ErrInvalidRide        = errors.New("invalid ride offer")
)
