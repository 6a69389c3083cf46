package domain

import "errors"

var (
	// ErrPrecondition means a required earlier step is missing
	ErrPrecondition = errors.New("precondition failed")
	// ErrInvalidInput means malformed free text
	ErrInvalidInput = errors.New("invalid input")
	// ErrPriceLookup means the price table has no positive price for the choice
	ErrPriceLookup = errors.New("price lookup failed")
	// ErrNotFound means the referenced order or user does not exist
	ErrNotFound = errors.New("not found")
	// ErrTransport means a message could not be delivered
	ErrTransport = errors.New("transport error")
	// ErrStore means the persistent store failed
	ErrStore = errors.New("store error")
)
