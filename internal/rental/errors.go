package rental

import "errors"

// Errors returned by the lifecycle guard. Handlers map these onto the API
// error taxonomy (not found, conflict, invalid operation).
var (
	ErrGameNotFound      = errors.New("game not found")
	ErrRentalNotFound    = errors.New("rental not found")
	ErrGameAlreadyRented = errors.New("game is not available for rent")
	ErrAlreadyReturned   = errors.New("rental is already returned")
	ErrDueDateNotLater   = errors.New("new due date must be later than the current due date")
	ErrGameHasActive     = errors.New("cannot delete game with active rentals")
	ErrContactRequired   = errors.New("email or phone is required")
)
