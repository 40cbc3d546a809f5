package apperr

import "errors"

// ErrValidation is returned when the input fails domain validation.
var ErrValidation = errors.New("validation error")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrOrderNotAvailable indicates that the order's status or assignment
// precondition failed (already claimed, wrong status, terminal).
var ErrOrderNotAvailable = errors.New("order not available")

// ErrNotAssignedCourier indicates the caller is not the courier the
// order is currently assigned to.
var ErrNotAssignedCourier = errors.New("not the assigned courier")

// ErrConflict indicates a version mismatch on a conditional write.
// The caller should re-read the order and may retry once.
var ErrConflict = errors.New("conflict")

// ErrDependencyUnavailable indicates an upstream collaborator timed out
// or failed. Read paths degrade, write paths propagate it.
var ErrDependencyUnavailable = errors.New("dependency unavailable")

// ErrNotAvailable indicates the courier is not marked available.
var ErrNotAvailable = errors.New("courier not available")

// ErrUnauthorized indicates a missing or unverifiable identity token.
var ErrUnauthorized = errors.New("unauthorized")

// Kind maps an error to its machine-readable wire kind.
// Unrecognized errors map to "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrOrderNotAvailable):
		return "order_not_available"
	case errors.Is(err, ErrNotAssignedCourier):
		return "not_assigned_courier"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrDependencyUnavailable):
		return "dependency_unavailable"
	case errors.Is(err, ErrNotAvailable):
		return "not_available"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}
