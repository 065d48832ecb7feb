package lifecycle

import "errors"

var (
	// ErrNotFound means the referenced booking or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller's identity fails an ownership check.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition means the state machine rejected the move, or a
	// concurrent caller won the conditional update.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotDeliveryMan means an assignment target does not hold the
	// deliveryman role.
	ErrNotDeliveryMan = errors.New("assignee is not a deliveryman")
)
