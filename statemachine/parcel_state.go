package statemachine

import (
	"errors"

	"tracknship-api/models"
)

// Actor names used in the transition table
const (
	ActorAdmin       = "admin"
	ActorDeliveryMan = "deliveryman"
	ActorCustomer    = "customer"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.BookingStatus
	To    models.BookingStatus
	Actor string
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Admin assigns a delivery man to a pending booking
	{From: models.StatusPending, To: models.StatusOnTheWay, Actor: ActorAdmin},
	// Assigned delivery man confirms delivery
	{From: models.StatusOnTheWay, To: models.StatusDelivered, Actor: ActorDeliveryMan},
	// Admin or the owning customer can cancel before the booking is delivered
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusOnTheWay, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusOnTheWay, To: models.StatusCancelled, Actor: ActorCustomer},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.BookingStatus
	To    models.BookingStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// IsTerminal reports whether no further transitions are permitted
func IsTerminal(status models.BookingStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.BookingStatus) []models.BookingStatus {
	var nexts []models.BookingStatus
	seen := map[models.BookingStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.BookingStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.BookingStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
