package lifecycle

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"tracknship-api/models"
	"tracknship-api/statemachine"
	"tracknship-api/store"
)

// Engine applies booking status transitions. Route guards establish who the
// caller is; the engine enforces what that caller may do to this booking.
//
// The status write always commits first through the store's conditional
// update. A failed counter write afterwards is logged and the transition
// still reports success: the booking status is authoritative, the counter a
// derived statistic.
type Engine struct {
	bookings *store.BookingStore
	users    *store.UserStore
	counter  *DeliveryCounter
}

func NewEngine(bookings *store.BookingStore, users *store.UserStore, counter *DeliveryCounter) *Engine {
	return &Engine{bookings: bookings, users: users, counter: counter}
}

func (e *Engine) booking(id uint) (*models.Booking, error) {
	b, err := e.bookings.ByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load booking %d: %w", id, err)
	}
	return b, nil
}

// Assign moves a Pending booking to On The Way and records the delivery man
// and ETA. The target must resolve to a user actually holding the
// deliveryman role; the claim in the request body is not trusted.
func (e *Engine) Assign(bookingID uint, deliveryManEmail string, approximateDate time.Time) error {
	b, err := e.booking(bookingID)
	if err != nil {
		return err
	}

	dm, err := e.users.ByEmail(deliveryManEmail)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("deliveryman %s: %w", deliveryManEmail, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("resolve deliveryman %s: %w", deliveryManEmail, err)
	}
	if dm.Role != models.RoleDeliveryMan {
		return fmt.Errorf("%s: %w", deliveryManEmail, ErrNotDeliveryMan)
	}

	if err := statemachine.CanTransition(b.Status, models.StatusOnTheWay, statemachine.ActorAdmin); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	matched, err := e.bookings.TransitionStatus(b.ID, models.StatusPending, models.StatusOnTheWay, map[string]interface{}{
		"delivery_man_email": deliveryManEmail,
		"approximate_date":   approximateDate,
	})
	if err != nil {
		return fmt.Errorf("assign booking %d: %w", b.ID, err)
	}
	if !matched {
		return fmt.Errorf("%w: booking %d is no longer pending", ErrInvalidTransition, b.ID)
	}
	return nil
}

// ConfirmDelivery moves an On The Way booking to Delivered. Only the
// assigned delivery man may confirm; the winner of the conditional update
// increments their own counter exactly once.
func (e *Engine) ConfirmDelivery(bookingID uint, callerEmail string) error {
	b, err := e.booking(bookingID)
	if err != nil {
		return err
	}

	if b.DeliveryManEmail == nil || *b.DeliveryManEmail != callerEmail {
		return fmt.Errorf("%w: you are not the assigned deliveryman for booking %d", ErrForbidden, bookingID)
	}

	if err := statemachine.CanTransition(b.Status, models.StatusDelivered, statemachine.ActorDeliveryMan); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	matched, err := e.bookings.TransitionStatus(b.ID, models.StatusOnTheWay, models.StatusDelivered, nil)
	if err != nil {
		return fmt.Errorf("deliver booking %d: %w", b.ID, err)
	}
	if !matched {
		return fmt.Errorf("%w: booking %d is no longer on the way", ErrInvalidTransition, b.ID)
	}

	if err := e.counter.Adjust(callerEmail, +1); err != nil {
		log.Printf("booking %d delivered but counter increment for %s failed: %v", b.ID, callerEmail, err)
	}
	return nil
}

// Cancel moves a non-terminal booking to Cancelled. Admins may cancel any
// booking, customers only their own. A previously assigned delivery man
// gives back one counted delivery.
func (e *Engine) Cancel(bookingID uint, callerEmail string, isAdmin bool) error {
	b, err := e.booking(bookingID)
	if err != nil {
		return err
	}

	actor := statemachine.ActorCustomer
	if isAdmin {
		actor = statemachine.ActorAdmin
	} else if b.CustomerEmail != callerEmail {
		return fmt.Errorf("%w: booking %d does not belong to you", ErrForbidden, bookingID)
	}

	if err := statemachine.CanTransition(b.Status, models.StatusCancelled, actor); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	matched, err := e.bookings.TransitionStatus(b.ID, b.Status, models.StatusCancelled, nil)
	if err != nil {
		return fmt.Errorf("cancel booking %d: %w", b.ID, err)
	}
	if !matched {
		return fmt.Errorf("%w: booking %d changed status concurrently", ErrInvalidTransition, b.ID)
	}

	if b.DeliveryManEmail != nil {
		if err := e.counter.Adjust(*b.DeliveryManEmail, -1); err != nil {
			log.Printf("booking %d cancelled but counter decrement for %s failed: %v", b.ID, *b.DeliveryManEmail, err)
		}
	}
	return nil
}

// Edit overwrites booking fields. Owner only, and only while the booking is
// still Pending (pre-assignment).
func (e *Engine) Edit(bookingID uint, callerEmail string, fields map[string]interface{}) error {
	b, err := e.booking(bookingID)
	if err != nil {
		return err
	}
	if b.CustomerEmail != callerEmail {
		return fmt.Errorf("%w: booking %d does not belong to you", ErrForbidden, bookingID)
	}
	if b.Status != models.StatusPending {
		return fmt.Errorf("%w: booking %d can only be edited before assignment", ErrInvalidTransition, bookingID)
	}
	if len(fields) == 0 {
		return nil
	}
	matched, err := e.bookings.UpdateFieldsIfPending(b.ID, callerEmail, fields)
	if err != nil {
		return fmt.Errorf("edit booking %d: %w", b.ID, err)
	}
	if !matched {
		return fmt.Errorf("%w: booking %d is no longer pending", ErrInvalidTransition, b.ID)
	}
	return nil
}

// Delete removes a booking entirely. Owner only, Pending only.
func (e *Engine) Delete(bookingID uint, callerEmail string) error {
	b, err := e.booking(bookingID)
	if err != nil {
		return err
	}
	if b.CustomerEmail != callerEmail {
		return fmt.Errorf("%w: booking %d does not belong to you", ErrForbidden, bookingID)
	}
	if b.Status != models.StatusPending {
		return fmt.Errorf("%w: booking %d can only be deleted while pending", ErrInvalidTransition, bookingID)
	}
	matched, err := e.bookings.DeleteIfPending(b.ID, callerEmail)
	if err != nil {
		return fmt.Errorf("delete booking %d: %w", b.ID, err)
	}
	if !matched {
		return fmt.Errorf("%w: booking %d is no longer pending", ErrInvalidTransition, b.ID)
	}
	return nil
}
