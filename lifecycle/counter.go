package lifecycle

import "tracknship-api/store"

// DeliveryCounter keeps a delivery man's delivered-parcel tally in step with
// booking state. The engine calls Adjust at most once per actual transition;
// the conditional status update upstream is what makes that guarantee hold
// under concurrency.
type DeliveryCounter struct {
	users *store.UserStore
}

func NewDeliveryCounter(users *store.UserStore) *DeliveryCounter {
	return &DeliveryCounter{users: users}
}

// Adjust applies an atomic delta (+1 or -1) to the user's counter.
// No-op success when the booking was never assigned.
func (c *DeliveryCounter) Adjust(deliveryManEmail string, delta int) error {
	if deliveryManEmail == "" {
		return nil
	}
	return c.users.AdjustDeliveredCount(deliveryManEmail, delta)
}
