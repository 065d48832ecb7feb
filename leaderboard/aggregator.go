package leaderboard

import (
	"sort"

	"tracknship-api/models"
	"tracknship-api/store"
)

// Entry is one ranked delivery man.
type Entry struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	DeliveredCount int64   `json:"delivered_count"`
	AverageRating  float64 `json:"average_rating"`
}

// Aggregator joins users, bookings and reviews into the public ranking.
// Delivered counts are recomputed from bookings here rather than read from
// the maintained counter: this is a read path and the recomputation is
// authoritative.
type Aggregator struct {
	users    *store.UserStore
	bookings *store.BookingStore
	reviews  *store.ReviewStore
}

func NewAggregator(users *store.UserStore, bookings *store.BookingStore, reviews *store.ReviewStore) *Aggregator {
	return &Aggregator{users: users, bookings: bookings, reviews: reviews}
}

// TopDeliveryMen ranks delivery men by delivered count, ties broken by
// average review rating. A non-positive limit defaults to 3.
func (a *Aggregator) TopDeliveryMen(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 3
	}

	deliveryMen, err := a.users.ByRole(models.RoleDeliveryMan)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(deliveryMen))
	for _, u := range deliveryMen {
		count, err := a.bookings.CountDelivered(u.Email)
		if err != nil {
			return nil, err
		}
		rating, err := a.reviews.AvgRating(u.Email)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Name:           u.Name,
			Email:          u.Email,
			Phone:          u.Phone,
			DeliveredCount: count,
			AverageRating:  rating,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DeliveredCount != entries[j].DeliveredCount {
			return entries[i].DeliveredCount > entries[j].DeliveredCount
		}
		return entries[i].AverageRating > entries[j].AverageRating
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
