package models

import "time"

// Review is written once by the owning customer after delivery; never mutated.
type Review struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	BookingID        uint      `json:"booking_id" gorm:"uniqueIndex;not null"` // one review per booking
	DeliveryManEmail string    `json:"deliveryman_email" gorm:"index;not null"`
	ReviewerEmail    string    `json:"reviewer_email" gorm:"not null"`
	Rating           float64   `json:"rating" gorm:"not null"`
	Comment          string    `json:"comment"`
	CreatedAt        time.Time `json:"created_at"`
}

// Payment records a completed charge against a booking. Append-only.
type Payment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BookingID  uint      `json:"booking_id" gorm:"index;not null"`
	PayerEmail string    `json:"payer_email" gorm:"index;not null"`
	Amount     float64   `json:"amount" gorm:"not null"`
	IntentID   string    `json:"intent_id"`
	CreatedAt  time.Time `json:"created_at"`
}
