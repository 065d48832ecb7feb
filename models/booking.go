package models

import "time"

// BookingStatus represents all possible states of a parcel booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusOnTheWay  BookingStatus = "On The Way"
	StatusDelivered BookingStatus = "Delivered"
	StatusCancelled BookingStatus = "Cancelled"
)

type Booking struct {
	ID               uint          `json:"id" gorm:"primaryKey"`
	TrackingID       string        `json:"tracking_id" gorm:"uniqueIndex;not null"`
	CustomerEmail    string        `json:"customer_email" gorm:"index;not null"` // immutable after creation
	Status           BookingStatus `json:"status" gorm:"not null;default:'Pending'"`
	DeliveryManEmail *string       `json:"deliveryman_email" gorm:"index"` // set on assignment only
	ParcelType       string        `json:"parcel_type" gorm:"not null"`
	Weight           float64       `json:"weight_kg" gorm:"not null"`
	ReceiverName     string        `json:"receiver_name" gorm:"not null"`
	ReceiverPhone    string        `json:"receiver_phone"`
	DeliveryAddress  string        `json:"delivery_address" gorm:"not null"`
	Latitude         float64       `json:"latitude"`
	Longitude        float64       `json:"longitude"`
	RequestedDate    time.Time     `json:"requested_date"`
	ApproximateDate  *time.Time    `json:"approximate_date"` // ETA, set on assignment
	Price            float64       `json:"price"`
	PaymentStatus    string        `json:"payment_status" gorm:"default:'unpaid'"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
