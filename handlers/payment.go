package handlers

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracknship-api/middleware"
	"tracknship-api/models"
	"tracknship-api/payments"
	"tracknship-api/store"
)

type PaymentHandler struct {
	payments *store.PaymentStore
	bookings *store.BookingStore
	gateway  payments.IntentCreator
}

func NewPaymentHandler(paymentStore *store.PaymentStore, bookings *store.BookingStore, gateway payments.IntentCreator) *PaymentHandler {
	return &PaymentHandler{payments: paymentStore, bookings: bookings, gateway: gateway}
}

type CreateIntentRequest struct {
	BookingID uint `json:"booking_id" binding:"required"`
}

type RecordPaymentRequest struct {
	BookingID uint    `json:"booking_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	IntentID  string  `json:"intent_id"`
}

func (h *PaymentHandler) ownedBooking(c *gin.Context, id uint) (*models.Booking, bool) {
	booking, err := h.bookings.ByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load booking"})
		return nil, false
	}
	if booking.CustomerEmail != middleware.GetEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This booking does not belong to you"})
		return nil, false
	}
	return booking, true
}

// CreateIntent returns a client secret for paying a booking's price
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	booking, ok := h.ownedBooking(c, req.BookingID)
	if !ok {
		return
	}

	amountCents := int64(math.Round(booking.Price * 100))
	clientSecret, intentID, err := h.gateway.CreateIntent(amountCents, "usd")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"client_secret": clientSecret,
		"intent_id":     intentID,
		"amount":        booking.Price,
	})
}

// RecordPayment stores a completed charge and marks the booking paid
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	booking, ok := h.ownedBooking(c, req.BookingID)
	if !ok {
		return
	}

	payment := models.Payment{
		BookingID:  booking.ID,
		PayerEmail: booking.CustomerEmail,
		Amount:     req.Amount,
		IntentID:   req.IntentID,
	}
	if err := h.payments.Create(&payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment"})
		return
	}
	if _, err := h.bookings.MarkPaid(booking.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment saved but booking not marked paid"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Payment recorded", "payment": payment})
}

// MyPayments lists the caller's payments
func (h *PaymentHandler) MyPayments(c *gin.Context) {
	email := middleware.GetEmail(c)
	list, err := h.payments.ByCustomer(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "payments": list})
}
