package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tracknship-api/lifecycle"
	"tracknship-api/middleware"
	"tracknship-api/models"
	"tracknship-api/store"
)

type BookingHandler struct {
	engine   *lifecycle.Engine
	bookings *store.BookingStore
}

func NewBookingHandler(engine *lifecycle.Engine, bookings *store.BookingStore) *BookingHandler {
	return &BookingHandler{engine: engine, bookings: bookings}
}

type BookParcelRequest struct {
	ParcelType      string    `json:"parcel_type" binding:"required"`
	Weight          float64   `json:"weight_kg" binding:"required,gt=0"`
	ReceiverName    string    `json:"receiver_name" binding:"required"`
	ReceiverPhone   string    `json:"receiver_phone"`
	DeliveryAddress string    `json:"delivery_address" binding:"required"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	RequestedDate   time.Time `json:"requested_date" binding:"required"`
	Price           float64   `json:"price" binding:"required,gt=0"`
}

type AssignRequest struct {
	DeliveryManEmail string    `json:"deliveryman_email" binding:"required,email"`
	ApproximateDate  time.Time `json:"approximate_date" binding:"required"`
}

type UpdateParcelRequest struct {
	ParcelType      *string    `json:"parcel_type"`
	Weight          *float64   `json:"weight_kg"`
	ReceiverName    *string    `json:"receiver_name"`
	ReceiverPhone   *string    `json:"receiver_phone"`
	DeliveryAddress *string    `json:"delivery_address"`
	Latitude        *float64   `json:"latitude"`
	Longitude       *float64   `json:"longitude"`
	RequestedDate   *time.Time `json:"requested_date"`
	Price           *float64   `json:"price"`
}

func bookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return 0, false
	}
	return uint(id), true
}

// writeLifecycleError maps the engine's error taxonomy onto HTTP codes
func writeLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrNotDeliveryMan):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// BookParcel creates a new Pending booking (customer only)
func (h *BookingHandler) BookParcel(c *gin.Context) {
	email := middleware.GetEmail(c)

	var req BookParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking := models.Booking{
		TrackingID:      uuid.NewString(),
		CustomerEmail:   email,
		Status:          models.StatusPending,
		ParcelType:      req.ParcelType,
		Weight:          req.Weight,
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		DeliveryAddress: req.DeliveryAddress,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		RequestedDate:   req.RequestedDate,
		Price:           req.Price,
		PaymentStatus:   "unpaid",
	}
	if err := h.bookings.Create(&booking); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book parcel"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Parcel booked successfully",
		"booking": booking,
	})
}

// MyParcels returns all bookings of the logged-in customer
func (h *BookingHandler) MyParcels(c *gin.Context) {
	email := middleware.GetEmail(c)
	bookings, err := h.bookings.ByCustomer(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}

// UpdateParcel edits a booking's fields (owner, before assignment)
func (h *BookingHandler) UpdateParcel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req UpdateParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if req.ParcelType != nil {
		fields["parcel_type"] = *req.ParcelType
	}
	if req.Weight != nil {
		fields["weight"] = *req.Weight
	}
	if req.ReceiverName != nil {
		fields["receiver_name"] = *req.ReceiverName
	}
	if req.ReceiverPhone != nil {
		fields["receiver_phone"] = *req.ReceiverPhone
	}
	if req.DeliveryAddress != nil {
		fields["delivery_address"] = *req.DeliveryAddress
	}
	if req.Latitude != nil {
		fields["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		fields["longitude"] = *req.Longitude
	}
	if req.RequestedDate != nil {
		fields["requested_date"] = *req.RequestedDate
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}

	if err := h.engine.Edit(id, middleware.GetEmail(c), fields); err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking updated", "booking_id": id})
}

// DeleteParcel removes a Pending booking (owner only)
func (h *BookingHandler) DeleteParcel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	if err := h.engine.Delete(id, middleware.GetEmail(c)); err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted", "booking_id": id})
}

// AssignDeliveryMan transitions Pending -> On The Way (admin only)
func (h *BookingHandler) AssignDeliveryMan(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.engine.Assign(id, req.DeliveryManEmail, req.ApproximateDate); err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Delivery man assigned",
		"booking_id":     id,
		"modified_count": 1,
		"status":         models.StatusOnTheWay,
	})
}

// DeliverParcel transitions On The Way -> Delivered (assigned deliveryman)
func (h *BookingHandler) DeliverParcel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	if err := h.engine.ConfirmDelivery(id, middleware.GetEmail(c)); err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Parcel delivered successfully",
		"booking_id": id,
		"status":     models.StatusDelivered,
	})
}

// CancelParcel transitions a non-terminal booking to Cancelled
// (admin or owning customer)
func (h *BookingHandler) CancelParcel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	isAdmin := middleware.GetCurrentRole(c) == models.RoleAdmin
	if err := h.engine.Cancel(id, middleware.GetEmail(c), isAdmin); err != nil {
		writeLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Booking cancelled",
		"booking_id": id,
		"status":     models.StatusCancelled,
	})
}

// MyDeliveryList returns bookings assigned to the logged-in deliveryman
func (h *BookingHandler) MyDeliveryList(c *gin.Context) {
	email := middleware.GetEmail(c)
	bookings, err := h.bookings.ByDeliveryMan(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load deliveries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}

// AllBookings returns every booking, optionally filtered by status (admin)
func (h *BookingHandler) AllBookings(c *gin.Context) {
	bookings, err := h.bookings.All(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookings"})
		return
	}

	summary := map[string]int{}
	for _, b := range bookings {
		summary[string(b.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"count":           len(bookings),
		"booking_summary": summary,
		"bookings":        bookings,
	})
}
