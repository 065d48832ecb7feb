package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracknship-api/middleware"
	"tracknship-api/models"
	"tracknship-api/store"
)

type ReviewHandler struct {
	reviews  *store.ReviewStore
	bookings *store.BookingStore
}

func NewReviewHandler(reviews *store.ReviewStore, bookings *store.BookingStore) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, bookings: bookings}
}

type CreateReviewRequest struct {
	BookingID uint    `json:"booking_id" binding:"required"`
	Rating    float64 `json:"rating" binding:"required,min=1,max=5"`
	Comment   string  `json:"comment"`
}

// CreateReview lets the owning customer review a delivered booking, once
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	email := middleware.GetEmail(c)

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.ByID(req.BookingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load booking"})
		return
	}
	if booking.CustomerEmail != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "This booking does not belong to you"})
		return
	}
	if booking.Status != models.StatusDelivered || booking.DeliveryManEmail == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Only delivered bookings can be reviewed"})
		return
	}
	if _, err := h.reviews.ByBooking(booking.ID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Booking already reviewed"})
		return
	}

	review := models.Review{
		BookingID:        booking.ID,
		DeliveryManEmail: *booking.DeliveryManEmail,
		ReviewerEmail:    email,
		Rating:           req.Rating,
		Comment:          req.Comment,
	}
	if err := h.reviews.Create(&review); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review submitted", "review": review})
}

// ReviewsFor returns all reviews of a deliveryman with their average rating
func (h *ReviewHandler) ReviewsFor(c *gin.Context) {
	email := c.Param("email")
	reviews, err := h.reviews.ByDeliveryMan(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}
	avg, err := h.reviews.AvgRating(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rating"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":          len(reviews),
		"average_rating": avg,
		"reviews":        reviews,
	})
}
