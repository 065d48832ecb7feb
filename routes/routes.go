package routes

import (
	"github.com/gin-gonic/gin"

	"tracknship-api/handlers"
	"tracknship-api/middleware"
	"tracknship-api/models"
	"tracknship-api/store"
)

// Deps carries the constructed handlers and the pieces the guards need.
type Deps struct {
	Auth        *handlers.AuthHandler
	Bookings    *handlers.BookingHandler
	Users       *handlers.UserHandler
	Reviews     *handlers.ReviewHandler
	Payments    *handlers.PaymentHandler
	Leaderboard *handlers.LeaderboardHandler
	UserStore   *store.UserStore
	JWTSecret   []byte
}

func SetupRoutes(r *gin.Engine, d Deps) {
	authed := middleware.AuthRequired(d.JWTSecret)

	// ── Public routes ──────────────────────────────────────────────
	r.POST("/jwt", d.Auth.IssueToken)
	r.POST("/register", d.Auth.Register)
	r.POST("/login", d.Auth.Login)
	r.GET("/logout", d.Auth.Logout)
	r.GET("/deliverymen", d.Leaderboard.TopDeliveryMen)
	r.GET("/reviews/:email", d.Reviews.ReviewsFor)

	// ── Any authenticated user ─────────────────────────────────────
	user := r.Group("", authed)
	{
		user.GET("/profile", d.Auth.Profile)
		user.PATCH("/users/status", d.Users.RequestDeliveryManStatus)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("", authed, middleware.RoleRequired(d.UserStore, models.RoleCustomer))
	{
		customer.POST("/bookParcel", d.Bookings.BookParcel)
		customer.GET("/myParcel", d.Bookings.MyParcels)
		customer.PUT("/updateParcel/:id", d.Bookings.UpdateParcel)
		customer.DELETE("/bookParcel/:id", d.Bookings.DeleteParcel)
		customer.POST("/reviews", d.Reviews.CreateReview)
		customer.POST("/create-payment-intent", d.Payments.CreateIntent)
		customer.POST("/payments", d.Payments.RecordPayment)
		customer.GET("/payments", d.Payments.MyPayments)
	}

	// ── Deliveryman routes ─────────────────────────────────────────
	deliveryman := r.Group("", authed, middleware.RoleRequired(d.UserStore, models.RoleDeliveryMan))
	{
		deliveryman.PATCH("/deliverParcel/:id", d.Bookings.DeliverParcel)
		deliveryman.GET("/myDeliveryList", d.Bookings.MyDeliveryList)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("", authed, middleware.RoleRequired(d.UserStore, models.RoleAdmin))
	{
		admin.POST("/updateBooking/:id", d.Bookings.AssignDeliveryMan)
		admin.GET("/bookings", d.Bookings.AllBookings)
		admin.GET("/users", d.Users.AllUsers)
		admin.PATCH("/users/role/:email", d.Users.UpdateRole)
	}

	// ── Cancellation: admin or the owning customer ─────────────────
	cancel := r.Group("", authed, middleware.RoleRequired(d.UserStore, models.RoleAdmin, models.RoleCustomer))
	{
		cancel.PATCH("/cancelParcel/:id", d.Bookings.CancelParcel)
	}
}
