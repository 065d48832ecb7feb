package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tracknship-api/leaderboard"
	"tracknship-api/lifecycle"
	"tracknship-api/middleware"
	"tracknship-api/models"
	"tracknship-api/store"
)

var testSecret = []byte("test-secret")

// fakeGateway stands in for the external payment processor.
type fakeGateway struct {
	calls int
	fail  bool
}

func (f *fakeGateway) CreateIntent(amountCents int64, currency string) (string, string, error) {
	f.calls++
	if f.fail {
		return "", "", fmt.Errorf("gateway unavailable")
	}
	return fmt.Sprintf("secret_%d_%s", amountCents, currency), "pi_test", nil
}

type env struct {
	router  *gin.Engine
	db      *gorm.DB
	users   *store.UserStore
	gateway *fakeGateway
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Booking{}, &models.Review{}, &models.Payment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := store.NewUserStore(db)
	bookings := store.NewBookingStore(db)
	reviews := store.NewReviewStore(db)
	paymentStore := store.NewPaymentStore(db)
	engine := lifecycle.NewEngine(bookings, users, lifecycle.NewDeliveryCounter(users))
	gateway := &fakeGateway{}

	authed := middleware.AuthRequired(testSecret)
	bookingH := NewBookingHandler(engine, bookings)
	paymentH := NewPaymentHandler(paymentStore, bookings, gateway)
	reviewH := NewReviewHandler(reviews, bookings)
	leaderboardH := NewLeaderboardHandler(leaderboard.NewAggregator(users, bookings, reviews))

	r := gin.New()
	r.GET("/deliverymen", leaderboardH.TopDeliveryMen)
	r.POST("/bookParcel", authed, middleware.RoleRequired(users, models.RoleCustomer), bookingH.BookParcel)
	r.POST("/updateBooking/:id", authed, middleware.RoleRequired(users, models.RoleAdmin), bookingH.AssignDeliveryMan)
	r.PATCH("/deliverParcel/:id", authed, middleware.RoleRequired(users, models.RoleDeliveryMan), bookingH.DeliverParcel)
	r.PATCH("/cancelParcel/:id", authed, middleware.RoleRequired(users, models.RoleAdmin, models.RoleCustomer), bookingH.CancelParcel)
	r.POST("/reviews", authed, middleware.RoleRequired(users, models.RoleCustomer), reviewH.CreateReview)
	r.POST("/create-payment-intent", authed, middleware.RoleRequired(users, models.RoleCustomer), paymentH.CreateIntent)

	return &env{router: r, db: db, users: users, gateway: gateway}
}

func (e *env) seedUser(t *testing.T, email string, role models.UserRole) string {
	t.Helper()
	u := &models.User{Name: email, Email: email, Role: role}
	if err := e.users.Create(u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	token, err := middleware.GenerateToken(u, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token for %s: %v", email, err)
	}
	return token
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func bookBody() map[string]interface{} {
	return map[string]interface{}{
		"parcel_type":      "documents",
		"weight_kg":        1.5,
		"receiver_name":    "Receiver",
		"delivery_address": "12 Harbor Lane",
		"requested_date":   time.Now().AddDate(0, 0, 3).Format(time.RFC3339),
		"price":            50,
	}
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t)
	customer := e.seedUser(t, "cust@track.com", models.RoleCustomer)
	admin := e.seedUser(t, "admin@track.com", models.RoleAdmin)
	rider := e.seedUser(t, "rider@track.com", models.RoleDeliveryMan)

	// customer books a parcel
	w := e.do(t, http.MethodPost, "/bookParcel", customer, bookBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("book: code = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Booking.Status != models.StatusPending || created.Booking.TrackingID == "" {
		t.Fatalf("created booking = %+v", created.Booking)
	}
	id := created.Booking.ID

	// a deliveryman may not assign
	assignBody := map[string]interface{}{
		"deliveryman_email": "rider@track.com",
		"approximate_date":  time.Now().AddDate(0, 0, 2).Format(time.RFC3339),
	}
	if w := e.do(t, http.MethodPost, fmt.Sprintf("/updateBooking/%d", id), rider, assignBody); w.Code != http.StatusForbidden {
		t.Fatalf("assign as rider: code = %d, want 403", w.Code)
	}

	// admin assigns
	if w := e.do(t, http.MethodPost, fmt.Sprintf("/updateBooking/%d", id), admin, assignBody); w.Code != http.StatusOK {
		t.Fatalf("assign: code = %d, body %s", w.Code, w.Body.String())
	}

	// assigned rider delivers
	if w := e.do(t, http.MethodPatch, fmt.Sprintf("/deliverParcel/%d", id), rider, nil); w.Code != http.StatusOK {
		t.Fatalf("deliver: code = %d, body %s", w.Code, w.Body.String())
	}

	// a second confirmation conflicts
	if w := e.do(t, http.MethodPatch, fmt.Sprintf("/deliverParcel/%d", id), rider, nil); w.Code != http.StatusConflict {
		t.Fatalf("re-deliver: code = %d, want 409", w.Code)
	}

	// customer reviews the delivered booking
	reviewBody := map[string]interface{}{"booking_id": id, "rating": 5, "comment": "fast"}
	if w := e.do(t, http.MethodPost, "/reviews", customer, reviewBody); w.Code != http.StatusCreated {
		t.Fatalf("review: code = %d, body %s", w.Code, w.Body.String())
	}
	if w := e.do(t, http.MethodPost, "/reviews", customer, reviewBody); w.Code != http.StatusConflict {
		t.Fatalf("duplicate review: code = %d, want 409", w.Code)
	}

	// the leaderboard reflects the delivery
	w = e.do(t, http.MethodGet, "/deliverymen", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("leaderboard: code = %d", w.Code)
	}
	var board struct {
		DeliveryMen []leaderboard.Entry `json:"deliverymen"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &board); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	if len(board.DeliveryMen) != 1 || board.DeliveryMen[0].DeliveredCount != 1 || board.DeliveryMen[0].AverageRating != 5 {
		t.Fatalf("leaderboard = %+v", board.DeliveryMen)
	}
}

func TestCancelRequiresOwnershipOverHTTP(t *testing.T) {
	e := newEnv(t)
	customer := e.seedUser(t, "cust@track.com", models.RoleCustomer)
	stranger := e.seedUser(t, "stranger@track.com", models.RoleCustomer)

	w := e.do(t, http.MethodPost, "/bookParcel", customer, bookBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("book: code = %d", w.Code)
	}
	var created struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	id := created.Booking.ID

	if w := e.do(t, http.MethodPatch, fmt.Sprintf("/cancelParcel/%d", id), stranger, nil); w.Code != http.StatusForbidden {
		t.Fatalf("stranger cancel: code = %d, want 403", w.Code)
	}
	if w := e.do(t, http.MethodPatch, fmt.Sprintf("/cancelParcel/%d", id), customer, nil); w.Code != http.StatusOK {
		t.Fatalf("owner cancel: code = %d, body %s", w.Code, w.Body.String())
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	e := newEnv(t)
	customer := e.seedUser(t, "cust@track.com", models.RoleCustomer)

	w := e.do(t, http.MethodPost, "/bookParcel", customer, bookBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("book: code = %d", w.Code)
	}
	var created struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = e.do(t, http.MethodPost, "/create-payment-intent", customer, map[string]interface{}{"booking_id": created.Booking.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("intent: code = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode intent: %v", err)
	}
	if resp.ClientSecret != "secret_5000_usd" {
		t.Errorf("client secret = %q", resp.ClientSecret)
	}
	if e.gateway.calls != 1 {
		t.Errorf("gateway calls = %d, want 1", e.gateway.calls)
	}
}
