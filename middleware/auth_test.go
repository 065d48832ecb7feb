package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tracknship-api/models"
	"tracknship-api/store"
)

var testSecret = []byte("test-secret")

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.UserStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	users := store.NewUserStore(newTestDB(t))

	r := gin.New()
	r.GET("/admin-only", AuthRequired(testSecret), RoleRequired(users, models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": GetEmail(c), "role": string(GetCurrentRole(c))})
	})
	return r, users
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := request(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestAuthRequiredMalformedToken(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := request(r, "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	r, users := newTestRouter(t)
	u := &models.User{Email: "admin@track.com", Role: models.RoleAdmin}
	if err := users.Create(u); err != nil {
		t.Fatalf("seed: %v", err)
	}
	token, err := GenerateToken(u, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if w := request(r, token); w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestRoleRequiredHappyPath(t *testing.T) {
	r, users := newTestRouter(t)
	u := &models.User{Email: "admin@track.com", Role: models.RoleAdmin}
	if err := users.Create(u); err != nil {
		t.Fatalf("seed: %v", err)
	}
	token, err := GenerateToken(u, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if w := request(r, token); w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestRoleRequiredUnknownUser(t *testing.T) {
	r, _ := newTestRouter(t)
	ghost := &models.User{Email: "ghost@track.com", Role: models.RoleAdmin}
	token, err := GenerateToken(ghost, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if w := request(r, token); w.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", w.Code)
	}
}

// A still-valid credential must not keep privileges the store has since
// revoked: the guard re-reads the role on every request.
func TestRoleRequiredStaleRoleInToken(t *testing.T) {
	r, users := newTestRouter(t)
	u := &models.User{Email: "admin@track.com", Role: models.RoleAdmin}
	if err := users.Create(u); err != nil {
		t.Fatalf("seed: %v", err)
	}
	token, err := GenerateToken(u, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	if _, err := users.UpdateRole("admin@track.com", models.RoleCustomer); err != nil {
		t.Fatalf("downgrade: %v", err)
	}

	if w := request(r, token); w.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403 after role downgrade", w.Code)
	}
}
