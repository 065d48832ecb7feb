package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"tracknship-api/models"
	"tracknship-api/store"
)

type Claims struct {
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"` // informational only, never used for authorization
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a given user
func GenerateToken(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// AuthRequired validates the bearer token and injects the claim email into
// the context. It never touches the store; role checks come after.
func AuthRequired(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		c.Set("email", claims.Email)
		c.Next()
	}
}

// RoleRequired enforces that the caller currently holds one of the allowed
// roles. The role comes from a fresh store lookup on the claim email, not
// from the token: a credential issued before a role change must not keep
// its old privileges.
func RoleRequired(users *store.UserStore, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		emailVal, exists := c.Get("email")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Identity not found in context"})
			c.Abort()
			return
		}
		user, err := users.ByEmail(emailVal.(string))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "No account for this identity"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Set("currentRole", string(user.Role))
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// GetEmail extracts the verified caller identity from context
func GetEmail(c *gin.Context) string {
	val, _ := c.Get("email")
	return val.(string)
}

// GetCurrentRole extracts the store-resolved role set by RoleRequired
func GetCurrentRole(c *gin.Context) models.UserRole {
	val, _ := c.Get("currentRole")
	return models.UserRole(val.(string))
}
