package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tracknship-api/middleware"
	"tracknship-api/models"
	"tracknship-api/store"
)

type UserHandler struct {
	users *store.UserStore
}

func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// AllUsers returns all users, optionally filtered by role (admin only)
func (h *UserHandler) AllUsers(c *gin.Context) {
	users, err := h.users.All(c.Query("role"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// UpdateRole changes a user's role (admin only)
func (h *UserHandler) UpdateRole(c *gin.Context) {
	email := c.Param("email")
	var req struct {
		Role models.UserRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validRoles := map[models.UserRole]bool{
		models.RoleCustomer:    true,
		models.RoleAdmin:       true,
		models.RoleDeliveryMan: true,
	}
	if !validRoles[req.Role] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: customer, admin, or deliveryman"})
		return
	}

	affected, err := h.users.UpdateRole(email, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "email": email, "role": req.Role})
}

// RequestDeliveryManStatus lets a user apply to become a deliveryman
func (h *UserHandler) RequestDeliveryManStatus(c *gin.Context) {
	email := middleware.GetEmail(c)
	affected, err := h.users.UpdateStatus(email, models.UserStatusRequested)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Deliveryman status requested",
		"email":   email,
		"status":  models.UserStatusRequested,
	})
}
