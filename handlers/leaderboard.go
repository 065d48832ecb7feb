package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tracknship-api/leaderboard"
)

type LeaderboardHandler struct {
	agg *leaderboard.Aggregator
}

func NewLeaderboardHandler(agg *leaderboard.Aggregator) *LeaderboardHandler {
	return &LeaderboardHandler{agg: agg}
}

// TopDeliveryMen returns the public delivery-man ranking (default top 3)
func (h *LeaderboardHandler) TopDeliveryMen(c *gin.Context) {
	limit := 3
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := h.agg.TopDeliveryMen(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "deliverymen": entries})
}
