package ledger

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type HTTPHandler struct {
	ledger    Service
	pageLimit int
}

func NewHTTPHandler(ledgerService Service, pageLimit int) *HTTPHandler {
	return &HTTPHandler{
		ledger:    ledgerService,
		pageLimit: clampLimit(pageLimit),
	}
}

func (h *HTTPHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/api/history/:player_id", h.handleRecent)
}

func (h *HTTPHandler) handleRecent(c *gin.Context) {
	playerID, err := strconv.ParseUint(c.Param("player_id"), 10, 64)
	if err != nil || playerID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}
	limit := h.pageLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = clampLimit(n)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	items, err := h.ledger.ListRecent(ctx, playerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query history failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
