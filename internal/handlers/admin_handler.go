package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"phone_orders/internal/models"
	"phone_orders/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const maxListLimit = 500

// OrderArchiveReader is the read side of the confirmed order archive.
type OrderArchiveReader interface {
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.ConfirmedOrder, error)
	List(ctx context.Context, limit int) ([]models.ConfirmedOrder, error)
}

type AdminHandler struct {
	archive   OrderArchiveReader
	tokenHash []byte
}

func NewAdminHandler(archive OrderArchiveReader, tokenHash string) *AdminHandler {
	return &AdminHandler{archive: archive, tokenHash: []byte(tokenHash)}
}

// RequireToken checks the bearer token against the configured bcrypt hash.
func (h *AdminHandler) RequireToken(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
		return
	}
	if err := bcrypt.CompareHashAndPassword(h.tokenHash, []byte(token)); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	c.Next()
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxListLimit)
	}

	orders, err := h.archive.List(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list confirmed orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	orderNumber := c.Param("order_number")

	order, err := h.archive.GetByOrderNumber(c.Request.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		log.Error().Err(err).Str("order_number", orderNumber).Msg("failed to load confirmed order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	c.JSON(http.StatusOK, order)
}
