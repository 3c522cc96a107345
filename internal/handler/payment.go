package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/middleware"
	"github.com/citywaste/waste-flow-api/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Initiate handles both the full and the quick payment endpoints; the quick
// variant simply omits the buyer identity fields.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.paymentService.Initiate(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		var rejected *service.GatewayRejectedError
		switch {
		case errors.Is(err, service.ErrNotYourOrder):
			c.JSON(http.StatusForbidden, gin.H{"error": "you cannot pay for this order"})
		case errors.As(err, &rejected):
			c.JSON(http.StatusBadRequest, gin.H{"error": rejected.Error()})
		case errors.Is(err, service.ErrGatewayUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment request failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Webhook receives the gateway callback. It is deliberately forgiving: the
// caller is a machine that has already disconnected from the user, so
// malformed input earns a benign message rather than an error status.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var payload dto.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Invalid request"})
		return
	}

	msg, err := h.paymentService.HandleWebhook(c.Request.Context(), payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
