package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/hopefund/backend/internal/services"
	"github.com/hopefund/backend/pkg/logger"
	"github.com/hopefund/backend/pkg/response"
)

type DonationHandler struct {
	payments        *services.RazorpayClient
	donationService *services.DonationService
	currency        string
}

func NewDonationHandler(payments *services.RazorpayClient, donationService *services.DonationService, currency string) *DonationHandler {
	if currency == "" {
		currency = "INR"
	}
	return &DonationHandler{
		payments:        payments,
		donationService: donationService,
		currency:        currency,
	}
}

type CreateOrderRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// DonationPayload carries the donation fields nested under "donation" in the
// verify request.
type DonationPayload struct {
	ProjectID  uint    `json:"project_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	DonorName  string  `json:"name"`
	DonorEmail string  `json:"email"`
	Message    string  `json:"message"`
}

type VerifyPaymentRequest struct {
	OrderID   string          `json:"razorpay_order_id" binding:"required"`
	PaymentID string          `json:"razorpay_payment_id" binding:"required"`
	Signature string          `json:"razorpay_signature" binding:"required"`
	Donation  DonationPayload `json:"donation" binding:"required"`
}

// CreateOrder opens a provider-side payment order for the requested amount.
// No donation is recorded here; nothing exists until the payment verifies.
// POST /donations/order
func (h *DonationHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.payments.CreateOrder(c.Request.Context(), req.Amount, h.currency)
	if err != nil {
		logger.Error().Err(err).Float64("amount", req.Amount).Msg("payment order creation failed")
		response.UpstreamError(c, "payment provider unavailable")
		return
	}

	response.Success(c, gin.H{
		"order_id": order.ID,
		"amount":   order.Amount,
	})
}

// Verify checks the provider signature and, if authentic, settles the
// donation. A replayed verification for an already-settled payment succeeds
// without changing any aggregates.
// POST /donations/verify
func (h *DonationHandler) Verify(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if !h.payments.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		logger.Warn().
			Str("order_id", req.OrderID).
			Str("payment_id", req.PaymentID).
			Msg("payment signature verification failed")
		response.BadRequest(c, "invalid payment signature")
		return
	}

	draft := &services.DonationDraft{
		ProjectID:  req.Donation.ProjectID,
		Amount:     req.Donation.Amount,
		DonorName:  req.Donation.DonorName,
		DonorEmail: req.Donation.DonorEmail,
		Message:    req.Donation.Message,
	}

	_, err := h.donationService.Settle(draft, req.PaymentID)
	switch {
	case err == nil, errors.Is(err, services.ErrAlreadySettled):
		response.Success(c, gin.H{"status": "success"})
	case errors.Is(err, services.ErrInvalidDonation):
		response.BadRequest(c, "invalid donation")
	case errors.Is(err, services.ErrProjectNotFound):
		response.NotFound(c, "project not found")
	default:
		var se *services.SettlementError
		if errors.As(err, &se) {
			response.Error(c, response.NewSettlementFailure("payment captured but settlement failed, contact support"))
			return
		}
		response.Error(c, err)
	}
}
