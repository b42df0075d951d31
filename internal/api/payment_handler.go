package api

import (
	"net/http"
	"time"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"
	"smartsalle/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// --- DTOs ---

type CreatePaymentRequest struct {
	MemberID     string     `json:"memberId" binding:"required"`
	Amount       float64    `json:"amount" binding:"required"`
	Method       string     `json:"method"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"dueDate"`
	MembershipID string     `json:"membershipId"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Handler Methods ---

// Create handles POST /payments: record an ad-hoc payment against a member,
// optionally linked to one of their memberships.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}

	input := service.CreatePaymentInput{
		UserID: memberID,
		Amount: req.Amount,
		Method: req.Method,
		Status: req.Status,
	}
	if req.DueDate != nil {
		input.DueDate = *req.DueDate
	}
	if req.MembershipID != "" {
		membershipID, err := primitive.ObjectIDFromHex(req.MembershipID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid membership ID format.")
			return
		}
		input.MembershipID = &membershipID
	}

	payment, err := h.paymentService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// List handles GET /payments with optional member/status/window filters.
func (h *PaymentHandler) List(c *gin.Context) {
	filter := repository.PaymentFilter{
		Status: domain.PaymentStatus(c.Query("status")),
	}

	if memberIDStr := c.Query("memberId"); memberIDStr != "" {
		memberID, err := primitive.ObjectIDFromHex(memberIDStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
			return
		}
		filter.UserID = &memberID
	}

	var ok bool
	if filter.DueFrom, filter.DueUntil, ok = parseWindow(c); !ok {
		return
	}
	page, size := parsePaging(c)

	payments, err := h.paymentService.List(c.Request.Context(), filter, page, size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}

	c.JSON(http.StatusOK, payments)
}

// Get handles GET /payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid payment ID format.")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// UpdateStatus handles PATCH /payments/:id/status.
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	paymentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid payment ID format.")
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	payment, err := h.paymentService.UpdateStatus(c.Request.Context(), paymentID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// Stats handles GET /payments/stats.
func (h *PaymentHandler) Stats(c *gin.Context) {
	stats, err := h.paymentService.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
