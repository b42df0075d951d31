package api

import (
	"net/http"
	"time"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MembershipHandler struct {
	membershipService service.MembershipService
}

func NewMembershipHandler(membershipService service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

// --- DTOs ---

type LinkMembershipRequest struct {
	Email     string    `json:"email" binding:"required,email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	GymID     string    `json:"gymId" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
	Amount    float64   `json:"amount" binding:"required"`
}

// --- Handler Methods ---

// Link handles POST /memberships: resolve or create the member, create the
// membership and its pending payment, and return the payment for follow-up.
func (h *MembershipHandler) Link(c *gin.Context) {
	var req LinkMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	gymID, err := primitive.ObjectIDFromHex(req.GymID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid gym ID format.")
		return
	}

	payment, err := h.membershipService.LinkMembership(c.Request.Context(), service.LinkMembershipInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		GymID:     gymID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Amount:    req.Amount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Accepted, not Created: the membership is linked but the payment is
	// still pending settlement.
	c.JSON(http.StatusAccepted, payment)
}

// GymMembers handles GET /gyms/:id/members.
func (h *MembershipHandler) GymMembers(c *gin.Context) {
	gymID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid gym ID format.")
		return
	}

	members, err := h.membershipService.GymMembers(c.Request.Context(), gymID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if members == nil {
		members = []domain.User{}
	}

	c.JSON(http.StatusOK, members)
}
