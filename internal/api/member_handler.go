package api

import (
	"net/http"

	"smartsalle/gym-app/internal/auth"
	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// --- DTOs ---

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

func (r CreateUserRequest) toInput() service.UserInput {
	return service.UserInput{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
	}
}

func (r UpdateUserRequest) toUpdate() service.UserUpdate {
	return service.UserUpdate{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
	}
}

// --- Handler Methods ---

// List handles GET /members.
func (h *MemberHandler) List(c *gin.Context) {
	page, size := parsePaging(c)

	members, err := h.memberService.List(c.Request.Context(), page, size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if members == nil {
		members = []domain.User{}
	}

	c.JSON(http.StatusOK, members)
}

// Create handles POST /members.
func (h *MemberHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// Update handles PUT /members/:id. Admins may update any member; a client
// only their own record.
func (h *MemberHandler) Update(c *gin.Context) {
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}

	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	if err := auth.Authorize(principal, auth.RolesOrSelf(memberID, domain.RoleAdmin)); err != nil {
		abortWithError(c, http.StatusForbidden, auth.ErrForbidden.Error())
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), memberID, req.toUpdate())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// Delete handles DELETE /members/:id.
func (h *MemberHandler) Delete(c *gin.Context) {
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), memberID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Get handles GET /members/:id. Staff may read any member; a client only
// their own record. The guard runs before the lookup so a denied caller
// learns nothing about whether the member exists.
func (h *MemberHandler) Get(c *gin.Context) {
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}

	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	req := auth.RolesOrSelf(memberID, domain.RoleAdmin, domain.RoleTrainer)
	if err := auth.Authorize(principal, req); err != nil {
		abortWithError(c, http.StatusForbidden, auth.ErrForbidden.Error())
		return
	}

	member, err := h.memberService.GetByID(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// Me handles GET /me, echoing the authenticated principal.
func (h *MemberHandler) Me(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp := gin.H{"roles": principal.Roles()}
	if subject, ok := principal.SubjectID(); ok {
		resp["userId"] = subject.Hex()
	}

	c.JSON(http.StatusOK, resp)
}
