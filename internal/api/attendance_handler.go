package api

import (
	"net/http"
	"time"

	"smartsalle/gym-app/internal/auth"
	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"
	"smartsalle/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AttendanceHandler struct {
	attendanceService service.AttendanceService
}

func NewAttendanceHandler(attendanceService service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// --- DTOs ---

type CheckInRequest struct {
	// MemberID is optional: staff pass the member they are checking in,
	// clients omit it and act on themselves.
	MemberID string `json:"memberId"`
	Type     string `json:"type" binding:"required"`
}

type CheckOutRequest struct {
	MemberID string `json:"memberId"`
}

// --- Handler Methods ---

// CheckIn handles POST /attendance/check-in. Admins and trainers may check
// in any member; clients only themselves.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	memberID, ok := resolveTargetMember(c, principal, req.MemberID)
	if !ok {
		return
	}

	record, err := h.attendanceService.CheckIn(c.Request.Context(), memberID, req.Type)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// CheckOut handles POST /attendance/check-out.
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	memberID, ok := resolveTargetMember(c, principal, req.MemberID)
	if !ok {
		return
	}

	record, err := h.attendanceService.CheckOut(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// List handles GET /attendance with optional member/type/window filters.
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := repository.AttendanceFilter{Type: c.Query("type")}

	if memberIDStr := c.Query("memberId"); memberIDStr != "" {
		memberID, err := primitive.ObjectIDFromHex(memberIDStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
			return
		}
		filter.UserID = &memberID
	}

	var ok bool
	if filter.From, filter.Until, ok = parseWindow(c); !ok {
		return
	}
	page, size := parsePaging(c)

	records, err := h.attendanceService.List(c.Request.Context(), filter, page, size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if records == nil {
		records = []domain.AttendanceRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// Stats handles GET /attendance/stats.
func (h *AttendanceHandler) Stats(c *gin.Context) {
	from, until, ok := parseWindow(c)
	if !ok {
		return
	}

	stats, err := h.attendanceService.Stats(c.Request.Context(), from, until)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// resolveTargetMember picks the member an attendance transition applies to
// and authorizes the principal against it: staff may name any member, a
// client may only act on themselves (and must have a resolvable subject).
// Writes the error response itself when it returns ok=false.
func resolveTargetMember(c *gin.Context, principal auth.Principal, memberIDStr string) (primitive.ObjectID, bool) {
	var memberID primitive.ObjectID

	if memberIDStr != "" {
		var err error
		memberID, err = primitive.ObjectIDFromHex(memberIDStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
			return primitive.NilObjectID, false
		}
	} else {
		subject, ok := principal.SubjectID()
		if !ok {
			// No target named and no resolvable subject: fail closed.
			abortWithError(c, http.StatusForbidden, auth.ErrForbidden.Error())
			return primitive.NilObjectID, false
		}
		memberID = subject
	}

	req := auth.RolesOrSelf(memberID, domain.RoleAdmin, domain.RoleTrainer)
	if err := auth.Authorize(principal, req); err != nil {
		abortWithError(c, http.StatusForbidden, auth.ErrForbidden.Error())
		return primitive.NilObjectID, false
	}

	return memberID, true
}

// parseWindow reads optional RFC 3339 startDate/endDate query parameters.
// Writes the error response itself when it returns ok=false.
func parseWindow(c *gin.Context) (from, until *time.Time, ok bool) {
	if s := c.Query("startDate"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid startDate; expected RFC 3339.")
			return nil, nil, false
		}
		from = &t
	}
	if s := c.Query("endDate"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid endDate; expected RFC 3339.")
			return nil, nil, false
		}
		until = &t
	}
	return from, until, true
}
