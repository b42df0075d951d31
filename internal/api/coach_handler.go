package api

import (
	"net/http"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CoachHandler struct {
	coachService service.CoachService
}

func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// List handles GET /coaches. Any authenticated user may browse coaches.
func (h *CoachHandler) List(c *gin.Context) {
	page, size := parsePaging(c)

	coaches, err := h.coachService.List(c.Request.Context(), page, size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if coaches == nil {
		coaches = []domain.User{}
	}

	c.JSON(http.StatusOK, coaches)
}

// Get handles GET /coaches/:id.
func (h *CoachHandler) Get(c *gin.Context) {
	coachID, ok := pathCoachID(c)
	if !ok {
		return
	}

	coach, err := h.coachService.GetByID(c.Request.Context(), coachID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, coach)
}

// Create handles POST /coaches.
func (h *CoachHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coach, err := h.coachService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, coach)
}

// Update handles PUT /coaches/:id.
func (h *CoachHandler) Update(c *gin.Context) {
	coachID, ok := pathCoachID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coach, err := h.coachService.Update(c.Request.Context(), coachID, req.toUpdate())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, coach)
}

// Delete handles DELETE /coaches/:id.
func (h *CoachHandler) Delete(c *gin.Context) {
	coachID, ok := pathCoachID(c)
	if !ok {
		return
	}

	if err := h.coachService.Delete(c.Request.Context(), coachID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// pathCoachID parses the :id path parameter. Writes the error response
// itself when it returns ok=false.
func pathCoachID(c *gin.Context) (primitive.ObjectID, bool) {
	coachID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid coach ID format.")
		return primitive.NilObjectID, false
	}
	return coachID, true
}
