package api

import (
	"net/http"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GymHandler struct {
	gymService service.GymService
}

func NewGymHandler(gymService service.GymService) *GymHandler {
	return &GymHandler{gymService: gymService}
}

// --- DTOs ---

type CreateGymRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// --- Handler Methods ---

// Create handles POST /gyms.
func (h *GymHandler) Create(c *gin.Context) {
	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	gym, err := h.gymService.Create(c.Request.Context(), service.GymInput{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gym)
}

// Get handles GET /gyms/:id.
func (h *GymHandler) Get(c *gin.Context) {
	gymID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid gym ID format.")
		return
	}

	gym, err := h.gymService.GetByID(c.Request.Context(), gymID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gym)
}

// List handles GET /gyms.
func (h *GymHandler) List(c *gin.Context) {
	gyms, err := h.gymService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if gyms == nil {
		gyms = []domain.Gym{}
	}

	c.JSON(http.StatusOK, gyms)
}
