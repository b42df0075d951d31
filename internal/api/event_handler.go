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

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// --- DTOs ---

type CreateEventRequest struct {
	Title             string    `json:"title" binding:"required"`
	Description       string    `json:"description"`
	DateTime          time.Time `json:"dateTime" binding:"required"`
	DurationInMinutes int       `json:"durationInMinutes"`
	Capacity          int       `json:"capacity" binding:"required"`
	Location          string    `json:"location"`
	Type              string    `json:"type" binding:"required"`
	Status            string    `json:"status"`
	InstructorID      string    `json:"instructorId"`
}

type UpdateEventRequest struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	DateTime          *time.Time `json:"dateTime"`
	DurationInMinutes *int       `json:"durationInMinutes"`
	Capacity          *int       `json:"capacity"`
	Location          *string    `json:"location"`
	Type              *string    `json:"type"`
	Status            *string    `json:"status"`
	InstructorID      *string    `json:"instructorId"`
}

// --- Handler Methods ---

// Create handles POST /events.
func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.EventInput{
		Title:             req.Title,
		Description:       req.Description,
		DateTime:          req.DateTime,
		DurationInMinutes: req.DurationInMinutes,
		Capacity:          req.Capacity,
		Location:          req.Location,
		Type:              req.Type,
		Status:            domain.EventStatus(req.Status),
	}

	if req.InstructorID != "" {
		instructorID, err := primitive.ObjectIDFromHex(req.InstructorID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid instructor ID format.")
			return
		}
		input.InstructorID = &instructorID
	}

	event, err := h.eventService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// Get handles GET /events/:id.
func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := pathEventID(c)
	if !ok {
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), eventID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// List handles GET /events with optional status/type/window filters.
func (h *EventHandler) List(c *gin.Context) {
	filter := repository.EventFilter{
		Status: domain.EventStatus(c.Query("status")),
		Type:   c.Query("type"),
	}

	var ok bool
	if filter.From, filter.Until, ok = parseWindow(c); !ok {
		return
	}
	page, size := parsePaging(c)

	events, err := h.eventService.List(c.Request.Context(), filter, page, size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}

	c.JSON(http.StatusOK, events)
}

// Update handles PUT /events/:id.
func (h *EventHandler) Update(c *gin.Context) {
	eventID, ok := pathEventID(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	update := service.EventUpdate{
		Title:             req.Title,
		Description:       req.Description,
		DateTime:          req.DateTime,
		DurationInMinutes: req.DurationInMinutes,
		Capacity:          req.Capacity,
		Location:          req.Location,
		Type:              req.Type,
	}
	if req.Status != nil {
		status := domain.EventStatus(*req.Status)
		update.Status = &status
	}
	if req.InstructorID != nil {
		instructorID, err := primitive.ObjectIDFromHex(*req.InstructorID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid instructor ID format.")
			return
		}
		update.InstructorID = &instructorID
	}

	event, err := h.eventService.Update(c.Request.Context(), eventID, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /events/:id.
func (h *EventHandler) Delete(c *gin.Context) {
	eventID, ok := pathEventID(c)
	if !ok {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), eventID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Register handles POST /events/:id/register. The registering member is
// always the authenticated client; a principal without a resolvable
// subject is denied.
func (h *EventHandler) Register(c *gin.Context) {
	eventID, ok := pathEventID(c)
	if !ok {
		return
	}

	memberID, ok := selfSubject(c)
	if !ok {
		return
	}

	reg, err := h.eventService.Register(c.Request.Context(), eventID, memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reg)
}

// Unregister handles DELETE /events/:id/unregister.
func (h *EventHandler) Unregister(c *gin.Context) {
	eventID, ok := pathEventID(c)
	if !ok {
		return
	}

	memberID, ok := selfSubject(c)
	if !ok {
		return
	}

	if err := h.eventService.Unregister(c.Request.Context(), eventID, memberID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Registrations handles GET /events/:id/registrations.
func (h *EventHandler) Registrations(c *gin.Context) {
	eventID, ok := pathEventID(c)
	if !ok {
		return
	}

	regs, err := h.eventService.Registrations(c.Request.Context(), eventID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if regs == nil {
		regs = []domain.EventRegistration{}
	}

	c.JSON(http.StatusOK, regs)
}

// pathEventID parses the :id path parameter. Writes the error response
// itself when it returns ok=false.
func pathEventID(c *gin.Context) (primitive.ObjectID, bool) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid event ID format.")
		return primitive.NilObjectID, false
	}
	return eventID, true
}

// selfSubject returns the principal's own subject ID, denying principals
// whose token carried no resolvable subject.
func selfSubject(c *gin.Context) (primitive.ObjectID, bool) {
	principal, err := principalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
		return primitive.NilObjectID, false
	}
	subject, ok := principal.SubjectID()
	if !ok {
		abortWithError(c, http.StatusForbidden, auth.ErrForbidden.Error())
		return primitive.NilObjectID, false
	}
	return subject, true
}
