package api

import (
	"errors"
	"net/http"

	"smartsalle/gym-app/internal/auth"
	"smartsalle/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer errors to HTTP responses. Every
// sentinel the services can return has a mapping here; anything else is an
// unexpected failure and gets a generic 500 so internals never leak.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrGymNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrInstructorNotFound),
		errors.Is(err, service.ErrNoActiveCheckIn),
		errors.Is(err, service.ErrNotRegistered),
		errors.Is(err, service.ErrMembershipNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrAlreadyCheckedIn),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrEventNotUpcoming),
		errors.Is(err, service.ErrEmailInUse):
		abortWithError(c, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, auth.ErrForbidden):
		// Generic body: a denial must not reveal whether the resource exists.
		abortWithError(c, http.StatusForbidden, auth.ErrForbidden.Error())

	default:
		abortWithError(c, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
