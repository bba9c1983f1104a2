package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant_service/internal/logger"
	"restaurant_service/internal/middleware"
	"restaurant_service/internal/models"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError writes {"detail": ...} with the status for the error kind.
// Anything that is not a domain error is logged and reported as a 500.
func respondError(c *gin.Context, log *logger.Logger, action string, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		c.JSON(statusFor(se.Kind), gin.H{"detail": se.Detail})
		return
	}
	c.Error(err)
	log.Error(action, middleware.GetRequestID(c), "request failed", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, services.ErrConflict), errors.Is(kind, services.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// bindFailed reports a malformed or incomplete payload.
func bindFailed(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) (*uint, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid " + name})
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid " + name})
		return nil, false
	}
	return &v, true
}

func queryString(c *gin.Context, name string) *string {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	return &raw
}

// actor is the authenticated caller set by middleware.Auth.
func actor(c *gin.Context) services.Actor {
	id, _ := c.Get(middleware.UserIDKey)
	userID, _ := id.(uint)
	return services.Actor{
		UserID: userID,
		Role:   models.UserRole(c.GetString(middleware.RoleKey)),
	}
}
