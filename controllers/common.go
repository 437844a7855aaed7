package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restobook/restobook/services"
	"github.com/restobook/restobook/utils"
)

var ErrNoPermission = errors.New("you don't have permission to access this resource")

// actorFromContext rebuilds the service-layer actor from the JWT claims the
// auth middleware stored on the gin context.
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return services.Actor{}, false
	}
	userID, ok := userIDVal.(uint)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{UserID: userID, Role: c.GetString("role")}, true
}

// respondServiceError maps the engine's error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var navail *services.NoAvailabilityError
	switch {
	case errors.As(err, &verr):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &navail):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrReservationNotFound) || errors.Is(err, services.ErrTableNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrNotPending):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// parseReservationDate accepts "2006-01-02 15:04" or a bare "2006-01-02".
func parseReservationDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, errors.New("invalid id parameter")
	}
	return uint(id), nil
}
