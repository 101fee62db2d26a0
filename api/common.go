package api

import (
	"errors"
	"net/http"

	"github.com/akimenko/airtech/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrFlightNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrTicketNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), gin.H{"error": err.Error()})
}
