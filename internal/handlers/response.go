package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sachinottawa/call-agent-backend/internal/apierr"
)

func RespondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps a service error onto the wire: validation messages
// go to the caller verbatim as 400s; anything else becomes the given generic
// 500 message (details stay in server logs only).
func RespondServiceError(c *gin.Context, err error, fallback string) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status == http.StatusBadRequest {
		RespondError(c, http.StatusBadRequest, ae.Error())
		return
	}
	RespondError(c, http.StatusInternalServerError, fallback)
}
