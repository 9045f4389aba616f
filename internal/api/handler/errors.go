package handler

import (
	"civiceye/backend/internal/complaint"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgInternal    = "Internal Server Error"
	msgCreateError = "Error Occured"
)

// respondError maps the complaint error taxonomy onto HTTP statuses. Anything
// outside it is logged and answered with 500 and the generic fallback text.
func respondError(c *gin.Context, err error, fallback string) {
	var (
		validation *complaint.ValidationError
		notFound   *complaint.NotFoundError
		forbidden  *complaint.ForbiddenError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"message": validation.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Message})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": forbidden.Message})
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}
