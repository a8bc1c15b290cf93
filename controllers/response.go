package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/gin-gonic/gin"
)

const defaultTimeout = 5 * time.Second

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// respondError maps store and validation errors onto the API's status codes.
// Anything unrecognised is logged under tag and answered with a 500.
func respondError(c *gin.Context, tag string, err error) {
	var fieldsErr *models.FieldsError
	var valueErr *models.ValueError

	switch {
	case errors.As(err, &fieldsErr):
		respondMessage(c, http.StatusBadRequest, fieldsErr.Error())
	case errors.As(err, &valueErr):
		respondMessage(c, http.StatusBadRequest, valueErr.Error())
	case errors.Is(err, models.ErrInvalidID):
		respondMessage(c, http.StatusBadRequest, "Invalid ID format")
	case errors.Is(err, models.ErrNotFound):
		respondMessage(c, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrDuplicate):
		respondMessage(c, http.StatusConflict, "Already exists")
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("[%s] [ERROR] %s %s timed out: %v", tag, c.Request.Method, c.FullPath(), err)
		respondMessage(c, http.StatusGatewayTimeout, "Request timed out")
	default:
		log.Printf("[%s] [ERROR] %s %s: %v", tag, c.Request.Method, c.FullPath(), err)
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
	}
}

// bindPayload reads the body as a JSON object.
func bindPayload(c *gin.Context) (map[string]any, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil || payload == nil {
		respondMessage(c, http.StatusBadRequest, "Request body must be a JSON object")
		return nil, false
	}
	return payload, true
}

func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// entityTitle turns "user location" into "User location".
func entityTitle(entity string) string {
	if entity == "" {
		return entity
	}
	return strings.ToUpper(entity[:1]) + entity[1:]
}
