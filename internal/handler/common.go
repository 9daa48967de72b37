package handler

import (
	"errors"
	"fmt"
	"net/http"

	"campus-events/internal/export"
	apperrors "campus-events/pkg/app_errors"
	"campus-events/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// EventURI 路徑中的活動 uuid
type EventURI struct {
	ID string `uri:"uuid" binding:"required,uuid"`
}

// parseEventID 解析路徑中的活動 uuid，失敗時已回應 400
func parseEventID(c *gin.Context) (uuid.UUID, bool) {
	var uri EventURI
	if err := BindUri(c, &uri); err != nil {
		return uuid.Nil, false
	}
	eventID, err := uuid.Parse(uri.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return uuid.Nil, false
	}
	return eventID, true
}

// sendCSV 以附件形式回傳 CSV
func sendCSV(c *gin.Context, filename, body string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, []byte(body))
}

func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrAuthRequired):
		log.Warn("Authentication required")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		log.Warn("Permission denied")
		c.JSON(http.StatusForbidden, gin.H{"error": "Organizer access required"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrDuplicateRegistration):
		log.Warn("Duplicate registration")
		c.JSON(http.StatusConflict, gin.H{"error": "Already registered for this event"})
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		log.Warn("Capacity exceeded")
		c.JSON(http.StatusConflict, gin.H{"error": "Event is full"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrPersistence), errors.Is(err, apperrors.ErrTicketCodeCollision):
		log.Error("Storage failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save your request, please try again"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
