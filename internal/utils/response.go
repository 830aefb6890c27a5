package utils

import (
	"net/http"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/clientscore/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Message    string                  `json:"message"`
	StatusCode int                     `json:"statusCode"`
	Fields     []apperrors.FieldError `json:"fields,omitempty"`
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error:   &ErrorBody{Message: message, StatusCode: statusCode},
	})
}

// SendAppError writes err using its classified status. Unclassified errors
// are logged and reported as a generic 500.
func SendAppError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.WithFields(logger.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("request failed")
	}

	c.AbortWithStatusJSON(appErr.Status, APIResponse{
		Success: false,
		Error: &ErrorBody{
			Message:    appErr.Message,
			StatusCode: appErr.Status,
			Fields:     appErr.Fields,
		},
	})
}
