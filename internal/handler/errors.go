package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"foodgram/backend/internal/apperr"
	"foodgram/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
	Field string `json:"field,omitempty" example:"name"`
}

// respondError writes err with the status its kind maps to. Unclassified
// errors are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	appErr, ok := apperr.As(err)
	if !ok {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: appErr.Message, Field: appErr.Field})
}

// bindJSON decodes the request body, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperr.Validation(fe.Field(), fieldMessage(fe))
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperr.Validation(typeErr.Field, "Invalid type, expected "+typeErr.Type.String())
	}
	return apperr.Validation("", "Malformed request body")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. Letters, digits and @/./+/-/_ only."
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	}
	return "Invalid value (" + fe.Tag() + ")."
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// methodNotAllowed backs routes that exist but permit no one.
func methodNotAllowed(c *gin.Context) {
	respondError(c, apperr.MethodNotAllowed())
}
