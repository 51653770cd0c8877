package response

import (
	"errors"
	"net/http"

	"github.com/blooner/bloodlink/internal/pkg/pagination"
	"github.com/blooner/bloodlink/internal/pkg/validator"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standard error payload returned by the API
type ErrorResponse struct {
	Error string `json:"error" example:"unauthorized access"`
	Code  string `json:"code,omitempty" example:"UNAUTHORIZED"`
}

// SuccessResponse represents a standard success payload
type SuccessResponse struct {
	Status string      `json:"status" example:"success"`
	Data   interface{} `json:"data"`
}

// PaginatedResponse represents a paginated list response
type PaginatedResponse struct {
	Status     string      `json:"status" example:"success"`
	Data       interface{} `json:"data"`
	TotalCount int64       `json:"totalCount" example:"25"`
	Page       int         `json:"page" example:"1"`
	PageSize   int         `json:"pageSize" example:"10"`
	Pages      int         `json:"pages" example:"3"`
}

// Success sends a 200 OK response with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Status: "success",
		Data:   data,
	})
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Status: "success",
		Data:   data,
	})
}

// Paginated sends one page of data with its totals.
func Paginated(c *gin.Context, data interface{}, p *pagination.Pagination) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Status:     "success",
		Data:       data,
		TotalCount: p.Total,
		Page:       p.Page,
		PageSize:   p.Limit,
		Pages:      p.Pages,
	})
}

// Error sends an error response with custom status code and message
func Error(c *gin.Context, statusCode int, message string, errorCode ...string) {
	code := ""
	if len(errorCode) > 0 {
		code = errorCode[0]
	}

	c.JSON(statusCode, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusBadRequest, message, errorCode...)
}

// ValidationError sends a 422 Unprocessable Entity error
func ValidationError(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusUnprocessableEntity, message, errorCode...)
}

// InternalServerError sends a 500 Internal Server Error
func InternalServerError(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusInternalServerError, message, errorCode...)
}

// ServiceUnavailable sends a 503 Service Unavailable error
func ServiceUnavailable(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusServiceUnavailable, message, errorCode...)
}

// BindJSONError answers a failed ShouldBindJSON: 422 when the body decoded
// but broke a rule, 400 when it could not be decoded at all.
func BindJSONError(c *gin.Context, err error) {
	if validator.IsValidationError(err) {
		ValidationFailed(c, validator.Translate(err))
		return
	}
	BadRequest(c, "Invalid request format", "INVALID_JSON")
}

// ValidationFailed handles validation errors
func ValidationFailed(c *gin.Context, message string) {
	ValidationError(c, message, "VALIDATION_FAILED")
}

// FromError writes the response for err according to its kind. Only the
// message of a typed error reaches the client.
func FromError(c *gin.Context, err error) {
	status := StatusFor(apperrors.KindOf(err))

	var e *apperrors.Error
	if !errors.As(err, &e) || e.Kind == apperrors.KindInternal {
		Error(c, status, fallbackMessage(status), fallbackCode(status))
		return
	}
	Error(c, status, e.Message, e.Code)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInvalid:
		return http.StatusBadRequest
	case apperrors.KindValidation:
		return http.StatusUnprocessableEntity
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fallbackMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "unauthorized access"
	case http.StatusForbidden:
		return "forbidden access"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusConflict:
		return "Resource state conflict"
	case http.StatusServiceUnavailable:
		return "Service unavailable"
	case http.StatusInternalServerError:
		return "Internal server error"
	}
	return http.StatusText(status)
}

func fallbackCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	case http.StatusInternalServerError:
		return "INTERNAL_ERROR"
	}
	return "BAD_REQUEST"
}
