package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler catches panics and returns structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details), zap.Int("status", status))
	body := gin.H{"error": message}
	if details != "" {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, body)
}

// StoreErrorKind separates transient backend failures from permanent ones.
type StoreErrorKind int

const (
	StoreErrUnknown StoreErrorKind = iota
	StoreErrNotFound
	StoreErrPermission
	StoreErrTransient
	StoreErrConflict
	StoreErrInvalid
)

// ClassifyFirestoreError inspects the gRPC status carried by Firestore and
// Firebase errors.
func ClassifyFirestoreError(err error) StoreErrorKind {
	if err == nil {
		return StoreErrUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return StoreErrTransient
	}
	var coder interface{ GRPCStatus() *status.Status }
	if !errors.As(err, &coder) {
		return StoreErrUnknown
	}
	switch coder.GRPCStatus().Code() {
	case codes.NotFound:
		return StoreErrNotFound
	case codes.PermissionDenied, codes.Unauthenticated:
		return StoreErrPermission
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return StoreErrTransient
	case codes.AlreadyExists, codes.FailedPrecondition:
		return StoreErrConflict
	case codes.InvalidArgument:
		return StoreErrInvalid
	default:
		return StoreErrUnknown
	}
}

// IsNotFound reports whether err is a Firestore NotFound.
func IsNotFound(err error) bool {
	return ClassifyFirestoreError(err) == StoreErrNotFound
}

// StatusForStoreError maps a backend failure to the HTTP status returned to clients.
func StatusForStoreError(err error) int {
	switch ClassifyFirestoreError(err) {
	case StoreErrNotFound:
		return http.StatusNotFound
	case StoreErrPermission:
		return http.StatusForbidden
	case StoreErrTransient:
		return http.StatusServiceUnavailable
	case StoreErrConflict:
		return http.StatusConflict
	case StoreErrInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StatusForError maps validation failures to 400 and defers everything else
// to StatusForStoreError.
func StatusForError(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return StatusForStoreError(err)
}
