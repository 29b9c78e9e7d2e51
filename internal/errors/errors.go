package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory classifies an error for handling and surfacing.
type ErrorCategory string

const (
	CategoryValidation  ErrorCategory = "validation"
	CategoryNotFound    ErrorCategory = "not_found"
	CategoryRateLimited ErrorCategory = "rate_limited"
	CategoryTransient   ErrorCategory = "transient"
	CategoryTimeout     ErrorCategory = "timeout"
	CategoryLLM         ErrorCategory = "llm_unavailable"
	CategoryInternal    ErrorCategory = "internal"
)

// AppError wraps an errbuilder error with the category and HTTP status the
// handlers need to surface it.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(string(e.Category)), e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// NewAppError creates an AppError from an errbuilder with routing context.
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// NewValidationError reports malformed caller input.
func NewValidationError(message string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	return NewAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewNotFoundError reports an identifier that does not resolve to a profile.
func NewNotFoundError(username string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("GitHub user %q not found", username))

	return NewAppError(builder, CategoryNotFound, http.StatusNotFound)
}

// NewRateLimitedError reports external API quota exhaustion. The message
// tells the user how to raise the limit; resetAt is included when known.
func NewRateLimitedError(authenticated bool, resetAt time.Time) *AppError {
	msg := "GitHub API rate limit exceeded"
	if !resetAt.IsZero() {
		msg += fmt.Sprintf("; resets at %s", resetAt.UTC().Format("15:04:05 MST"))
	}
	if !authenticated {
		msg += ". Provide a GITHUB_TOKEN for the 5000 requests/hour limit"
	}

	errorMap := errbuilder.ErrorMap{}
	if !resetAt.IsZero() {
		errorMap.Set("reset_at", errors.New(resetAt.UTC().Format(time.RFC3339)))
	}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg(msg).
		WithDetails(errbuilder.NewErrDetails(errorMap))

	return NewAppError(builder, CategoryRateLimited, http.StatusTooManyRequests)
}

// NewTransientError reports a network-level failure eligible for retry.
func NewTransientError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryTransient, http.StatusBadGateway)
}

// NewTimeoutError reports an expired deadline on a blocking call.
func NewTimeoutError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeDeadlineExceeded).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryTimeout, http.StatusGatewayTimeout)
}

// NewLLMUnavailableError marks a narrative-path failure. It is logged and
// triggers the rule-based fallback; it is never surfaced to callers.
func NewLLMUnavailableError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryLLM, http.StatusServiceUnavailable)
}

// NewInternalError reports an unexpected failure.
func NewInternalError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryInternal, http.StatusInternalServerError)
}

// ToAppError converts any error to an AppError, classifying common network
// failures along the way.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if ebErr, ok := err.(*errbuilder.ErrBuilder); ok {
		return NewAppError(ebErr, CategoryInternal, http.StatusInternalServerError)
	}

	if errors.Is(err, context.Canceled) {
		return NewTimeoutError("request cancelled", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("request deadline exceeded", err)
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "no such host") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "network is unreachable") {
		return NewTransientError("network connection failed", err)
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline exceeded") {
		return NewTimeoutError("request timed out", err)
	}

	return NewInternalError("an unexpected error occurred", err)
}

// IsRetryable reports whether an error should trigger another attempt.
// NotFound, rate-limit, and validation failures never are; transient
// network failures and timeouts are.
func IsRetryable(err error) bool {
	switch ToAppError(err).Category {
	case CategoryTransient, CategoryTimeout:
		return true
	default:
		return false
	}
}

// IsNotFound reports whether err carries the NotFound category.
func IsNotFound(err error) bool {
	return err != nil && ToAppError(err).Category == CategoryNotFound
}

// IsRateLimited reports whether err carries the RateLimited category.
func IsRateLimited(err error) bool {
	return err != nil && ToAppError(err).Category == CategoryRateLimited
}

// ErrorHandler is a gin middleware that converts accumulated handler
// errors into a structured JSON response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			appErr := ToAppError(c.Errors.Last().Err)
			LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, gin.H{
				"error":    appErr.ErrBuilder.Msg,
				"category": appErr.Category,
			})
		}
	}
}

// RecoveryHandler recovers panics into structured 500 responses.
func RecoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("panic recovered: %v", recovered),
			fmt.Errorf("%v", recovered),
		)
		LogError(c, appErr)
		c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
			"error":    "internal server error",
			"category": appErr.Category,
		})
	})
}

// LogError logs an error at a level appropriate to its category.
func LogError(c *gin.Context, err *AppError) {
	logEntry := slog.With(
		"error_category", err.Category,
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	msg := err.ErrBuilder.Msg
	cause := err.ErrBuilder.Unwrap()

	switch err.Category {
	case CategoryValidation, CategoryNotFound, CategoryRateLimited:
		logEntry.Warn(msg)
	case CategoryTransient, CategoryTimeout, CategoryLLM:
		if cause != nil {
			logEntry.Info(msg, "cause", cause)
		} else {
			logEntry.Info(msg)
		}
	default:
		if cause != nil {
			logEntry.Error(msg, "cause", cause)
		} else {
			logEntry.Error(msg)
		}
	}
}
