package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Configuration errors returned by New.
var (
	ErrAPIKeyRequired    = errors.New("api key is required")
	ErrInvalidBaseURL    = errors.New("invalid base url")
	ErrInvalidMaxResults = errors.New("max_results out of range")
)

// ErrorClass represents a classification of API errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx errors other than quota errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassQuota represents 403/429 responses caused by exhausted quota.
	ErrorClassQuota ErrorClass = "quota"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport and timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// quotaReasons are the error reasons YouTube sends when quota runs out.
var quotaReasons = map[string]bool{
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
}

// APIError is a failed YouTube Data API request.
type APIError struct {
	StatusCode int
	Class      ErrorClass
	Reason     string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("youtube %s error: %s: %v", e.Class, e.Message, e.Err)
	}
	if e.Reason != "" {
		return fmt.Sprintf("youtube %s error (status %d, reason %s): %s",
			e.Class, e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// parseErrorBody builds an APIError from an error response.
// Body format: {"error":{"code":403,"message":"...","errors":[{"reason":"quotaExceeded"}]}}
func parseErrorBody(statusCode int, body []byte) *APIError {
	doc := gjson.ParseBytes(body)

	apiErr := &APIError{
		StatusCode: statusCode,
		Reason:     doc.Get("error.errors.0.reason").String(),
		Message:    doc.Get("error.message").String(),
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	apiErr.Class = classifyStatus(statusCode, apiErr.Reason)

	return apiErr
}

// classifyStatus categorizes an HTTP error status for observability and handling.
func classifyStatus(statusCode int, reason string) ErrorClass {
	switch {
	case quotaReasons[reason]:
		return ErrorClassQuota
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassQuota
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}
