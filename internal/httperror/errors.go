// Package httperror converts internal failures into the client wire
// contract. Every failure is caught at the handler boundary; nothing
// propagates to the transport layer unshaped.
package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mirelo-app/tutor-server/internal/provider"
)

// ErrorCode classifies a failure.
type ErrorCode string

const (
	// ErrorCodeInternal covers unexpected faults.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeValidation covers missing or oversized input text.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrorCodeUnauthorized covers shared-secret mismatches.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrorCodeConfiguration covers missing server-side credentials.
	ErrorCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrorCodeUpstream covers non-2xx provider responses.
	ErrorCodeUpstream ErrorCode = "UPSTREAM_ERROR"
	// ErrorCodeEmptyGeneration covers 2xx provider responses with no
	// extractable text.
	ErrorCodeEmptyGeneration ErrorCode = "EMPTY_GENERATION"
	// ErrorCodeTimeout covers upstream deadline expiry.
	ErrorCodeTimeout ErrorCode = "UPSTREAM_TIMEOUT"
)

// ErrorResponse is the wire shape of every error reply.
type ErrorResponse struct {
	Error      string  `json:"error"`
	Status     int     `json:"status,omitempty"`
	ResponseID *string `json:"response_id,omitempty"`
	Details    any     `json:"details,omitempty"`
}

// Error is the internal standard error type.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	// UpstreamStatus is echoed in the body for pass-through errors.
	UpstreamStatus int
	ResponseID     *string
	Details        any
}

// Error returns the error message.
func (e *Error) Error() string {
	return e.Message
}

// Response converts an error into a status code and wire body.
func Response(err error) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	return apiErr.Status, ErrorResponse{
		Error:      apiErr.Message,
		Status:     apiErr.UpstreamStatus,
		ResponseID: apiErr.ResponseID,
		Details:    apiErr.Details,
	}
}

// FromError normalizes any error into the internal type.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var credentialErr *provider.CredentialError
	if errors.As(err, &credentialErr) {
		return NewMissingCredential(credentialErr.EnvVar)
	}

	var upstreamErr *provider.UpstreamError
	if errors.As(err, &upstreamErr) {
		return NewUpstreamError(upstreamErr)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Code:    ErrorCodeTimeout,
			Status:  http.StatusGatewayTimeout,
			Message: "Upstream timeout",
		}
	}

	return NewInternalError(err.Error())
}

// NewInternalError builds the generic server fault response.
func NewInternalError(message string) *Error {
	return &Error{
		Code:    ErrorCodeInternal,
		Status:  http.StatusInternalServerError,
		Message: "Server error",
		Details: map[string]any{"message": message},
	}
}

// NewMissingText rejects empty input text.
func NewMissingText() *Error {
	return &Error{
		Code:    ErrorCodeValidation,
		Status:  http.StatusBadRequest,
		Message: "Missing text",
	}
}

// NewTextTooLong rejects oversized input text.
func NewTextTooLong() *Error {
	return &Error{
		Code:    ErrorCodeValidation,
		Status:  http.StatusBadRequest,
		Message: "Text too long",
	}
}

// NewUnauthorized rejects a shared-secret mismatch.
func NewUnauthorized() *Error {
	return &Error{
		Code:    ErrorCodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized",
	}
}

// NewMissingCredential reports an absent server-side credential,
// distinctly from upstream failures. Issued before any outbound call.
func NewMissingCredential(envVar string) *Error {
	return &Error{
		Code:    ErrorCodeConfiguration,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("Server missing %s", envVar),
	}
}

// NewUpstreamError passes a provider failure through: same status code,
// body captured verbatim in details.
func NewUpstreamError(upstream *provider.UpstreamError) *Error {
	status := upstream.StatusCode
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	return &Error{
		Code:           ErrorCodeUpstream,
		Status:         status,
		Message:        fmt.Sprintf("%s error", upstream.Provider),
		UpstreamStatus: upstream.StatusCode,
		Details:        upstream.Details,
	}
}

// NewEmptyGeneration reports a 2xx upstream response with no text,
// commonly caused by safety filtering.
func NewEmptyGeneration(responseID string, details map[string]any) *Error {
	var responseIDPtr *string
	if responseID != "" {
		responseIDPtr = &responseID
	}
	return &Error{
		Code:       ErrorCodeEmptyGeneration,
		Status:     http.StatusBadGateway,
		Message:    "Empty response",
		ResponseID: responseIDPtr,
		Details:    details,
	}
}
