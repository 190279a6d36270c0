package provider

import "fmt"

// CredentialError reports a missing server-side credential. No outbound
// call is made when this is returned.
type CredentialError struct {
	// EnvVar names the missing configuration variable.
	EnvVar string
}

// Error returns the error message.
func (e *CredentialError) Error() string {
	return fmt.Sprintf("missing credential: %s", e.EnvVar)
}

// UpstreamError reports a non-2xx provider response. The status code
// and decoded body are captured verbatim for pass-through.
type UpstreamError struct {
	// Provider is the display name ("Gemini", "OpenAI").
	Provider string
	// StatusCode is the upstream HTTP status.
	StatusCode int
	// Details is the upstream response body decoded as JSON, or an
	// empty map when the body was not parseable.
	Details map[string]any
}

// Error returns the error message.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream error: status=%d", e.Provider, e.StatusCode)
}
