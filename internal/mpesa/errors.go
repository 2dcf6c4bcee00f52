package mpesa

import (
	"fmt"
)

// AuthError is returned when the OAuth token exchange fails.
type AuthError struct {
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mpesa: access token rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("mpesa: access token request failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RequestError is returned when the provider answers an STK push with a
// non-2xx status. Message is the provider's errorMessage.
type RequestError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("mpesa: stk push rejected with status %d: %s", e.StatusCode, e.Message)
}
