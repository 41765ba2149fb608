// Package api defines the shared JSON response types used by all transport handlers.
package api

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a simple acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries a signed JWT and the account role after a
// successful login.
type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// CountResponse reports how many items a batch operation affected.
type CountResponse struct {
	Count int `json:"count"`
}
