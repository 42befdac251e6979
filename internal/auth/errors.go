package auth

import "net/http"

// Kind is the closed set of terminal authentication/authorization failures.
// Every kind maps to exactly one status code and one stable response message;
// handlers never branch on provider-specific error strings.
type Kind string

const (
	KindMissingAuthHeader     Kind = "missing_auth_header"
	KindMissingToken          Kind = "missing_token"
	KindTokenExpired          Kind = "token_expired"
	KindInvalidTokenFormat    Kind = "invalid_token_format"
	KindTokenInvalid          Kind = "token_invalid"
	KindInsufficientPrivilege Kind = "insufficient_privilege"
)

// Error is a terminal auth failure. Details is free-form diagnostic text for
// logs and response bodies; it must never drive control decisions.
type Error struct {
	Kind    Kind
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message() + ": " + e.Details
	}
	return e.Message()
}

// Status returns the HTTP status code for the failure kind.
func (e *Error) Status() int {
	if e.Kind == KindInsufficientPrivilege {
		return http.StatusForbidden
	}
	return http.StatusUnauthorized
}

// Message returns the stable client-facing error string for the failure kind.
func (e *Error) Message() string {
	switch e.Kind {
	case KindMissingAuthHeader:
		return "No authorization header provided"
	case KindMissingToken:
		return "No token provided"
	case KindTokenExpired:
		return "Token expired"
	case KindInvalidTokenFormat:
		return "Invalid token format"
	case KindInsufficientPrivilege:
		return "Admin access required"
	default:
		return "Invalid token"
	}
}
