package ecode

import "net/http"

// Business codes. Zero is success; negative codes mirror the HTTP status
// family they map to.
const (
	OK                 = 0
	RequestErr         = -400
	Unauthorized       = -401
	AccessDenied       = -403
	NothingFound       = -404
	MethodNotAllowed   = -405
	Conflict           = -409
	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

var messages = map[int]string{
	OK:                 "ok",
	RequestErr:         "invalid request",
	Unauthorized:       "unauthorized",
	AccessDenied:       "access denied",
	NothingFound:       "resource not found",
	MethodNotAllowed:   "method not allowed",
	Conflict:           "resource conflict",
	ServerErr:          "internal server error",
	ServiceUnavailable: "service unavailable",
	Deadline:           "request deadline exceeded",
}

// Text returns the default message for a business code.
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// ToHTTPStatus maps a business code to its HTTP status.
func ToHTTPStatus(code int) int {
	switch code {
	case OK:
		return http.StatusOK
	case RequestErr:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case AccessDenied:
		return http.StatusForbidden
	case NothingFound:
		return http.StatusNotFound
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	case Conflict:
		return http.StatusConflict
	case ServiceUnavailable:
		return http.StatusServiceUnavailable
	case Deadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
