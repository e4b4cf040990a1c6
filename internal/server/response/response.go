// Package response writes the JSON envelope of the status routes. A body
// carries data on success and error on failure, never both.
package response

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/agentstation/playermap/pkg/errors"
)

// Error codes.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
	CodeRegistryUnavailable = "REGISTRY_UNAVAILABLE"
)

// AllowedMethods is the Allow header of every route.
const AllowedMethods = "GET, HEAD"

// Response is the JSON envelope.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error describes a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// JSON writes resp with status.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes data with 200.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Response{Data: data})
}

func fail(w http.ResponseWriter, status int, code, message, details string) {
	JSON(w, status, Response{Error: &Error{Code: code, Message: message, Details: details}})
}

// NotFound writes 404 for an unknown path.
func NotFound(w http.ResponseWriter, path string) {
	fail(w, http.StatusNotFound, CodeNotFound, "Not found", "No route for "+path)
}

// MethodNotAllowed writes 405 with the Allow header set.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	w.Header().Set("Allow", AllowedMethods)
	fail(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed",
		"The registry is read-only; "+method+" is not supported")
}

// RateLimited writes 429 asking client to retry after wait.
func RateLimited(w http.ResponseWriter, client string, wait time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(wait/time.Second)))
	fail(w, http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded", "Too many requests from "+client)
}

// InternalError writes 500 without details.
func InternalError(w http.ResponseWriter) {
	fail(w, http.StatusInternalServerError, CodeInternal, "Internal server error", "")
}

// RegistryUnavailable writes 503 for a registry that cannot be read.
// Paths and causes are not exposed.
func RegistryUnavailable(w http.ResponseWriter, err error) {
	details := "registry cannot be read"
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		details = "registry file does not exist yet"
	case errors.IsStorageError(err):
		details = "registry file is invalid"
	}
	fail(w, http.StatusServiceUnavailable, CodeRegistryUnavailable, "Registry unavailable", details)
}
