package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/stocksboard"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string // backend supplied message, may be empty
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Is maps the HTTP status to the stocksboard error kinds.
func (e *Error) Is(target error) bool {
	switch target {
	case stocksboard.ErrAuthentication:
		return e.Status == http.StatusUnauthorized
	case stocksboard.ErrAuthorization:
		return e.Status == http.StatusForbidden
	case stocksboard.ErrNotFound:
		return e.Status == http.StatusNotFound
	case stocksboard.ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

// messagePaths are tried in order to find the backend message in an error
// body: the backend ApiResponse {status, message, data}, then the usual
// framework shapes.
var messagePaths = []string{"$.message", "$.error", "$.detail"}

// newError builds an *Error from a response, extracting the message from the
// body when it is a JSON object.
func newError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, Status: status}
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		// not json, a short plain text body is still a message.
		if s := strings.TrimSpace(string(body)); s != "" && len(s) < 200 && !strings.HasPrefix(s, "<") {
			e.Message = s
		}
		return e
	}
	for _, mp := range messagePaths {
		jval, err := jsonpath.Get(mp, jobj)
		if err != nil {
			continue
		}
		if s, ok := jval.(string); ok && s != "" {
			e.Message = s
			return e
		}
	}
	return e
}

// Message returns what to show the user for err: the backend message when
// there is one, the validation message for local validation failures, else
// fallback followed by the error.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return fmt.Sprintf("%s: %s", fallback, apiErr.Message)
	}
	var vErr *stocksboard.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	return fmt.Sprintf("%s: %v", fallback, err)
}
