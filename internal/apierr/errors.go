package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrAuth       = errors.New("not authenticated")
	ErrForbidden  = errors.New("forbidden")
	ErrNetwork    = errors.New("network error")
	ErrTimeout    = errors.New("request timed out")
	ErrServer     = errors.New("server error")
)

// ValidationError reports missing or invalid fields, either detected locally or returned by the API.
type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		return "validation failed: " + strings.Join(parts, "; ")
	}
	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StatusError is returned for every non-2xx API response. Kind is one of the sentinels above, or a
// *ValidationError (which unwraps to ErrValidation).
type StatusError struct {
	Status  int
	Kind    error
	Message string
	Fields  map[string]string
	Body    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, msg)
}

func (e *StatusError) Unwrap() error { return e.Kind }

// NetworkError wraps transport failures; Timeout marks deadline and client timeouts.
type NetworkError struct {
	Op      string
	URL     string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Timeout {
		return []error{ErrTimeout, ErrNetwork, e.Err}
	}
	return []error{ErrNetwork, e.Err}
}

// KindOf maps an HTTP status to its error kind.
func KindOf(status int) error {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusUnauthorized:
		return ErrAuth
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrTimeout
	default:
		return ErrServer
	}
}

// FromResponse builds a StatusError from a response status and body. For 400 and 422 the kind is
// a *ValidationError carrying the field messages, so errors.As finds it the same way as a local one.
func FromResponse(status int, body []byte) *StatusError {
	e := &StatusError{Status: status, Kind: KindOf(status), Body: string(body)}
	e.Message, e.Fields = parseBody(body)
	if e.Kind == ErrValidation {
		e.Kind = &ValidationError{Message: e.Message, Fields: e.Fields}
	}
	return e
}

type errorBody struct {
	Message string              `json:"message"`
	Title   string              `json:"title"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func parseBody(body []byte) (string, map[string]string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", nil
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return trimmed, nil
	}
	var fields map[string]string
	if len(eb.Errors) > 0 {
		fields = make(map[string]string, len(eb.Errors))
		for k, v := range eb.Errors {
			fields[k] = strings.Join(v, "; ")
		}
	}
	switch {
	case eb.Message != "":
		return eb.Message, fields
	case eb.Error != "":
		return eb.Error, fields
	default:
		return eb.Title, fields
	}
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IgnoreNotFound drops not-found errors, for deletes where absence is the desired end state.
func IgnoreNotFound(err error) error {
	if IsNotFound(err) {
		return nil
	}
	return err
}

// FieldMessage returns the message attached to field, from either a local or a server validation error.
func FieldMessage(err error, field string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Field == field {
			return ve.Message
		}
		return lookupField(ve.Fields, field)
	}
	var se *StatusError
	if errors.As(err, &se) {
		return lookupField(se.Fields, field)
	}
	return ""
}

func lookupField(fields map[string]string, field string) string {
	for k, v := range fields {
		if strings.EqualFold(k, field) {
			return v
		}
	}
	return ""
}
