// ABOUTME: Uniform result shape for Chargify API responses
// ABOUTME: Separates parsed success bodies, raw non-JSON bodies, and HTTP error descriptors
package chargify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Result is a normalized API response. Exactly one shape applies:
//   - Status >= 400: Errors holds the raw body.
//   - success with a JSON body: Parsed is true and Data holds the decoded value.
//   - success with a non-JSON body: Response holds the raw body.
type Result struct {
	Status   int
	Data     any
	Parsed   bool
	Errors   string
	Response string
}

// APIError is a failed HTTP status surfaced as an error value.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chargify: status %d: %s", e.Status, e.Body)
}

// Normalize reads the body of resp and converts it to a Result. The caller
// still owns closing the body.
func Normalize(resp *http.Response) (Result, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response body: %w", err)
	}
	return NormalizeBody(resp.StatusCode, body), nil
}

// NormalizeBody applies the response rules to a status code and body.
// Failure statuses are never parsed. A success body that is not a single
// JSON value is kept as raw text.
func NormalizeBody(status int, body []byte) Result {
	if status >= http.StatusBadRequest {
		return Result{Status: status, Errors: string(body)}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return Result{Status: status, Response: string(body)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Result{Status: status, Response: string(body)}
	}

	return Result{Status: status, Data: data, Parsed: true}
}

// OK reports whether the HTTP status indicated success.
func (r Result) OK() bool {
	return r.Status < http.StatusBadRequest
}

// Err returns an *APIError for failure results and nil otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &APIError{Status: r.Status, Body: r.Errors}
}

// Value returns the caller-facing form of the result: the decoded body on
// success, {"response": raw} for a non-JSON success body, or
// {"errors": raw, "status": code} on failure.
func (r Result) Value() any {
	switch {
	case !r.OK():
		return map[string]any{"errors": r.Errors, "status": r.Status}
	case !r.Parsed:
		return map[string]any{"response": r.Response}
	default:
		return r.Data
	}
}

// Object returns the decoded body when it is a JSON object.
func (r Result) Object() (map[string]any, bool) {
	if !r.OK() || !r.Parsed {
		return nil, false
	}
	obj, ok := r.Data.(map[string]any)
	return obj, ok
}

// ErrorMessages returns the messages of a failure body such as
// {"errors": ["Product must be specified"]}, or the raw body when it has
// no such list.
func (r Result) ErrorMessages() []string {
	if r.OK() {
		return nil
	}

	var body struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal([]byte(r.Errors), &body); err == nil && len(body.Errors) > 0 {
		var list []string
		if err := json.Unmarshal(body.Errors, &list); err == nil && len(list) > 0 {
			return list
		}
		var single string
		if err := json.Unmarshal(body.Errors, &single); err == nil && single != "" {
			return []string{single}
		}
	}

	if msg := strings.TrimSpace(r.Errors); msg != "" {
		return []string{msg}
	}
	return []string{http.StatusText(r.Status)}
}
