package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// ParseJSON decodes JSON from the request body into the destination
func ParseJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ParseJSONOrError decodes JSON and writes an error response on failure
func ParseJSONOrError(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := ParseJSON(r, dest); err != nil {
		WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

// ParsePathID extracts and parses an integer id path parameter. The label
// names the resource in the validation message ("user id", "document id").
func ParsePathID(r *http.Request, key, label string) (int64, error) {
	vars := mux.Vars(r)
	str := vars[key]
	if str == "" {
		return 0, fmt.Errorf("No %s supplied", label)
	}
	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("Only integers are allowed as %s", label)
	}
	return val, nil
}

// ParsePathIDOrError extracts an integer id path parameter and writes a
// validation error on failure
func ParsePathIDOrError(w http.ResponseWriter, r *http.Request, key, label string) (int64, bool) {
	val, err := ParsePathID(r, key, label)
	if err != nil {
		WriteValidationErrors(w, []string{err.Error()})
		return 0, false
	}
	return val, true
}

// ParseQueryString extracts a string query parameter with a default
func ParseQueryString(r *http.Request, key string, defaultVal string) string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// Validation accumulates structural validation failures so a response can
// report all of them at once.
type Validation struct {
	errors []string
}

// Require records an error when the value is empty
func (v *Validation) Require(value, message string) *Validation {
	if value == "" {
		v.errors = append(v.errors, message)
	}
	return v
}

// Check records an error when ok is false
func (v *Validation) Check(ok bool, message string) *Validation {
	if !ok {
		v.errors = append(v.errors, message)
	}
	return v
}

// Errors returns the accumulated failures
func (v *Validation) Errors() []string {
	return v.errors
}

// Report writes the accumulated failures, if any, and reports whether the
// request should be aborted.
func (v *Validation) Report(w http.ResponseWriter) bool {
	if len(v.errors) == 0 {
		return false
	}
	WriteValidationErrors(w, v.errors)
	return true
}
