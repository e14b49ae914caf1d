package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is an error reported by the hosted data service.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int `json:"-"`

	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("remote error %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("remote error %d: %s", e.Status, msg)
}

// Error codes written by Server. The values follow the data service where
// it has an equivalent.
const (
	codeUnauthorized    = "PGRST301"
	codeUnknownColumn   = "PGRST204"
	codeBadFilter       = "PGRST100"
	codeInvalidBody     = "PGRST102"
	codeCheckViolation  = "23514"
	codeUniqueViolation = "23505"
	codeInternal        = "XX000"
)

func readErrorResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}
