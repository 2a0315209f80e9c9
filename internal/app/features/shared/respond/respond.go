// Package respond writes and reads the JSON envelope used by every API
// endpoint:
//
//	{ "message": "...", "payload": ..., "pagination": {...} }
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/libraryhub/internal/app/system/paging"
	"github.com/dalemusser/libraryhub/internal/domain/errs"
)

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// Envelope is the response body shape.
type Envelope struct {
	Message    string             `json:"message"`
	Payload    any                `json:"payload,omitempty"`
	Pagination *paging.Pagination `json:"pagination,omitempty"`
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes an Envelope with no pagination.
func Message(w http.ResponseWriter, status int, msg string, payload any) {
	JSON(w, status, Envelope{Message: msg, Payload: payload})
}

// Page writes a 200 Envelope carrying pagination.
func Page(w http.ResponseWriter, msg string, payload any, p paging.Pagination) {
	JSON(w, http.StatusOK, Envelope{Message: msg, Payload: payload, Pagination: &p})
}

// Decode reads a JSON body into v. Field decoders that return a
// *errs.ValidationError keep their message; any other malformed body is
// reported as "Invalid request body".
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return errs.Validation("body", "Invalid request body")
	}
	err := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes)).Decode(v)
	if err == nil {
		return nil
	}
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return errs.Validation("body", "Invalid request body")
}
