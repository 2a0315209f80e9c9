package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/libraryhub/internal/domain/errs"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrite_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", errs.Validation("title", "Title is required."), http.StatusBadRequest, "Title is required."},
		{"wrapped validation", fmt.Errorf("submit: %w", errs.Validation("x", "bad")), http.StatusBadRequest, "bad"},
		{"unauthenticated", errs.Unauthenticated("Authentication required."), http.StatusUnauthorized, "Authentication required."},
		{"forbidden", errs.Forbidden("Admins only."), http.StatusForbidden, "Admins only."},
		{"not found", errs.NotFound("resource request", "abc"), http.StatusNotFound, "Resource request not found"},
		{"store", errs.Store("insert", fmt.Errorf("boom")), http.StatusInternalServerError, "An internal error occurred."},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError, "An internal error occurred."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := NewErrorLogger(zap.NewNop())
			rec := httptest.NewRecorder()
			el.Write(rec, httptest.NewRequest(http.MethodGet, "/x", nil), "op", tt.err)

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != tt.message {
				t.Errorf("message: got %q, want %q", body.Message, tt.message)
			}
		})
	}
}

func TestLogServerError_ReferenceLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	el := NewErrorLogger(zap.New(core))
	rec := httptest.NewRecorder()

	el.Write(rec, httptest.NewRequest(http.MethodPost, "/api/admin/add", nil), "insert resource", errs.Store("insert", fmt.Errorf("disk full")))

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := uuid.Parse(body.Reference); err != nil {
		t.Fatalf("reference %q is not a uuid: %v", body.Reference, err)
	}
	entries := logs.FilterMessage("insert resource").All()
	if len(entries) != 1 {
		t.Fatalf("log entries: got %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["reference"]; got != body.Reference {
		t.Errorf("logged reference %v, response reference %q", got, body.Reference)
	}
}

func TestWrite_ClientErrorsNotLoggedAsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	el := NewErrorLogger(zap.New(core))
	el.Write(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "op", errs.NotFound("resource", "x"))
	if logs.Len() != 0 {
		t.Errorf("expected no error logs, got %d", logs.Len())
	}
}
