// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/dalemusser/libraryhub/internal/app/features/shared/respond"
	"github.com/dalemusser/libraryhub/internal/domain/errs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorLogger writes error responses and logs the failures worth logging.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

type errorBody struct {
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// Write maps a service error to its status code:
//
//	*errs.ValidationError  400
//	*errs.AuthError        401 or 403
//	*errs.NotFoundError    404
//	anything else          500 with a reference id
//
// op names the failed operation in the server log.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		ve *errs.ValidationError
		ae *errs.AuthError
		nf *errs.NotFoundError
	)
	switch {
	case stderrors.As(err, &ve):
		respond.JSON(w, http.StatusBadRequest, errorBody{Message: ve.Message, Field: ve.Field})
	case stderrors.As(err, &ae):
		status := http.StatusUnauthorized
		if ae.Forbidden {
			status = http.StatusForbidden
		}
		respond.JSON(w, status, errorBody{Message: ae.Message})
	case stderrors.As(err, &nf):
		respond.JSON(w, http.StatusNotFound, errorBody{Message: sentence(nf.Error())})
	default:
		e.LogServerError(w, r, op, err, "An internal error occurred.")
	}
}

// LogServerError logs err under a fresh reference id and writes a 500 that
// shows userMsg and the reference.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	ref := uuid.NewString()
	e.Log.Error(msg,
		zap.String("reference", ref),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	respond.JSON(w, http.StatusInternalServerError, errorBody{Message: userMsg, Reference: ref})
}

// sentence upper-cases the first letter: "resource not found" becomes
// "Resource not found".
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	rs := []rune(s)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
