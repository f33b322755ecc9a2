package handler

import (
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/pkordes/triplog/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before touching the response, so a value that cannot
// be encoded turns into a 500 rather than an empty body behind the status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"internal","message":"response encoding failed"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError answers 400 for input rejected before reaching a service, or
// 413 when the body was cut off by the size limit.
func requestError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", err.Error())
}

// validationError answers 422 with the message of a wrapped domain.ErrValidation.
func validationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
}

// unwrapMessage extracts the human-readable part from a wrapped validation
// error, e.g. "validation error: q3 must be between 0 and 5" → "q3 must be between 0 and 5".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
