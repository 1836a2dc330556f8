// Package httputil holds the JSON response helpers shared by the API and
// the authentication middleware.
package httputil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"foodgram/internal/apperr"
	"foodgram/internal/logging"
)

// WriteJSON sends v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// WriteError maps err onto a status code and error body. Errors that are not
// application errors are logged and hidden behind a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		WriteJSON(w, apperr.Status(err), appErr.Body())
		return
	}

	logging.Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request failed")
	WriteJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal server error."})
}

// MaxBodyBytes caps JSON request bodies. It leaves room for a base64
// encoded recipe image at the storage size limit.
const MaxBodyBytes = 16 << 20

// DecodeJSON reads at most MaxBodyBytes of the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Invalid("non_field_errors", "Request body is required.")
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Invalid("non_field_errors", "Request body is too large.")
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return apperr.Invalid("non_field_errors", "Request body is required.")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperr.Invalid("non_field_errors", "Malformed JSON: "+err.Error())
	}
	return nil
}
