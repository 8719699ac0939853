// Package api exposes accounts and chats over JSON REST under /lstm.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

// maxBodySize caps request bodies, no endpoint takes more than a message.
const maxBodySize = 1 << 20

type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondWithJSON sends payload with the given status code.
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithErr classifies err, internal failures are logged and hidden.
func RespondWithErr(w http.ResponseWriter, log *slog.Logger, err error) {
	code := errors.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", "status", code, "error", err)
	}
	RespondWithError(w, code, errors.Public(err))
}

// DecodeJSONBody decodes the request body into dst.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%w: request body is empty", errors.ErrValidation)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request payload: %v", errors.ErrValidation, err)
	}
	return nil
}
