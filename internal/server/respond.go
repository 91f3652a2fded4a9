package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
)

const maxBodyBytes = 1 << 20

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	if errors.Is(err, shared.ErrRateLimited) {
		return http.StatusTooManyRequests
	}

	switch shared.KindOf(err) {
	case shared.KindInvalidRequest:
		return http.StatusBadRequest
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindConflict:
		return http.StatusConflict
	case shared.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the {"message","code"} body for err.
func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)

	msg := err.Error()
	if shared.KindOf(err) == shared.KindUnknown && status == http.StatusInternalServerError {
		msg = "internal server error"
	}

	writeJSON(w, status, services.ErrorResponse{Message: msg, Code: shared.ErrorCode(err)})
}

// decodeJSON reads a bounded JSON body into v. Malformed input is an invalid request.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidRequest, err)
	}
	return nil
}
