package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// RespondMessage writes a {"message": ...} body.
func RespondMessage(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"message": message})
}

// ErrInvalidID is returned by ParseID when the "id" path parameter is not
// an unsigned decimal integer.
var ErrInvalidID = errors.New("invalid id")

// ParseID extracts the "id" path parameter. Only unsigned decimal digits
// that fit in an int64 are accepted.
func ParseID(r *http.Request) (int64, error) {
	pathValueID := chi.URLParam(r, "id")
	if pathValueID == "" {
		pathValueID = r.PathValue("id")
	}
	id, err := strconv.ParseUint(pathValueID, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, pathValueID)
	}
	return int64(id), nil
}
