package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mbeecher/beerworks/internal/domain"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. NotFound and Conflict
// are terminal for this attempt; the conflict body carries the current
// version so the caller can retry with fresh state.
func writeError(w http.ResponseWriter, err error) {
	var conflict *domain.ConflictError
	var invalid *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "resource not found"})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":           "stale version, retry with latest",
			"current_version": conflict.Current,
		})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalid.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
