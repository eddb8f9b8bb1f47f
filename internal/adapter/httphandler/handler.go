package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopcore/storefront/internal/core/domain"
)

const timeFormat = time.RFC3339

// The identity provider in front of this service authenticates
// requests and forwards the stable user identifier in a header;
// handlers trust it as-is.
const userIDHeader = "X-User-ID"

const defaultRecommendLimit = 10

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// writeDomainError maps the expected failure kinds to client
// statuses and keeps everything else an opaque 500, so callers
// can tell an invalid request apart from an unavailable system.
func writeDomainError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		http.Error(w, "cart is empty", http.StatusBadRequest)
	case errors.Is(err, domain.ErrProductNotFound):
		http.Error(w, "product not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrCartLineNotFound):
		http.Error(w, "cart line not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInsufficientStock):
		http.Error(w, "insufficient stock", http.StatusConflict)
	default:
		log.Error("unexpected failure", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultRecommendLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return limit, nil
}
