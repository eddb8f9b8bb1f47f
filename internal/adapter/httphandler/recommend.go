package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/shopcore/storefront/internal/core/port"
)

// GET /v1/recommendations/products/{product_id}?limit= — similar products (200, 404)
// GET /v1/recommendations/user?limit= — preference-ranked products (200, 401, 404)

type RecommendHandler struct {
	recommender port.Recommender
}

func RegisterRecommendations(
	mux *http.ServeMux, recommender port.Recommender,
) {
	h := RecommendHandler{recommender}
	mux.HandleFunc(
		"GET /v1/recommendations/products/{product_id}", h.GetByProduct,
	)
	mux.HandleFunc("GET /v1/recommendations/user", h.GetByUser)
}

func (h RecommendHandler) GetByProduct(
	w http.ResponseWriter, r *http.Request,
) {
	const op = "RecommendHandler.GetByProduct"
	log := slog.With("op", op)

	limit, err := limitParam(r)
	if err != nil {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	ps, err := h.recommender.RecommendByProduct(
		r.Context(), r.PathValue("product_id"), limit,
	)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, toProductsJSON(ps))
}

func (h RecommendHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	const op = "RecommendHandler.GetByUser"
	log := slog.With("op", op)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, err := limitParam(r)
	if err != nil {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	ps, err := h.recommender.RecommendByUser(r.Context(), userID, limit)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, toProductsJSON(ps))
}
