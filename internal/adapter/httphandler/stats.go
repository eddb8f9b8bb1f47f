package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/shopcore/storefront/internal/core/port"
)

// GET /v1/stats/products/{product_id}/sold — cumulative units sold (200)

type StatsHandler struct {
	sales port.SalesReader
}

func RegisterStats(mux *http.ServeMux, sales port.SalesReader) {
	h := StatsHandler{sales}
	mux.HandleFunc("GET /v1/stats/products/{product_id}/sold", h.GetUnitsSold)
}

func (h StatsHandler) GetUnitsSold(w http.ResponseWriter, r *http.Request) {
	const op = "StatsHandler.GetUnitsSold"
	log := slog.With("op", op)

	productID := r.PathValue("product_id")

	n, err := h.sales.UnitsSold(productID)
	if err != nil {
		log.Error("failed to read sales view", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, log, ProductSales{ProductID: productID, UnitsSold: n})
}
