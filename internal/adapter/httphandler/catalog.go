package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/port"
)

// GET /v1/products?name=&category= — catalog listing (200)
// GET /v1/products/{product_id} — one product (200, 404)
// PUT /v1/products/{product_id} — admin upsert (204, 400)

type CatalogHandler struct {
	reader port.CatalogReader
	editor port.CatalogEditor
}

func RegisterCatalog(
	mux *http.ServeMux, reader port.CatalogReader, editor port.CatalogEditor,
) {
	h := CatalogHandler{reader, editor}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{product_id}", h.GetProduct)
	mux.HandleFunc("PUT /v1/products/{product_id}", h.PutProduct)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	query := domain.ProductQuery{
		Name:     r.URL.Query().Get("name"),
		Category: r.URL.Query().Get("category"),
	}

	ps, err := h.reader.FindProducts(r.Context(), query)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, toProductsJSON(ps))
}

func (h CatalogHandler) PutProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PutProduct"
	log := slog.With("op", op)

	var req SaveProduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := toDomainProduct(r.PathValue("product_id"), req)
	if err != nil {
		http.Error(w, "invalid product", http.StatusBadRequest)
		return
	}

	if err := h.editor.SaveProduct(r.Context(), p); err != nil {
		writeDomainError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)

	log.Info("product saved", "productID", p.ProductID)
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.reader.GetProduct(r.Context(), r.PathValue("product_id"))
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, toProductJSON(p))
}
