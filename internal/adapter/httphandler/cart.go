package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopcore/storefront/internal/core/port"
)

// GET /v1/cart — caller's cart lines and total (200, 401)
// POST /v1/cart — add a product, merging quantities (200, 400, 404, 409)
// PUT /v1/cart/{product_id} — replace quantity, zero deletes (204, 400, 404, 409)
// DELETE /v1/cart/{product_id} — drop one line (204)
// DELETE /v1/cart — drop every line (204)

type CartHandler struct {
	editor port.CartEditor
}

func RegisterCart(mux *http.ServeMux, editor port.CartEditor) {
	h := CartHandler{editor}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart", h.PostLine)
	mux.HandleFunc("PUT /v1/cart/{product_id}", h.PutQuantity)
	mux.HandleFunc("DELETE /v1/cart/{product_id}", h.DeleteLine)
	mux.HandleFunc("DELETE /v1/cart", h.DeleteCart)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	lines, total, err := h.editor.GetCart(r.Context(), userID)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, toCartJSON(lines, total.String()))
}

func (h CartHandler) PostLine(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostLine"
	log := slog.With("op", op)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req AddCartLine
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		http.Error(w, "invalid cart line", http.StatusBadRequest)
		return
	}

	line, err := h.editor.AddToCart(
		r.Context(), userID, req.ProductID, req.Quantity,
	)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, CartLine{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice.String(),
	})

	log.Info("cart line saved",
		"userID", userID,
		"productID", line.ProductID,
		"quantity", line.Quantity,
	)
}

func (h CartHandler) PutQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PutQuantity"
	log := slog.With("op", op)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CartQuantity
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.Quantity < 0 {
		http.Error(w, "invalid quantity", http.StatusBadRequest)
		return
	}

	err := h.editor.SetQuantity(
		r.Context(), userID, r.PathValue("product_id"), req.Quantity,
	)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteLine"
	log := slog.With("op", op)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	err := h.editor.RemoveFromCart(
		r.Context(), userID, r.PathValue("product_id"),
	)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCart"
	log := slog.With("op", op)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.editor.ClearCart(r.Context(), userID); err != nil {
		writeDomainError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
