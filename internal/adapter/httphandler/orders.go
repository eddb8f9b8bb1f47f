package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/shopcore/storefront/internal/core/port"
)

// POST /v1/orders — checkout the caller's cart (201, 400, 401, 404, 409)
// GET /v1/orders — caller's orders, most recent first (200, 401)
// GET /v1/orders/{order_id} — one order (200, 404)

type OrdersHandler struct {
	placer port.OrderPlacer
	reader port.OrderReader
}

func RegisterOrders(
	mux *http.ServeMux, placer port.OrderPlacer, reader port.OrderReader,
) {
	h := OrdersHandler{placer, reader}
	mux.HandleFunc("POST /v1/orders", h.PostOrder)
	mux.HandleFunc("GET /v1/orders", h.GetOrders)
	mux.HandleFunc("GET /v1/orders/{order_id}", h.GetOrder)
}

func (h OrdersHandler) PostOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.PostOrder"
	log := slog.With("op", op)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	order, err := h.placer.CreateOrder(r.Context(), userID)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, log, toOrderJSON(order))

	log.Info("order placed",
		"orderID", order.OrderID,
		"userID", userID,
		"total", order.Total.String(),
	)
}

func (h OrdersHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrders"
	log := slog.With("op", op)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	orders, err := h.reader.ListOrders(r.Context(), userID)
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, toOrdersJSON(orders))
}

func (h OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrder"
	log := slog.With("op", op)

	order, err := h.reader.GetOrder(r.Context(), r.PathValue("order_id"))
	if err != nil {
		writeDomainError(w, log, err)
		return
	}

	writeJSON(w, log, toOrderJSON(order))
}
