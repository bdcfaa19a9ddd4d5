package handlers

import (
	"net/http"

	"marketplace/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderHandler struct {
	orders    repository.OrderRepository
	cancelled repository.CancelledOrderRepository
}

func NewOrderHandler(orders repository.OrderRepository, cancelled repository.CancelledOrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders, cancelled: cancelled}
}

type createOrderRequest struct {
	CustomerID   string   `json:"customer_id" validate:"required,len=24,hexadecimal"`
	OrderItemIDs []string `json:"order_item_ids" validate:"required,min=1,dive,len=24,hexadecimal"`
}

type updateOrderRequest struct {
	OrderItemIDs []string `json:"order_item_ids" validate:"required,min=1,dive,len=24,hexadecimal"`
}

func parseItemIDs(w http.ResponseWriter, raw []string) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, ok := parseBodyID(w, "order_item_ids", s)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, err, "get orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) GetByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	orders, err := h.orders.GetByCustomer(r.Context(), customerID)
	if err != nil {
		writeRepoError(w, err, "get orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customerID, ok := parseBodyID(w, "customer_id", req.CustomerID)
	if !ok {
		return
	}
	itemIDs, ok := parseItemIDs(w, req.OrderItemIDs)
	if !ok {
		return
	}

	order, err := h.orders.Create(r.Context(), customerID, itemIDs)
	if err != nil {
		writeRepoError(w, err, "create order")
		return
	}

	w.Header().Set("Location", "/api/orders/"+order.ID.Hex())
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req updateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	itemIDs, ok := parseItemIDs(w, req.OrderItemIDs)
	if !ok {
		return
	}

	order, err := h.orders.UpdateItems(r.Context(), id, itemIDs)
	if err != nil {
		writeRepoError(w, err, "update order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.orders.RequestCancel(r.Context(), id); err != nil {
		writeRepoError(w, err, "order")
		return
	}
	writeMessage(w, http.StatusOK, "Order cancellation requested")
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "order")
		return
	}
	writeMessage(w, http.StatusOK, "Order deleted successfully")
}

func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.orders.Deliver(r.Context(), id); err != nil {
		writeRepoError(w, err, "order")
		return
	}
	writeMessage(w, http.StatusOK, "Order delivered")
}

func (h *OrderHandler) GetCancelled(w http.ResponseWriter, r *http.Request) {
	orders, err := h.cancelled.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, err, "get cancelled orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetCancelledByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	orders, err := h.cancelled.GetByCustomer(r.Context(), customerID)
	if err != nil {
		writeRepoError(w, err, "get cancelled orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
