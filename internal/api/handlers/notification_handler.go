package handlers

import (
	"net/http"

	"marketplace/internal/repository"
)

type NotificationHandler struct {
	lowStock repository.LowStockNotificationRepository
	cancels  repository.CancelNotificationRepository
}

func NewNotificationHandler(
	lowStock repository.LowStockNotificationRepository,
	cancels repository.CancelNotificationRepository,
) *NotificationHandler {
	return &NotificationHandler{lowStock: lowStock, cancels: cancels}
}

// GetLowStock returns the vendor's most recent low-stock alert.
func (h *NotificationHandler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	n, err := h.lowStock.GetByVendor(r.Context(), vendorID)
	if err != nil {
		writeRepoError(w, err, "low stock notification")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) GetAllLowStock(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	notifications, err := h.lowStock.GetAllByVendor(r.Context(), vendorID)
	if err != nil {
		writeRepoError(w, err, "get low stock notifications")
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkLowStockRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.lowStock.MarkRead(r.Context(), id); err != nil {
		writeRepoError(w, err, "low stock notification")
		return
	}
	writeMessage(w, http.StatusOK, "Notification marked read")
}

// GetOrderCancel returns the user's most recent order cancellation notice.
func (h *NotificationHandler) GetOrderCancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	n, err := h.cancels.GetByUser(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err, "order cancel notification")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) GetAllOrderCancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	notifications, err := h.cancels.GetAllByUser(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err, "get order cancel notifications")
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkOrderCancelRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.cancels.MarkRead(r.Context(), id); err != nil {
		writeRepoError(w, err, "order cancel notification")
		return
	}
	writeMessage(w, http.StatusOK, "Notification marked read")
}
