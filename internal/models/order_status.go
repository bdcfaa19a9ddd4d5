package models

const (
	OrderStatusProcessing         = "Processing To Deliver"
	OrderStatusPartiallyDelivered = "Partially Delivered"
	OrderStatusDelivered          = "Delivered"
	OrderStatusCancelRequested    = "Cancel Requested"
)

// DeriveOrderStatus computes the order status and editable flag from the
// current item flags and the order's cancel flag. Precedence:
// all-delivered > any-delivered > cancel-requested > processing.
// The result is a projection only; callers persist it on read.
func DeriveOrderStatus(items []ProductListing, cancelRequested bool) (status string, editable bool) {
	allDelivered := len(items) > 0
	anyDelivered := false
	anyReady := false

	for _, item := range items {
		if item.DeliveredStatus {
			anyDelivered = true
		} else {
			allDelivered = false
		}
		if item.ReadyStatus {
			anyReady = true
		}
	}

	switch {
	case allDelivered:
		status = OrderStatusDelivered
	case anyDelivered:
		status = OrderStatusPartiallyDelivered
	case cancelRequested:
		status = OrderStatusCancelRequested
	default:
		status = OrderStatusProcessing
	}

	editable = !anyReady && !cancelRequested
	return status, editable
}

// Refresh replaces the embedded item snapshots with freshly fetched listings
// and recomputes the derived fields.
func (o *Order) Refresh(items []ProductListing) {
	o.OrderItems = items
	o.OrderStatus, o.EditableStatus = DeriveOrderStatus(items, o.CancelStatus)
}
