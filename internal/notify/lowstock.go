// Package notify emits low-stock alerts as a side effect of product reads.
package notify

import (
	"context"
	"fmt"
	"log"

	"marketplace/internal/database"
	"marketplace/internal/models"
	"marketplace/internal/repository"
)

// LowStockAlerter appends a NotificationLowStock document for every low-stock
// product that passes through a lookup endpoint. With the "always" policy each
// qualifying read appends a new document; "dedupe" suppresses the append while
// an unread alert for the same product exists.
type LowStockAlerter struct {
	notifications repository.LowStockNotificationRepository
	policy        string
}

func NewLowStockAlerter(notifications repository.LowStockNotificationRepository, policy string) *LowStockAlerter {
	return &LowStockAlerter{
		notifications: notifications,
		policy:        policy,
	}
}

// ProductViewed never fails the read it rides on; emission errors are logged
// and dropped.
func (a *LowStockAlerter) ProductViewed(ctx context.Context, p *models.Product) {
	if !p.LowStock() {
		return
	}

	if a.policy == database.NotifyPolicyDedupe {
		unread, err := a.notifications.HasUnreadForProduct(ctx, p.ID)
		if err != nil {
			log.Printf("failed to check unread low stock alerts: %v", err)
			return
		}
		if unread {
			return
		}
	}

	n := &models.NotificationLowStock{
		VendorID:  p.VendorID,
		ProductID: p.ID,
		Message: fmt.Sprintf("Product %q is low on stock: %d of %d remaining",
			p.ProductName, p.Quantity, p.InitialQuantity),
	}
	if err := a.notifications.Create(ctx, n); err != nil {
		log.Printf("failed to create low stock alert for product %s: %v", p.ID.Hex(), err)
	}
}

func (a *LowStockAlerter) ProductsViewed(ctx context.Context, products []models.Product) {
	for i := range products {
		a.ProductViewed(ctx, &products[i])
	}
}
