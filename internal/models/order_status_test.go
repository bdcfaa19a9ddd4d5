package models_test

import (
	"testing"

	"marketplace/internal/models"

	"github.com/stretchr/testify/assert"
)

func listing(ready, delivered bool) models.ProductListing {
	return models.ProductListing{ReadyStatus: ready, DeliveredStatus: delivered}
}

func TestDeriveOrderStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		items           []models.ProductListing
		cancelRequested bool
		wantStatus      string
		wantEditable    bool
	}{
		{
			name:         "fresh order",
			items:        []models.ProductListing{listing(false, false), listing(false, false)},
			wantStatus:   models.OrderStatusProcessing,
			wantEditable: true,
		},
		{
			name:         "one item ready locks editing",
			items:        []models.ProductListing{listing(true, false), listing(false, false)},
			wantStatus:   models.OrderStatusProcessing,
			wantEditable: false,
		},
		{
			name:         "one of two delivered",
			items:        []models.ProductListing{listing(true, true), listing(false, false)},
			wantStatus:   models.OrderStatusPartiallyDelivered,
			wantEditable: false,
		},
		{
			name:         "all delivered",
			items:        []models.ProductListing{listing(true, true), listing(true, true)},
			wantStatus:   models.OrderStatusDelivered,
			wantEditable: false,
		},
		{
			name:            "cancel requested",
			items:           []models.ProductListing{listing(false, false)},
			cancelRequested: true,
			wantStatus:      models.OrderStatusCancelRequested,
			wantEditable:    false,
		},
		{
			name:            "partial delivery outranks cancel request",
			items:           []models.ProductListing{listing(true, true), listing(false, false)},
			cancelRequested: true,
			wantStatus:      models.OrderStatusPartiallyDelivered,
			wantEditable:    false,
		},
		{
			name:            "full delivery outranks cancel request",
			items:           []models.ProductListing{listing(true, true)},
			cancelRequested: true,
			wantStatus:      models.OrderStatusDelivered,
			wantEditable:    false,
		},
		{
			name:         "no items is not delivered",
			items:        nil,
			wantStatus:   models.OrderStatusProcessing,
			wantEditable: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, editable := models.DeriveOrderStatus(tt.items, tt.cancelRequested)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantEditable, editable)
		})
	}
}

func TestOrderRefresh(t *testing.T) {
	t.Parallel()

	o := models.Order{OrderStatus: models.OrderStatusProcessing, EditableStatus: true}
	o.Refresh([]models.ProductListing{listing(true, true), listing(false, false)})

	assert.Equal(t, models.OrderStatusPartiallyDelivered, o.OrderStatus)
	assert.False(t, o.EditableStatus)
	assert.Len(t, o.OrderItems, 2)
}
