package models_test

import (
	"testing"

	"marketplace/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestProductLowStock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		initial  int
		quantity int
		want     bool
	}{
		{"never restocked", 0, 0, false},
		{"at threshold", 20, 4, false},
		{"below threshold", 20, 3, true},
		{"quarter remaining", 20, 5, false},
		{"sold out", 20, 0, true},
		{"full stock", 20, 20, false},
		{"threshold rounds up", 21, 4, true},
		{"small stock healthy", 3, 1, false},
		{"small stock empty", 3, 0, true},
		{"single unit remaining", 1, 1, false},
		{"single unit sold", 1, 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := models.Product{Quantity: tt.quantity, InitialQuantity: tt.initial}
			assert.Equal(t, tt.want, p.LowStock())
		})
	}
}
