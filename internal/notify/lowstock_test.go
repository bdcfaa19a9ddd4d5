package notify_test

import (
	"context"
	"testing"

	"marketplace/internal/database"
	"marketplace/internal/models"
	"marketplace/internal/notify"
	"marketplace/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeLowStockRepo struct {
	created []models.NotificationLowStock
	unread  map[primitive.ObjectID]bool
}

func newFakeLowStockRepo() *fakeLowStockRepo {
	return &fakeLowStockRepo{unread: make(map[primitive.ObjectID]bool)}
}

func (f *fakeLowStockRepo) Create(_ context.Context, n *models.NotificationLowStock) error {
	f.created = append(f.created, *n)
	f.unread[n.ProductID] = true
	return nil
}

func (f *fakeLowStockRepo) GetByVendor(context.Context, primitive.ObjectID) (*models.NotificationLowStock, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeLowStockRepo) GetAllByVendor(context.Context, primitive.ObjectID) ([]models.NotificationLowStock, error) {
	return nil, nil
}

func (f *fakeLowStockRepo) MarkRead(context.Context, primitive.ObjectID) error {
	return nil
}

func (f *fakeLowStockRepo) HasUnreadForProduct(_ context.Context, productID primitive.ObjectID) (bool, error) {
	return f.unread[productID], nil
}

func lowStockProduct() *models.Product {
	return &models.Product{
		ID:              primitive.NewObjectID(),
		ProductName:     "widget",
		VendorID:        primitive.NewObjectID(),
		Quantity:        2,
		InitialQuantity: 20,
	}
}

func TestProductViewedSkipsHealthyStock(t *testing.T) {
	t.Parallel()

	repo := newFakeLowStockRepo()
	alerter := notify.NewLowStockAlerter(repo, database.NotifyPolicyAlways)

	p := lowStockProduct()
	p.Quantity = 10
	alerter.ProductViewed(context.Background(), p)

	assert.Empty(t, repo.created)
}

func TestProductViewedAlwaysPolicy(t *testing.T) {
	t.Parallel()

	repo := newFakeLowStockRepo()
	alerter := notify.NewLowStockAlerter(repo, database.NotifyPolicyAlways)

	p := lowStockProduct()
	alerter.ProductViewed(context.Background(), p)
	alerter.ProductViewed(context.Background(), p)

	require.Len(t, repo.created, 2)
	assert.Equal(t, p.VendorID, repo.created[0].VendorID)
	assert.Equal(t, p.ID, repo.created[0].ProductID)
	assert.Contains(t, repo.created[0].Message, "widget")
	assert.False(t, repo.created[0].MarkRead)
}

func TestProductViewedDedupePolicy(t *testing.T) {
	t.Parallel()

	repo := newFakeLowStockRepo()
	alerter := notify.NewLowStockAlerter(repo, database.NotifyPolicyDedupe)

	p := lowStockProduct()
	alerter.ProductViewed(context.Background(), p)
	alerter.ProductViewed(context.Background(), p)

	require.Len(t, repo.created, 1)

	// Reading the alert re-arms the emitter.
	repo.unread[p.ID] = false
	alerter.ProductViewed(context.Background(), p)
	assert.Len(t, repo.created, 2)
}

func TestProductsViewedMixedBatch(t *testing.T) {
	t.Parallel()

	repo := newFakeLowStockRepo()
	alerter := notify.NewLowStockAlerter(repo, database.NotifyPolicyAlways)

	low := lowStockProduct()
	healthy := lowStockProduct()
	healthy.Quantity = 15

	alerter.ProductsViewed(context.Background(), []models.Product{*low, *healthy})

	require.Len(t, repo.created, 1)
	assert.Equal(t, low.ID, repo.created[0].ProductID)
}
