package repository

import (
	"context"
	"marketplace/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	GetByCredentials(ctx context.Context, email, password string) (*models.User, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	GetByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Product, error)
	Restock(ctx context.Context, id primitive.ObjectID, quantity int) (*models.Product, error)
}

type ListingRepository interface {
	Create(ctx context.Context, listing *models.ProductListing) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ProductListing, error)
	GetAll(ctx context.Context) ([]models.ProductListing, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ProductListing, error)
	GetAttached(ctx context.Context) ([]models.ProductListing, error)
	UpdateQuantity(ctx context.Context, id primitive.ObjectID, quantity int) (*models.ProductListing, error)
	SetReady(ctx context.Context, id primitive.ObjectID) error
	SetDelivered(ctx context.Context, id primitive.ObjectID) error
}

type OrderRepository interface {
	Create(ctx context.Context, customerID primitive.ObjectID, itemIDs []primitive.ObjectID) (*models.Order, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error)

	UpdateItems(ctx context.Context, id primitive.ObjectID, itemIDs []primitive.ObjectID) (*models.Order, error)
	RequestCancel(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Deliver(ctx context.Context, id primitive.ObjectID) error
}

type RankRepository interface {
	Create(ctx context.Context, rank *models.Ranking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ranking, error)
	GetAll(ctx context.Context) ([]models.Ranking, error)
	GetByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Ranking, error)
	AverageByVendor(ctx context.Context, vendorID primitive.ObjectID) (float64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	GetAll(ctx context.Context) ([]models.Review, error)
	GetByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Review, error)
	GetByUserAndVendor(ctx context.Context, userID, vendorID primitive.ObjectID) (*models.Review, error)
	UpdateNote(ctx context.Context, id primitive.ObjectID, note string) error
}

type LowStockNotificationRepository interface {
	Create(ctx context.Context, n *models.NotificationLowStock) error
	GetByVendor(ctx context.Context, vendorID primitive.ObjectID) (*models.NotificationLowStock, error)
	GetAllByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.NotificationLowStock, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
	HasUnreadForProduct(ctx context.Context, productID primitive.ObjectID) (bool, error)
}

type CancelNotificationRepository interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.NotificationOrderCancel, error)
	GetAllByUser(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationOrderCancel, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
}

type CancelledOrderRepository interface {
	GetAll(ctx context.Context) ([]models.CancelledOrder, error)
	GetByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.CancelledOrder, error)
}

// ProductInvalidator is implemented by the product cache. The order paths
// adjust product quantities outside the product repository, so they need a
// way to drop stale cached copies. The vendor ID is carried along because
// the cache keys vendor listings separately from single products.
type ProductInvalidator interface {
	InvalidateProduct(ctx context.Context, productID, vendorID primitive.ObjectID)
}
