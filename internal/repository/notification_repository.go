package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/database"
	"marketplace/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Notification documents are append-only; the only mutation is the mark-read
// flip.

type lowStockNotificationRepo struct {
	coll *mongo.Collection
}

func NewLowStockNotificationRepository(db *database.DB) LowStockNotificationRepository {
	return &lowStockNotificationRepo{coll: db.Collection(database.CollNotificationLowStock)}
}

func (r *lowStockNotificationRepo) Create(ctx context.Context, n *models.NotificationLowStock) error {
	if n.Message == "" {
		return fmt.Errorf("%w: notification message required", ErrInvalidInput)
	}

	n.CreatedTime = time.Now()
	n.MarkRead = false

	res, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to create low stock notification: %w", err)
	}
	n.ID = res.InsertedID.(primitive.ObjectID)

	return nil
}

func (r *lowStockNotificationRepo) GetByVendor(ctx context.Context, vendorID primitive.ObjectID) (*models.NotificationLowStock, error) {
	var notification models.NotificationLowStock

	err := r.coll.FindOne(ctx,
		bson.M{"vendor_id": vendorID},
		options.FindOne().SetSort(bson.D{{Key: "created_time", Value: -1}}),
	).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification for vendor %s: %w", vendorID.Hex(), err)
	}

	return &notification, nil
}

func (r *lowStockNotificationRepo) GetAllByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.NotificationLowStock, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"vendor_id": vendorID})
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications for vendor %s: %w", vendorID.Hex(), err)
	}

	var notifications []models.NotificationLowStock
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, nil
}

func (r *lowStockNotificationRepo) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"mark_read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s as read: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *lowStockNotificationRepo) HasUnreadForProduct(ctx context.Context, productID primitive.ObjectID) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"product_id": productID, "mark_read": false}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check unread notifications for product %s: %w", productID.Hex(), err)
}

type cancelNotificationRepo struct {
	coll *mongo.Collection
}

func NewCancelNotificationRepository(db *database.DB) CancelNotificationRepository {
	return &cancelNotificationRepo{coll: db.Collection(database.CollNotificationOrderCancel)}
}

func (r *cancelNotificationRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.NotificationOrderCancel, error) {
	var notification models.NotificationOrderCancel

	err := r.coll.FindOne(ctx,
		bson.M{"user_id": userID},
		options.FindOne().SetSort(bson.D{{Key: "created_time", Value: -1}}),
	).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notification for user %s: %w", userID.Hex(), err)
	}

	return &notification, nil
}

func (r *cancelNotificationRepo) GetAllByUser(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationOrderCancel, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications for user %s: %w", userID.Hex(), err)
	}

	var notifications []models.NotificationOrderCancel
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, nil
}

func (r *cancelNotificationRepo) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"mark_read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s as read: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
