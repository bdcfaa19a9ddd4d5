package repository

import (
	"context"
	"fmt"

	"marketplace/internal/database"
	"marketplace/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Cancelled orders are written by the order repository as part of the
// cancellation transaction; this repository only reads the audit trail.

type cancelledOrderRepo struct {
	coll *mongo.Collection
}

func NewCancelledOrderRepository(db *database.DB) CancelledOrderRepository {
	return &cancelledOrderRepo{coll: db.Collection(database.CollCancelledOrders)}
}

func (r *cancelledOrderRepo) GetAll(ctx context.Context) ([]models.CancelledOrder, error) {
	return r.find(ctx, bson.M{})
}

func (r *cancelledOrderRepo) GetByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.CancelledOrder, error) {
	return r.find(ctx, bson.M{"customer_id": customerID})
}

func (r *cancelledOrderRepo) find(ctx context.Context, filter bson.M) ([]models.CancelledOrder, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get cancelled orders: %w", err)
	}

	var orders []models.CancelledOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode cancelled orders: %w", err)
	}

	return orders, nil
}
