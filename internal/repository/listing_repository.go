package repository

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/database"
	"marketplace/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type listingRepo struct {
	coll     *mongo.Collection
	products *mongo.Collection
}

func NewListingRepository(db *database.DB) ListingRepository {
	return &listingRepo{
		coll:     db.Collection(database.CollProductListings),
		products: db.Collection(database.CollProducts),
	}
}

func (r *listingRepo) Create(ctx context.Context, l *models.ProductListing) error {
	if l.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	var product models.Product
	err := r.products.FindOne(ctx, bson.M{"_id": l.ProductID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: product does not exist", ErrInvalidInput)
		}
		return fmt.Errorf("failed to get product for listing: %w", err)
	}

	// Price is snapshotted from the current unit price and never recomputed
	// implicitly afterwards.
	l.Price = product.UnitPrice * float64(l.Quantity)
	l.OrderID = nil
	l.ReadyStatus = false
	l.DeliveredStatus = false

	res, err := r.coll.InsertOne(ctx, l)
	if err != nil {
		return fmt.Errorf("failed to create product listing: %w", err)
	}
	l.ID = res.InsertedID.(primitive.ObjectID)

	return nil
}

func (r *listingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ProductListing, error) {
	var listing models.ProductListing

	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %s: %w", id.Hex(), err)
	}

	return &listing, nil
}

func (r *listingRepo) GetAll(ctx context.Context) ([]models.ProductListing, error) {
	return r.find(ctx, bson.M{})
}

func (r *listingRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ProductListing, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// GetAttached returns listings that belong to an order, which is what a
// vendor fulfilment view needs.
func (r *listingRepo) GetAttached(ctx context.Context) ([]models.ProductListing, error) {
	return r.find(ctx, bson.M{"order_id": bson.M{"$ne": nil}})
}

func (r *listingRepo) find(ctx context.Context, filter bson.M) ([]models.ProductListing, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get listings: %w", err)
	}

	var listings []models.ProductListing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	return listings, nil
}

// UpdateQuantity is the one explicit price recomputation: the new price is
// taken from the product's current unit price, not the snapshot.
func (r *listingRepo) UpdateQuantity(ctx context.Context, id primitive.ObjectID, quantity int) (*models.ProductListing, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	listing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var product models.Product
	err = r.products.FindOne(ctx, bson.M{"_id": listing.ProductID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: product does not exist", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to get product for listing: %w", err)
	}

	listing.Quantity = quantity
	listing.Price = product.UnitPrice * float64(quantity)

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"quantity": listing.Quantity, "price": listing.Price}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update listing %s: %w", id.Hex(), err)
	}

	return listing, nil
}

func (r *listingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	listing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// An attached listing holds reserved stock; deleting it would strand
	// the reservation. The order has to release it first.
	if listing.OrderID != nil {
		return fmt.Errorf("%w: listing is attached to an order", ErrInvalidInput)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *listingRepo) SetReady(ctx context.Context, id primitive.ObjectID) error {
	return r.setFlag(ctx, id, "ready_status", "listing is already ready")
}

func (r *listingRepo) SetDelivered(ctx context.Context, id primitive.ObjectID) error {
	return r.setFlag(ctx, id, "delivered_status", "listing is already delivered")
}

func (r *listingRepo) setFlag(ctx context.Context, id primitive.ObjectID, field, alreadyMsg string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, field: false},
		bson.M{"$set": bson.M{field: true}},
	)
	if err != nil {
		return fmt.Errorf("failed to update listing %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing listing from a flag that is already set.
		if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get listing %s: %w", id.Hex(), err)
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, alreadyMsg)
	}

	return nil
}
