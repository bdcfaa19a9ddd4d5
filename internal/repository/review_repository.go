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

type reviewRepo struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *database.DB) ReviewRepository {
	return &reviewRepo{coll: db.Collection(database.CollReviews)}
}

func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	if review.ReviewNote == "" {
		return fmt.Errorf("%w: review note required", ErrInvalidInput)
	}

	err := r.coll.FindOne(ctx, bson.M{"user_id": review.UserID, "vendor_id": review.VendorID}).Err()
	if err == nil {
		return fmt.Errorf("%w: vendor already reviewed by this user", ErrDuplicate)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check existing review: %w", err)
	}

	res, err := r.coll.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: vendor already reviewed by this user", ErrDuplicate)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	review.ID = res.InsertedID.(primitive.ObjectID)

	return nil
}

func (r *reviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review

	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review %s: %w", id.Hex(), err)
	}

	return &review, nil
}

func (r *reviewRepo) GetAll(ctx context.Context) ([]models.Review, error) {
	return r.find(ctx, bson.M{})
}

func (r *reviewRepo) GetByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Review, error) {
	return r.find(ctx, bson.M{"vendor_id": vendorID})
}

func (r *reviewRepo) find(ctx context.Context, filter bson.M) ([]models.Review, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepo) GetByUserAndVendor(ctx context.Context, userID, vendorID primitive.ObjectID) (*models.Review, error) {
	var review models.Review

	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "vendor_id": vendorID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review by user and vendor: %w", err)
	}

	return &review, nil
}

func (r *reviewRepo) UpdateNote(ctx context.Context, id primitive.ObjectID, note string) error {
	if note == "" {
		return fmt.Errorf("%w: review note required", ErrInvalidInput)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"review": note}},
	)
	if err != nil {
		return fmt.Errorf("failed to update review %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
