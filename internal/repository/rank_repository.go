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

type rankRepo struct {
	coll *mongo.Collection
}

func NewRankRepository(db *database.DB) RankRepository {
	return &rankRepo{coll: db.Collection(database.CollRanks)}
}

func (r *rankRepo) Create(ctx context.Context, rank *models.Ranking) error {
	if rank.Rank < 0 || rank.Rank > 5 {
		return fmt.Errorf("%w: rank must be between 0 and 5", ErrInvalidInput)
	}

	err := r.coll.FindOne(ctx, bson.M{"user_id": rank.UserID, "vendor_id": rank.VendorID}).Err()
	if err == nil {
		return fmt.Errorf("%w: vendor already ranked by this user", ErrDuplicate)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check existing rank: %w", err)
	}

	res, err := r.coll.InsertOne(ctx, rank)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: vendor already ranked by this user", ErrDuplicate)
		}
		return fmt.Errorf("failed to create rank: %w", err)
	}
	rank.ID = res.InsertedID.(primitive.ObjectID)

	return nil
}

func (r *rankRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ranking, error) {
	var rank models.Ranking

	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rank)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rank %s: %w", id.Hex(), err)
	}

	return &rank, nil
}

func (r *rankRepo) GetAll(ctx context.Context) ([]models.Ranking, error) {
	return r.find(ctx, bson.M{})
}

func (r *rankRepo) GetByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Ranking, error) {
	return r.find(ctx, bson.M{"vendor_id": vendorID})
}

func (r *rankRepo) find(ctx context.Context, filter bson.M) ([]models.Ranking, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranks: %w", err)
	}

	var ranks []models.Ranking
	if err := cursor.All(ctx, &ranks); err != nil {
		return nil, fmt.Errorf("failed to decode ranks: %w", err)
	}

	return ranks, nil
}

func (r *rankRepo) AverageByVendor(ctx context.Context, vendorID primitive.ObjectID) (float64, error) {
	ranks, err := r.GetByVendor(ctx, vendorID)
	if err != nil {
		return 0, err
	}
	if len(ranks) == 0 {
		return 0, ErrNotFound
	}

	var sum float64
	for _, rank := range ranks {
		sum += rank.Rank
	}
	return sum / float64(len(ranks)), nil
}
