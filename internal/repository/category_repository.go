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

type categoryRepo struct {
	coll *mongo.Collection
}

func NewCategoryRepository(db *database.DB) CategoryRepository {
	return &categoryRepo{coll: db.Collection(database.CollCategories)}
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	if c.CategoryName == "" {
		return fmt.Errorf("%w: category name required", ErrInvalidInput)
	}

	// Name uniqueness spans active and inactive categories.
	err := r.coll.FindOne(ctx, bson.M{"category_name": c.CategoryName}).Err()
	if err == nil {
		return fmt.Errorf("%w: category already exists", ErrDuplicate)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check category name: %w", err)
	}

	c.ActiveStatus = true

	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: category already exists", ErrDuplicate)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)

	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category

	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category %s: %w", id.Hex(), err)
	}

	return &category, nil
}

func (r *categoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	if c.CategoryName == "" {
		return fmt.Errorf("%w: category name required", ErrInvalidInput)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": c.ID},
		bson.M{"$set": bson.M{"category_name": c.CategoryName}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: category already exists", ErrDuplicate)
		}
		return fmt.Errorf("failed to update category %s: %w", c.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *categoryRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if category.ActiveStatus == active {
		if active {
			return fmt.Errorf("%w: category already active", ErrInvalidInput)
		}
		return fmt.Errorf("%w: category already inactive", ErrInvalidInput)
	}

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"active_status": active}},
	)
	if err != nil {
		return fmt.Errorf("failed to update category status %s: %w", id.Hex(), err)
	}

	return nil
}
