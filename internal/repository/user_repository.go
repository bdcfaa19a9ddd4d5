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

type userRepo struct {
	coll *mongo.Collection
}

func NewUserRepository(db *database.DB) UserRepository {
	return &userRepo{coll: db.Collection(database.CollUsers)}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if u.Name == "" {
		return fmt.Errorf("%w: user name required", ErrInvalidInput)
	}
	if u.Email == "" {
		return fmt.Errorf("%w: user email required", ErrInvalidInput)
	}

	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)

	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User

	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id.Hex(), err)
	}

	return &user, nil
}

func (r *userRepo) GetAll(ctx context.Context) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	if u.Name == "" {
		return fmt.Errorf("%w: user name required", ErrInvalidInput)
	}
	if u.Email == "" {
		return fmt.Errorf("%w: user email required", ErrInvalidInput)
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", u.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *userRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByCredentials does a plain email+password match. There is no session or
// token layer on top of it.
func (r *userRepo) GetByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User

	err := r.coll.FindOne(ctx, bson.M{"email": email, "password": password}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by credentials: %w", err)
	}

	return &user, nil
}
