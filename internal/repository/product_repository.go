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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productRepo struct {
	coll       *mongo.Collection
	categories *mongo.Collection
	users      *mongo.Collection
}

func NewProductRepository(db *database.DB) ProductRepository {
	return &productRepo{
		coll:       db.Collection(database.CollProducts),
		categories: db.Collection(database.CollCategories),
		users:      db.Collection(database.CollUsers),
	}
}

func (r *productRepo) validateRefs(ctx context.Context, p *models.Product) error {
	err := r.categories.FindOne(ctx, bson.M{"_id": p.CategoryID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: invalid category ID", ErrInvalidInput)
		}
		return fmt.Errorf("failed to check category: %w", err)
	}

	err = r.users.FindOne(ctx, bson.M{"_id": p.VendorID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: invalid vendor ID", ErrInvalidInput)
		}
		return fmt.Errorf("failed to check vendor: %w", err)
	}

	return nil
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	if p.ProductName == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if p.UnitPrice <= 0 {
		return fmt.Errorf("%w: product price should be positive", ErrInvalidInput)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: product quantity cannot be negative", ErrInvalidInput)
	}

	if err := r.validateRefs(ctx, p); err != nil {
		return err
	}

	// The starting stock level is the baseline for low-stock detection
	// until the next restock.
	p.InitialQuantity = p.Quantity

	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)

	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product

	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id.Hex(), err)
	}

	return &product, nil
}

func (r *productRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func (r *productRepo) GetByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"vendor_id": vendorID})
	if err != nil {
		return nil, fmt.Errorf("failed to get products by vendor %s: %w", vendorID.Hex(), err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// Update replaces the descriptive fields. Stock levels are owned by the
// order paths and Restock, so quantity and initial_quantity stay untouched.
func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	if p.ProductName == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if p.UnitPrice <= 0 {
		return fmt.Errorf("%w: product price should be positive", ErrInvalidInput)
	}

	if err := r.validateRefs(ctx, p); err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$set": bson.M{
			"product_name":        p.ProductName,
			"product_description": p.ProductDescription,
			"unit_price":          p.UnitPrice,
			"image":               p.Image,
			"category_id":         p.CategoryID,
			"vendor_id":           p.VendorID,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", p.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *productRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// Restock adds quantity and resets initial_quantity to the new level in one
// atomic pipeline update, so the low-stock baseline always reflects the last
// restock.
func (r *productRepo) Restock(ctx context.Context, id primitive.ObjectID, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be positive", ErrInvalidInput)
	}

	newLevel := bson.M{"$add": bson.A{"$quantity", quantity}}
	update := bson.A{bson.M{"$set": bson.M{
		"quantity":         newLevel,
		"initial_quantity": newLevel,
	}}}

	var product models.Product
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to restock product %s: %w", id.Hex(), err)
	}

	return &product, nil
}
