package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names match the original data set so an existing database can be
// pointed at directly.
const (
	CollUsers                   = "Users"
	CollCategories              = "Categories"
	CollProducts                = "Products"
	CollProductListings         = "ProductListings"
	CollOrders                  = "Orders"
	CollRanks                   = "Ranks"
	CollReviews                 = "Reviews"
	CollCancelledOrders         = "CancelledOrders"
	CollNotificationLowStock    = "NotificationLowStock"
	CollNotificationOrderCancel = "NotificationOrderCancel"
)

type DB struct {
	client     *mongo.Client
	db         *mongo.Database
	txnEnabled bool
}

func Connect(cfg *Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return &DB{
		client:     client,
		db:         client.Database(cfg.DBName),
		txnEnabled: cfg.TxnEnabled,
	}, nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// RunTransaction executes fn inside a session transaction when transactions
// are enabled (requires a replica set). Otherwise fn runs directly and each
// write commits on its own, which is the behavior of the original system.
func (d *DB) RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !d.txnEnabled {
		return fn(ctx)
	}

	sess, err := d.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique indexes the domain relies on: category
// names and one ranking/review per (user, vendor) pair.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := d.Collection(CollCategories).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "category_name", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("failed to create category index: %w", err)
	}

	pairKeys := bson.D{{Key: "user_id", Value: 1}, {Key: "vendor_id", Value: 1}}
	for _, coll := range []string{CollRanks, CollReviews} {
		_, err := d.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    pairKeys,
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("failed to create %s index: %w", coll, err)
		}
	}

	_, err = d.Collection(CollProductListings).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create listing index: %w", err)
	}

	return nil
}
