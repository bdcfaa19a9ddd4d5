package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"marketplace/internal/database"
	"marketplace/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type orderRepo struct {
	db           *database.DB
	coll         *mongo.Collection
	listings     *mongo.Collection
	products     *mongo.Collection
	users        *mongo.Collection
	cancelled    *mongo.Collection
	cancelNotifs *mongo.Collection
	invalidator  ProductInvalidator
}

// NewOrderRepository wires the order workflow. invalidator may be nil when no
// product cache is in front of the products collection.
func NewOrderRepository(db *database.DB, invalidator ProductInvalidator) OrderRepository {
	return &orderRepo{
		db:           db,
		coll:         db.Collection(database.CollOrders),
		listings:     db.Collection(database.CollProductListings),
		products:     db.Collection(database.CollProducts),
		users:        db.Collection(database.CollUsers),
		cancelled:    db.Collection(database.CollCancelledOrders),
		cancelNotifs: db.Collection(database.CollNotificationOrderCancel),
		invalidator:  invalidator,
	}
}

// Create reserves stock for every listing and inserts the order. The
// sufficiency check runs over all items before the first decrement, so a
// rejected order leaves every product untouched.
func (r *orderRepo) Create(ctx context.Context, customerID primitive.ObjectID, itemIDs []primitive.ObjectID) (*models.Order, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrInvalidInput)
	}

	err := r.users.FindOne(ctx, bson.M{"_id": customerID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: customer does not exist", ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to check customer: %w", err)
	}

	items, err := r.fetchListings(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	if len(items) != len(itemIDs) {
		return nil, fmt.Errorf("%w: some product listings could not be found", ErrInvalidInput)
	}
	if attached := attachedElsewhere(items, primitive.NilObjectID); len(attached) > 0 {
		return nil, fmt.Errorf("%w: listings already attached to an order: %s", ErrInvalidInput, joinHex(attached))
	}

	products, err := r.fetchProducts(ctx, items)
	if err != nil {
		return nil, err
	}
	if ins := insufficientProducts(items, stockLevels(products)); len(ins) > 0 {
		return nil, fmt.Errorf("%w: insufficient quantity for products: %s", ErrNotEnough, joinHex(ins))
	}

	order := &models.Order{
		ID:             primitive.NewObjectID(),
		OrderDate:      time.Now(),
		OrderStatus:    models.OrderStatusProcessing,
		EditableStatus: true,
		TotalAmount:    orderTotal(items),
		CustomerID:     customerID,
	}
	for i := range items {
		items[i].OrderID = &order.ID
	}
	order.OrderItems = items

	err = r.db.RunTransaction(ctx, func(ctx context.Context) error {
		for _, item := range items {
			if err := r.adjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		if _, err := r.coll.InsertOne(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		_, err := r.listings.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": listingIDs(items)}},
			bson.M{"$set": bson.M{"order_id": order.ID}},
		)
		if err != nil {
			return fmt.Errorf("failed to attach listings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, products)
	return order, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order

	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id.Hex(), err)
	}

	if err := r.refresh(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.findAndRefresh(ctx, bson.M{})
}

func (r *orderRepo) GetByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	return r.findAndRefresh(ctx, bson.M{"customer_id": customerID})
}

func (r *orderRepo) findAndRefresh(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	for i := range orders {
		if err := r.refresh(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// refresh re-reads the canonical listings, recomputes the derived status
// fields and writes them back. Stored status is a lazily maintained
// projection: it can lag between reads but never survives one.
func (r *orderRepo) refresh(ctx context.Context, o *models.Order) error {
	items, err := r.fetchListings(ctx, listingIDs(o.OrderItems))
	if err != nil {
		return err
	}
	o.Refresh(items)

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": o.ID},
		bson.M{"$set": bson.M{
			"order_items":     o.OrderItems,
			"order_status":    o.OrderStatus,
			"editable_status": o.EditableStatus,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to persist order status %s: %w", o.ID.Hex(), err)
	}
	return nil
}

// UpdateItems swaps the order's item set. Added items are reserved, removed
// items are released and detached; the whole update is rejected while any
// current or incoming item is ready, or while cancellation is pending.
func (r *orderRepo) UpdateItems(ctx context.Context, id primitive.ObjectID, itemIDs []primitive.ObjectID) (*models.Order, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrInvalidInput)
	}

	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id.Hex(), err)
	}

	if order.CancelStatus {
		return nil, fmt.Errorf("%w: cancellation has been requested", ErrNotEditable)
	}

	current, err := r.fetchListings(ctx, listingIDs(order.OrderItems))
	if err != nil {
		return nil, err
	}

	updated, err := r.fetchListings(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	if len(updated) != len(itemIDs) {
		return nil, fmt.Errorf("%w: some product listings could not be found", ErrInvalidInput)
	}
	if attached := attachedElsewhere(updated, order.ID); len(attached) > 0 {
		return nil, fmt.Errorf("%w: listings already attached to another order: %s", ErrInvalidInput, joinHex(attached))
	}

	if anyReady(current) || anyReady(updated) {
		return nil, fmt.Errorf("%w: one or more items are marked ready", ErrNotEditable)
	}

	added, removed := partitionListings(current, updated)

	addedProducts, err := r.fetchProducts(ctx, added)
	if err != nil {
		return nil, err
	}
	if ins := insufficientProducts(added, stockLevels(addedProducts)); len(ins) > 0 {
		return nil, fmt.Errorf("%w: insufficient quantity for products: %s", ErrNotEnough, joinHex(ins))
	}

	for i := range updated {
		updated[i].OrderID = &order.ID
	}
	order.OrderItems = updated
	order.TotalAmount = orderTotal(updated)
	order.OrderStatus, order.EditableStatus = models.DeriveOrderStatus(updated, order.CancelStatus)

	err = r.db.RunTransaction(ctx, func(ctx context.Context) error {
		for _, item := range removed {
			if err := r.adjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if len(removed) > 0 {
			_, err := r.listings.UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": listingIDs(removed)}},
				bson.M{"$set": bson.M{"order_id": nil}},
			)
			if err != nil {
				return fmt.Errorf("failed to detach listings: %w", err)
			}
		}
		for _, item := range added {
			if err := r.adjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		if len(added) > 0 {
			_, err := r.listings.UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": listingIDs(added)}},
				bson.M{"$set": bson.M{"order_id": order.ID}},
			)
			if err != nil {
				return fmt.Errorf("failed to attach listings: %w", err)
			}
		}

		_, err := r.coll.UpdateOne(ctx,
			bson.M{"_id": order.ID},
			bson.M{"$set": bson.M{
				"order_items":     order.OrderItems,
				"total_amount":    order.TotalAmount,
				"order_status":    order.OrderStatus,
				"editable_status": order.EditableStatus,
			}},
		)
		if err != nil {
			return fmt.Errorf("failed to update order %s: %w", order.ID.Hex(), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateItems(ctx, append(added, removed...))
	return &order, nil
}

// RequestCancel is the reversible first phase: it flags the order and blocks
// further edits. Stock stays reserved until Delete approves the cancellation.
func (r *orderRepo) RequestCancel(ctx context.Context, id primitive.ObjectID) error {
	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get order %s: %w", id.Hex(), err)
	}

	if order.CancelStatus {
		return fmt.Errorf("%w: cancellation already requested", ErrInvalidInput)
	}

	items, err := r.fetchListings(ctx, listingIDs(order.OrderItems))
	if err != nil {
		return err
	}
	if status, _ := models.DeriveOrderStatus(items, false); status == models.OrderStatusDelivered {
		return fmt.Errorf("%w: order has already been delivered", ErrInvalidInput)
	}

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"cancel_status":   true,
			"order_status":    models.OrderStatusCancelRequested,
			"editable_status": false,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", id.Hex(), err)
	}

	return nil
}

// Delete completes a requested cancellation: every reserved unit goes back to
// its product, listings are detached, an audit record and a customer
// notification are written, and the order document is removed.
func (r *orderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get order %s: %w", id.Hex(), err)
	}

	if !order.CancelStatus {
		return fmt.Errorf("%w: cancellation has not been requested", ErrInvalidInput)
	}

	items, err := r.fetchListings(ctx, listingIDs(order.OrderItems))
	if err != nil {
		return err
	}
	if anyReady(items) {
		return fmt.Errorf("%w: one or more items are marked ready", ErrNotEditable)
	}

	err = r.db.RunTransaction(ctx, func(ctx context.Context) error {
		for _, item := range items {
			if err := r.adjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if len(items) > 0 {
			_, err := r.listings.UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": listingIDs(items)}},
				bson.M{"$set": bson.M{"order_id": nil}},
			)
			if err != nil {
				return fmt.Errorf("failed to detach listings: %w", err)
			}
		}

		audit := models.CancelledOrder{
			OrderDate:  order.OrderDate,
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			CancelNote: "Cancellation approved, order removed",
		}
		if _, err := r.cancelled.InsertOne(ctx, audit); err != nil {
			return fmt.Errorf("failed to record cancelled order: %w", err)
		}

		notification := models.NotificationOrderCancel{
			CreatedTime: time.Now(),
			OrderID:     order.ID,
			UserID:      order.CustomerID,
			Message:     fmt.Sprintf("Your order %s has been cancelled", order.ID.Hex()),
		}
		if _, err := r.cancelNotifs.InsertOne(ctx, notification); err != nil {
			return fmt.Errorf("failed to create cancel notification: %w", err)
		}

		if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": order.ID}); err != nil {
			return fmt.Errorf("failed to delete order %s: %w", order.ID.Hex(), err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidateItems(ctx, items)
	return nil
}

// Deliver marks every item ready and delivered and settles the order status.
func (r *orderRepo) Deliver(ctx context.Context, id primitive.ObjectID) error {
	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get order %s: %w", id.Hex(), err)
	}

	items, err := r.fetchListings(ctx, listingIDs(order.OrderItems))
	if err != nil {
		return err
	}
	for i := range items {
		items[i].ReadyStatus = true
		items[i].DeliveredStatus = true
	}

	return r.db.RunTransaction(ctx, func(ctx context.Context) error {
		if len(items) > 0 {
			_, err := r.listings.UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": listingIDs(items)}},
				bson.M{"$set": bson.M{"ready_status": true, "delivered_status": true}},
			)
			if err != nil {
				return fmt.Errorf("failed to update listings: %w", err)
			}
		}

		_, err := r.coll.UpdateOne(ctx,
			bson.M{"_id": order.ID},
			bson.M{"$set": bson.M{
				"order_items":     items,
				"order_status":    models.OrderStatusDelivered,
				"editable_status": false,
			}},
		)
		if err != nil {
			return fmt.Errorf("failed to update order %s: %w", order.ID.Hex(), err)
		}
		return nil
	})
}

func (r *orderRepo) fetchListings(ctx context.Context, ids []primitive.ObjectID) ([]models.ProductListing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.listings.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get listings: %w", err)
	}

	var listings []models.ProductListing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	return listings, nil
}

func (r *orderRepo) fetchProducts(ctx context.Context, items []models.ProductListing) ([]models.Product, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[primitive.ObjectID]bool)
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	cursor, err := r.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// adjustStock applies a quantity delta. Decrements carry a filter guard so a
// concurrent reservation that already drained the stock fails here instead
// of driving the quantity negative.
func (r *orderRepo) adjustStock(ctx context.Context, productID primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": productID}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}

	res, err := r.products.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"quantity": delta}})
	if err != nil {
		return fmt.Errorf("failed to adjust product %s stock: %w", productID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		if delta < 0 {
			return fmt.Errorf("%w: insufficient quantity for product %s", ErrNotEnough, productID.Hex())
		}
		return fmt.Errorf("failed to adjust product %s stock: %w", productID.Hex(), ErrNotFound)
	}

	return nil
}

// invalidateItems resolves the listings' products and drops their cached
// copies, the per-vendor listing keys included. A failed lookup only costs
// cache freshness, so it is logged and dropped.
func (r *orderRepo) invalidateItems(ctx context.Context, items []models.ProductListing) {
	if r.invalidator == nil || len(items) == 0 {
		return
	}
	products, err := r.fetchProducts(ctx, items)
	if err != nil {
		log.Printf("failed to resolve products for cache invalidation: %v", err)
		return
	}
	r.invalidate(ctx, products)
}

func (r *orderRepo) invalidate(ctx context.Context, products []models.Product) {
	if r.invalidator == nil {
		return
	}
	seen := make(map[primitive.ObjectID]bool)
	for _, p := range products {
		if !seen[p.ID] {
			seen[p.ID] = true
			r.invalidator.InvalidateProduct(ctx, p.ID, p.VendorID)
		}
	}
}
