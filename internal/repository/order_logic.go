package repository

import (
	"strings"

	"marketplace/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// insufficientProducts returns the product IDs whose available stock cannot
// cover the listing quantities. stock maps product ID to available quantity;
// a product missing from the map counts as insufficient. The caller must not
// decrement anything unless the result is empty.
func insufficientProducts(items []models.ProductListing, stock map[primitive.ObjectID]int) []primitive.ObjectID {
	// Listings for the same product draw from the same pool, so demand is
	// summed per product before the comparison.
	demand := make(map[primitive.ObjectID]int)
	var order []primitive.ObjectID
	for _, item := range items {
		if _, seen := demand[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		demand[item.ProductID] += item.Quantity
	}

	var insufficient []primitive.ObjectID
	for _, productID := range order {
		available, ok := stock[productID]
		if !ok || available < demand[productID] {
			insufficient = append(insufficient, productID)
		}
	}
	return insufficient
}

// stockLevels projects fetched products onto the available-quantity map the
// sufficiency check consumes.
func stockLevels(products []models.Product) map[primitive.ObjectID]int {
	stock := make(map[primitive.ObjectID]int, len(products))
	for _, p := range products {
		stock[p.ID] = p.Quantity
	}
	return stock
}

// attachedElsewhere returns the IDs of listings already attached to an order
// other than orderID. A listing can only hold one reservation; re-attaching
// it would let the first order's cancellation restore stock out from under
// the second. For order creation pass NilObjectID: any attachment is foreign.
func attachedElsewhere(items []models.ProductListing, orderID primitive.ObjectID) []primitive.ObjectID {
	var attached []primitive.ObjectID
	for _, item := range items {
		if item.OrderID != nil && *item.OrderID != orderID {
			attached = append(attached, item.ID)
		}
	}
	return attached
}

// partitionListings splits the requested item set against the current one:
// added items need a fresh reservation, removed items release theirs. Items
// present in both sets are untouched.
func partitionListings(current, updated []models.ProductListing) (added, removed []models.ProductListing) {
	currentIDs := make(map[primitive.ObjectID]bool, len(current))
	for _, item := range current {
		currentIDs[item.ID] = true
	}
	updatedIDs := make(map[primitive.ObjectID]bool, len(updated))
	for _, item := range updated {
		updatedIDs[item.ID] = true
	}

	for _, item := range updated {
		if !currentIDs[item.ID] {
			added = append(added, item)
		}
	}
	for _, item := range current {
		if !updatedIDs[item.ID] {
			removed = append(removed, item)
		}
	}
	return added, removed
}

// orderTotal sums the snapshotted listing prices.
func orderTotal(items []models.ProductListing) float64 {
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return total
}

func anyReady(items []models.ProductListing) bool {
	for _, item := range items {
		if item.ReadyStatus {
			return true
		}
	}
	return false
}

func listingIDs(items []models.ProductListing) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func joinHex(ids []primitive.ObjectID) string {
	hexes := make([]string, 0, len(ids))
	for _, id := range ids {
		hexes = append(hexes, id.Hex())
	}
	return strings.Join(hexes, ", ")
}
