package handlers

import (
	"errors"
	"net/http"

	"marketplace/internal/models"
	"marketplace/internal/repository"
)

type ListingHandler struct {
	listings repository.ListingRepository
	products repository.ProductRepository
	users    repository.UserRepository
}

func NewListingHandler(
	listings repository.ListingRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		products: products,
		users:    users,
	}
}

type listingView struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	UserID          string  `json:"user_id"`
	VendorID        string  `json:"vendor_id,omitempty"`
	VendorName      string  `json:"vendor_name,omitempty"`
	OrderID         *string `json:"order_id"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	ReadyStatus     bool    `json:"ready_status"`
	DeliveredStatus bool    `json:"delivered_status"`
}

type createListingRequest struct {
	ProductID string `json:"product_id" validate:"required,len=24,hexadecimal"`
	UserID    string `json:"user_id" validate:"required,len=24,hexadecimal"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type updateListingRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

func (h *ListingHandler) view(r *http.Request, l *models.ProductListing) listingView {
	v := listingView{
		ID:              l.ID.Hex(),
		ProductID:       l.ProductID.Hex(),
		UserID:          l.UserID.Hex(),
		Quantity:        l.Quantity,
		Price:           l.Price,
		ReadyStatus:     l.ReadyStatus,
		DeliveredStatus: l.DeliveredStatus,
	}
	if l.OrderID != nil {
		hex := l.OrderID.Hex()
		v.OrderID = &hex
	}

	// The product may have been deleted after the listing was created; the
	// listing still renders with its snapshotted price.
	product, err := h.products.GetByID(r.Context(), l.ProductID)
	if err != nil {
		return v
	}
	v.ProductName = product.ProductName
	v.VendorID = product.VendorID.Hex()
	if vendor, err := h.users.GetByID(r.Context(), product.VendorID); err == nil {
		v.VendorName = vendor.Name
	}
	return v
}

func (h *ListingHandler) views(r *http.Request, listings []models.ProductListing) []listingView {
	views := make([]listingView, 0, len(listings))
	for i := range listings {
		views = append(views, h.view(r, &listings[i]))
	}
	return views
}

func (h *ListingHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, err, "get product listings")
		return
	}
	writeJSON(w, http.StatusOK, h.views(r, listings))
}

func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	listing, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "product listing")
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, listing))
}

func (h *ListingHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	listings, err := h.listings.GetByUser(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err, "get product listings")
		return
	}
	writeJSON(w, http.StatusOK, h.views(r, listings))
}

// GetByVendor returns the vendor's slice of the outstanding work: listings
// attached to an order whose underlying product belongs to the vendor.
func (h *ListingHandler) GetByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	listings, err := h.listings.GetAttached(r.Context())
	if err != nil {
		writeRepoError(w, err, "get product listings")
		return
	}

	views := make([]listingView, 0, len(listings))
	for i := range listings {
		product, err := h.products.GetByID(r.Context(), listings[i].ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			writeRepoError(w, err, "get product listings")
			return
		}
		if product.VendorID != vendorID {
			continue
		}
		views = append(views, h.view(r, &listings[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	productID, ok := parseBodyID(w, "product_id", req.ProductID)
	if !ok {
		return
	}
	userID, ok := parseBodyID(w, "user_id", req.UserID)
	if !ok {
		return
	}

	listing := &models.ProductListing{
		ProductID: productID,
		UserID:    userID,
		Quantity:  req.Quantity,
	}
	if err := h.listings.Create(r.Context(), listing); err != nil {
		writeRepoError(w, err, "create product listing")
		return
	}

	w.Header().Set("Location", "/api/listings/"+listing.ID.Hex())
	writeJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req updateListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	listing, err := h.listings.UpdateQuantity(r.Context(), id, req.Quantity)
	if err != nil {
		writeRepoError(w, err, "update product listing")
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.listings.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "product listing")
		return
	}
	writeMessage(w, http.StatusOK, "Product listing deleted")
}

func (h *ListingHandler) SetReady(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.listings.SetReady(r.Context(), id); err != nil {
		writeRepoError(w, err, "product listing")
		return
	}
	writeMessage(w, http.StatusOK, "Product listing marked ready")
}

func (h *ListingHandler) SetDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.listings.SetDelivered(r.Context(), id); err != nil {
		writeRepoError(w, err, "product listing")
		return
	}
	writeMessage(w, http.StatusOK, "Product listing marked delivered")
}
