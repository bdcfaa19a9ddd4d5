package handlers

import (
	"errors"
	"net/http"

	"marketplace/internal/models"
	"marketplace/internal/notify"
	"marketplace/internal/repository"
)

type ProductHandler struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	alerter    *notify.LowStockAlerter
}

func NewProductHandler(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	alerter *notify.LowStockAlerter,
) *ProductHandler {
	return &ProductHandler{
		products:   products,
		categories: categories,
		users:      users,
		alerter:    alerter,
	}
}

// productView is the joined read shape: the stored category and vendor IDs
// resolved to display names, plus the derived low-stock flag.
type productView struct {
	ID                 string  `json:"id"`
	ProductName        string  `json:"product_name"`
	ProductDescription string  `json:"product_description"`
	UnitPrice          float64 `json:"unit_price"`
	Quantity           int     `json:"quantity"`
	InitialQuantity    int     `json:"initial_quantity"`
	LowStock           bool    `json:"low_stock"`
	Image              string  `json:"image"`
	CategoryID         string  `json:"category_id"`
	CategoryName       string  `json:"category_name"`
	VendorID           string  `json:"vendor_id"`
	VendorName         string  `json:"vendor_name"`
}

type createProductRequest struct {
	ProductName        string  `json:"product_name" validate:"required,min=1,max=200"`
	ProductDescription string  `json:"product_description"`
	UnitPrice          float64 `json:"unit_price" validate:"required,gt=0"`
	Quantity           int     `json:"quantity" validate:"gte=0"`
	Image              string  `json:"image"`
	CategoryID         string  `json:"category_id" validate:"required,len=24,hexadecimal"`
	VendorID           string  `json:"vendor_id" validate:"required,len=24,hexadecimal"`
}

type updateProductRequest struct {
	ProductName        string  `json:"product_name" validate:"required,min=1,max=200"`
	ProductDescription string  `json:"product_description"`
	UnitPrice          float64 `json:"unit_price" validate:"required,gt=0"`
	Image              string  `json:"image"`
	CategoryID         string  `json:"category_id" validate:"required,len=24,hexadecimal"`
	VendorID           string  `json:"vendor_id" validate:"required,len=24,hexadecimal"`
}

type restockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

func (h *ProductHandler) view(r *http.Request, p *models.Product) productView {
	v := productView{
		ID:                 p.ID.Hex(),
		ProductName:        p.ProductName,
		ProductDescription: p.ProductDescription,
		UnitPrice:          p.UnitPrice,
		Quantity:           p.Quantity,
		InitialQuantity:    p.InitialQuantity,
		LowStock:           p.LowStock(),
		Image:              p.Image,
		CategoryID:         p.CategoryID.Hex(),
		VendorID:           p.VendorID.Hex(),
	}
	if category, err := h.categories.GetByID(r.Context(), p.CategoryID); err == nil {
		v.CategoryName = category.CategoryName
	}
	if vendor, err := h.users.GetByID(r.Context(), p.VendorID); err == nil {
		v.VendorName = vendor.Name
	}
	return v
}

// GetAll lists the catalog. Products whose category is missing or inactive
// are hidden here; the single-product endpoint still serves them.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, err, "get products")
		return
	}

	views := make([]productView, 0, len(products))
	for i := range products {
		category, err := h.categories.GetByID(r.Context(), products[i].CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			writeRepoError(w, err, "get products")
			return
		}
		if !category.ActiveStatus {
			continue
		}
		views = append(views, h.view(r, &products[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "product")
		return
	}

	h.alerter.ProductViewed(r.Context(), product)
	writeJSON(w, http.StatusOK, h.view(r, product))
}

func (h *ProductHandler) GetByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	products, err := h.products.GetByVendor(r.Context(), vendorID)
	if err != nil {
		writeRepoError(w, err, "get products")
		return
	}

	h.alerter.ProductsViewed(r.Context(), products)

	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, h.view(r, &products[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	categoryID, ok := parseBodyID(w, "category_id", req.CategoryID)
	if !ok {
		return
	}
	vendorID, ok := parseBodyID(w, "vendor_id", req.VendorID)
	if !ok {
		return
	}

	product := &models.Product{
		ProductName:        req.ProductName,
		ProductDescription: req.ProductDescription,
		UnitPrice:          req.UnitPrice,
		Quantity:           req.Quantity,
		Image:              req.Image,
		CategoryID:         categoryID,
		VendorID:           vendorID,
	}
	if err := h.products.Create(r.Context(), product); err != nil {
		writeRepoError(w, err, "create product")
		return
	}

	w.Header().Set("Location", "/api/products/"+product.ID.Hex())
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req updateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	categoryID, ok := parseBodyID(w, "category_id", req.CategoryID)
	if !ok {
		return
	}
	vendorID, ok := parseBodyID(w, "vendor_id", req.VendorID)
	if !ok {
		return
	}

	product := &models.Product{
		ID:                 id,
		ProductName:        req.ProductName,
		ProductDescription: req.ProductDescription,
		UnitPrice:          req.UnitPrice,
		Image:              req.Image,
		CategoryID:         categoryID,
		VendorID:           vendorID,
	}
	if err := h.products.Update(r.Context(), product); err != nil {
		writeRepoError(w, err, "update product")
		return
	}
	writeMessage(w, http.StatusOK, "Product updated")
}

func (h *ProductHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req restockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.products.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		writeRepoError(w, err, "restock product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "product")
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted")
}
