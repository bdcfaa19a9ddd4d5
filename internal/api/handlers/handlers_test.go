package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/internal/api/handlers"
	"marketplace/internal/database"
	"marketplace/internal/models"
	"marketplace/internal/notify"
	"marketplace/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- fakes ---

type fakeCategoryRepo struct {
	byID      map[primitive.ObjectID]*models.Category
	createErr error
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *models.Category) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = primitive.NewObjectID()
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCategoryRepo) GetAll(context.Context) ([]models.Category, error) { return nil, nil }
func (f *fakeCategoryRepo) Update(context.Context, *models.Category) error    { return nil }
func (f *fakeCategoryRepo) Delete(context.Context, primitive.ObjectID) error  { return nil }
func (f *fakeCategoryRepo) SetActive(context.Context, primitive.ObjectID, bool) error {
	return nil
}

type fakeUserRepo struct {
	byID map[primitive.ObjectID]*models.User
}

func (f *fakeUserRepo) Create(context.Context, *models.User) error { return nil }
func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeUserRepo) GetAll(context.Context) ([]models.User, error)     { return nil, nil }
func (f *fakeUserRepo) Update(context.Context, *models.User) error        { return nil }
func (f *fakeUserRepo) Delete(context.Context, primitive.ObjectID) error  { return nil }
func (f *fakeUserRepo) GetByCredentials(context.Context, string, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

type fakeProductRepo struct {
	products []models.Product
}

func (f *fakeProductRepo) Create(context.Context, *models.Product) error { return nil }
func (f *fakeProductRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, repository.ErrNotFound
}
func (f *fakeProductRepo) GetAll(context.Context) ([]models.Product, error) {
	return f.products, nil
}
func (f *fakeProductRepo) Update(context.Context, *models.Product) error       { return nil }
func (f *fakeProductRepo) Delete(context.Context, primitive.ObjectID) error    { return nil }
func (f *fakeProductRepo) GetByVendor(_ context.Context, vendorID primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.VendorID == vendorID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakeProductRepo) Restock(context.Context, primitive.ObjectID, int) (*models.Product, error) {
	return nil, repository.ErrNotFound
}

type fakeLowStockRepo struct {
	created []models.NotificationLowStock
}

func (f *fakeLowStockRepo) Create(_ context.Context, n *models.NotificationLowStock) error {
	f.created = append(f.created, *n)
	return nil
}
func (f *fakeLowStockRepo) GetByVendor(context.Context, primitive.ObjectID) (*models.NotificationLowStock, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeLowStockRepo) GetAllByVendor(context.Context, primitive.ObjectID) ([]models.NotificationLowStock, error) {
	return nil, nil
}
func (f *fakeLowStockRepo) MarkRead(context.Context, primitive.ObjectID) error { return nil }
func (f *fakeLowStockRepo) HasUnreadForProduct(context.Context, primitive.ObjectID) (bool, error) {
	return false, nil
}

type fakeOrderRepo struct {
	createErr error
	cancelErr error
	deleteErr error
	order     *models.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, customerID primitive.ObjectID, itemIDs []primitive.ObjectID) (*models.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Order{
		ID:             primitive.NewObjectID(),
		CustomerID:     customerID,
		OrderStatus:    models.OrderStatusProcessing,
		EditableStatus: true,
	}, nil
}

func (f *fakeOrderRepo) GetByID(context.Context, primitive.ObjectID) (*models.Order, error) {
	if f.order != nil {
		return f.order, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeOrderRepo) GetAll(context.Context) ([]models.Order, error) { return nil, nil }
func (f *fakeOrderRepo) GetByCustomer(context.Context, primitive.ObjectID) ([]models.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) UpdateItems(context.Context, primitive.ObjectID, []primitive.ObjectID) (*models.Order, error) {
	return nil, repository.ErrNotEditable
}
func (f *fakeOrderRepo) RequestCancel(context.Context, primitive.ObjectID) error {
	return f.cancelErr
}
func (f *fakeOrderRepo) Delete(context.Context, primitive.ObjectID) error { return f.deleteErr }
func (f *fakeOrderRepo) Deliver(context.Context, primitive.ObjectID) error {
	return nil
}

type fakeCancelledRepo struct{}

func (fakeCancelledRepo) GetAll(context.Context) ([]models.CancelledOrder, error) { return nil, nil }
func (fakeCancelledRepo) GetByCustomer(context.Context, primitive.ObjectID) ([]models.CancelledOrder, error) {
	return nil, nil
}

// --- helpers ---

func doJSON(t *testing.T, r chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// --- category handler ---

func categoryRouter(repo repository.CategoryRepository) chi.Router {
	h := handlers.NewCategoryHandler(repo)
	r := chi.NewRouter()
	r.Get("/api/categories/{id}", h.GetByID)
	r.Post("/api/categories", h.Create)
	r.Delete("/api/categories/{id}", h.Delete)
	return r
}

func TestCategoryCreate(t *testing.T) {
	t.Parallel()

	t.Run("created with location", func(t *testing.T) {
		t.Parallel()

		r := categoryRouter(&fakeCategoryRepo{})
		rec := doJSON(t, r, http.MethodPost, "/api/categories", map[string]string{"category_name": "tools"})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/api/categories/")

		body := decodeBody(t, rec)
		assert.Equal(t, "tools", body["category_name"])
		assert.Equal(t, true, body["active_status"])
	})

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()

		r := categoryRouter(&fakeCategoryRepo{createErr: repository.ErrDuplicate})
		rec := doJSON(t, r, http.MethodPost, "/api/categories", map[string]string{"category_name": "tools"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "duplicate", decodeBody(t, rec)["error"])
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		r := categoryRouter(&fakeCategoryRepo{})
		rec := doJSON(t, r, http.MethodPost, "/api/categories", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_failed", decodeBody(t, rec)["error"])
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		r := categoryRouter(&fakeCategoryRepo{})
		rec := doJSON(t, r, http.MethodPost, "/api/categories", map[string]string{
			"category_name": "tools",
			"bogus":         "field",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCategoryGetByID(t *testing.T) {
	t.Parallel()

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()

		r := categoryRouter(&fakeCategoryRepo{})
		rec := doJSON(t, r, http.MethodGet, "/api/categories/not-hex", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_id", decodeBody(t, rec)["error"])
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		r := categoryRouter(&fakeCategoryRepo{})
		rec := doJSON(t, r, http.MethodGet, "/api/categories/"+primitive.NewObjectID().Hex(), nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCategoryDeleteNoContent(t *testing.T) {
	t.Parallel()

	r := categoryRouter(&fakeCategoryRepo{})
	rec := doJSON(t, r, http.MethodDelete, "/api/categories/"+primitive.NewObjectID().Hex(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

// --- product handler ---

func productRouter(products repository.ProductRepository, categories repository.CategoryRepository,
	users repository.UserRepository, alerter *notify.LowStockAlerter) chi.Router {
	h := handlers.NewProductHandler(products, categories, users, alerter)
	r := chi.NewRouter()
	r.Get("/api/products", h.GetAll)
	r.Get("/api/products/{id}", h.GetByID)
	r.Get("/api/products/vendor/{id}", h.GetByVendor)
	return r
}

func TestProductGetByIDEmitsLowStockAlert(t *testing.T) {
	t.Parallel()

	category := &models.Category{ID: primitive.NewObjectID(), CategoryName: "tools", ActiveStatus: true}
	vendor := &models.User{ID: primitive.NewObjectID(), Name: "Acme"}
	product := models.Product{
		ID:              primitive.NewObjectID(),
		ProductName:     "hammer",
		Quantity:        1,
		InitialQuantity: 20,
		CategoryID:      category.ID,
		VendorID:        vendor.ID,
	}

	notifs := &fakeLowStockRepo{}
	alerter := notify.NewLowStockAlerter(notifs, database.NotifyPolicyAlways)
	r := productRouter(
		&fakeProductRepo{products: []models.Product{product}},
		&fakeCategoryRepo{byID: map[primitive.ObjectID]*models.Category{category.ID: category}},
		&fakeUserRepo{byID: map[primitive.ObjectID]*models.User{vendor.ID: vendor}},
		alerter,
	)

	rec := doJSON(t, r, http.MethodGet, "/api/products/"+product.ID.Hex(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "tools", body["category_name"])
	assert.Equal(t, "Acme", body["vendor_name"])
	assert.Equal(t, true, body["low_stock"])

	require.Len(t, notifs.created, 1)
	assert.Equal(t, product.ID, notifs.created[0].ProductID)
}

func TestProductGetAllHidesInactiveCategories(t *testing.T) {
	t.Parallel()

	active := &models.Category{ID: primitive.NewObjectID(), CategoryName: "tools", ActiveStatus: true}
	inactive := &models.Category{ID: primitive.NewObjectID(), CategoryName: "retired", ActiveStatus: false}
	vendor := &models.User{ID: primitive.NewObjectID(), Name: "Acme"}

	visible := models.Product{
		ID: primitive.NewObjectID(), ProductName: "hammer",
		Quantity: 10, InitialQuantity: 10,
		CategoryID: active.ID, VendorID: vendor.ID,
	}
	hidden := models.Product{
		ID: primitive.NewObjectID(), ProductName: "gadget",
		Quantity: 10, InitialQuantity: 10,
		CategoryID: inactive.ID, VendorID: vendor.ID,
	}
	orphan := models.Product{
		ID: primitive.NewObjectID(), ProductName: "relic",
		Quantity: 10, InitialQuantity: 10,
		CategoryID: primitive.NewObjectID(), VendorID: vendor.ID,
	}

	alerter := notify.NewLowStockAlerter(&fakeLowStockRepo{}, database.NotifyPolicyAlways)
	r := productRouter(
		&fakeProductRepo{products: []models.Product{visible, hidden, orphan}},
		&fakeCategoryRepo{byID: map[primitive.ObjectID]*models.Category{
			active.ID:   active,
			inactive.ID: inactive,
		}},
		&fakeUserRepo{byID: map[primitive.ObjectID]*models.User{vendor.ID: vendor}},
		alerter,
	)

	rec := doJSON(t, r, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var views []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "hammer", views[0]["product_name"])
}

func TestProductGetByVendorEmitsPerLowStockProduct(t *testing.T) {
	t.Parallel()

	category := &models.Category{ID: primitive.NewObjectID(), CategoryName: "tools", ActiveStatus: true}
	vendor := &models.User{ID: primitive.NewObjectID(), Name: "Acme"}
	low := models.Product{
		ID: primitive.NewObjectID(), ProductName: "hammer",
		Quantity: 1, InitialQuantity: 20,
		CategoryID: category.ID, VendorID: vendor.ID,
	}
	healthy := models.Product{
		ID: primitive.NewObjectID(), ProductName: "wrench",
		Quantity: 18, InitialQuantity: 20,
		CategoryID: category.ID, VendorID: vendor.ID,
	}

	notifs := &fakeLowStockRepo{}
	alerter := notify.NewLowStockAlerter(notifs, database.NotifyPolicyAlways)
	r := productRouter(
		&fakeProductRepo{products: []models.Product{low, healthy}},
		&fakeCategoryRepo{byID: map[primitive.ObjectID]*models.Category{category.ID: category}},
		&fakeUserRepo{byID: map[primitive.ObjectID]*models.User{vendor.ID: vendor}},
		alerter,
	)

	rec := doJSON(t, r, http.MethodGet, "/api/products/vendor/"+vendor.ID.Hex(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, notifs.created, 1)
	assert.Equal(t, low.ID, notifs.created[0].ProductID)
}

// --- order handler ---

func orderRouter(repo repository.OrderRepository) chi.Router {
	h := handlers.NewOrderHandler(repo, fakeCancelledRepo{})
	r := chi.NewRouter()
	r.Post("/api/orders", h.Create)
	r.Get("/api/orders/{id}", h.GetByID)
	r.Put("/api/orders/{id}", h.Update)
	r.Put("/api/orders/{id}/cancel", h.Cancel)
	r.Delete("/api/orders/{id}", h.Delete)
	return r
}

func TestOrderCreate(t *testing.T) {
	t.Parallel()

	payload := map[string]interface{}{
		"customer_id":    primitive.NewObjectID().Hex(),
		"order_item_ids": []string{primitive.NewObjectID().Hex()},
	}

	t.Run("created with location", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, orderRouter(&fakeOrderRepo{}), http.MethodPost, "/api/orders", payload)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/api/orders/")
		assert.Equal(t, models.OrderStatusProcessing, decodeBody(t, rec)["order_status"])
	})

	t.Run("insufficient stock", func(t *testing.T) {
		t.Parallel()

		repo := &fakeOrderRepo{createErr: repository.ErrNotEnough}
		rec := doJSON(t, orderRouter(repo), http.MethodPost, "/api/orders", payload)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "insufficient_stock", decodeBody(t, rec)["error"])
	})

	t.Run("unresolvable listing", func(t *testing.T) {
		t.Parallel()

		repo := &fakeOrderRepo{createErr: repository.ErrNotFound}
		rec := doJSON(t, orderRouter(repo), http.MethodPost, "/api/orders", payload)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty item list", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, orderRouter(&fakeOrderRepo{}), http.MethodPost, "/api/orders", map[string]interface{}{
			"customer_id":    primitive.NewObjectID().Hex(),
			"order_item_ids": []string{},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderUpdateNotEditable(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, orderRouter(&fakeOrderRepo{}), http.MethodPut,
		"/api/orders/"+primitive.NewObjectID().Hex(),
		map[string]interface{}{"order_item_ids": []string{primitive.NewObjectID().Hex()}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_editable", decodeBody(t, rec)["error"])
}

func TestOrderCancel(t *testing.T) {
	t.Parallel()

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()

		rec := doJSON(t, orderRouter(&fakeOrderRepo{}), http.MethodPut,
			"/api/orders/"+primitive.NewObjectID().Hex()+"/cancel", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("already delivered", func(t *testing.T) {
		t.Parallel()

		repo := &fakeOrderRepo{cancelErr: repository.ErrNotEditable}
		rec := doJSON(t, orderRouter(repo), http.MethodPut,
			"/api/orders/"+primitive.NewObjectID().Hex()+"/cancel", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderDeleteRequiresCancelFlag(t *testing.T) {
	t.Parallel()

	repo := &fakeOrderRepo{deleteErr: repository.ErrInvalidInput}
	rec := doJSON(t, orderRouter(repo), http.MethodDelete,
		"/api/orders/"+primitive.NewObjectID().Hex(), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decodeBody(t, rec)["error"])
}
