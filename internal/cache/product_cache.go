package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	keyAllProducts = "products:all"
	notFoundMarker = "notfound"
)

// CachedProductRepository fronts the product repository with a Redis cache.
// Redis failures are logged and the call falls through to the database, so
// the cache can never make a read fail. It also serves as the
// repository.ProductInvalidator for the order paths, which adjust product
// quantities behind the repository's back.
type CachedProductRepository struct {
	realRepo repository.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
}

func NewCachedProductRepository(realRepo repository.ProductRepository, rdb *redis.Client, ttl time.Duration) *CachedProductRepository {
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    rdb,
		ttl:      ttl,
	}
}

func productKey(id primitive.ObjectID) string {
	return "product:" + id.Hex()
}

func vendorKey(vendorID primitive.ObjectID) string {
	return "products:vendor:" + vendorID.Hex()
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	key := productKey(id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, repository.ErrNotFound
		}
		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			log.Printf("failed to unmarshal cached product (continuing with DB): %v", err)
			break
		}
		return &product, nil

	case errors.Is(err, redis.Nil):

	default:
		log.Printf("redis error (continuing with DB): %v", err)
	}

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, time.Minute).Err(); setErr != nil {
				log.Printf("failed to cache notfound: %v", setErr)
			}
		}
		return nil, err
	}

	c.store(ctx, key, product)
	return product, nil
}

func (c *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	data, err := c.redis.Get(ctx, keyAllProducts).Bytes()
	if err == nil {
		var products []models.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("redis error (continuing with DB): %v", err)
	}

	products, err := c.realRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, keyAllProducts, products)
	return products, nil
}

func (c *CachedProductRepository) GetByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Product, error) {
	key := vendorKey(vendorID)

	data, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var products []models.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("redis error (continuing with DB): %v", err)
	}

	products, err := c.realRepo.GetByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, products)
	return products, nil
}

func (c *CachedProductRepository) Create(ctx context.Context, p *models.Product) error {
	if err := c.realRepo.Create(ctx, p); err != nil {
		return err
	}
	c.del(ctx, keyAllProducts, vendorKey(p.VendorID))
	// A create may overwrite a cached notfound for the same key space.
	c.del(ctx, productKey(p.ID))
	return nil
}

func (c *CachedProductRepository) Update(ctx context.Context, p *models.Product) error {
	old, err := c.realRepo.GetByID(ctx, p.ID)
	if err != nil {
		c.del(ctx, productKey(p.ID), keyAllProducts)
		return err
	}

	if err := c.realRepo.Update(ctx, p); err != nil {
		return err
	}

	c.InvalidateProduct(ctx, p.ID, old.VendorID)
	if old.VendorID != p.VendorID {
		c.del(ctx, vendorKey(p.VendorID))
	}
	return nil
}

func (c *CachedProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		c.del(ctx, productKey(id), keyAllProducts)
		return err
	}

	if err := c.realRepo.Delete(ctx, id); err != nil {
		return err
	}

	c.InvalidateProduct(ctx, id, product.VendorID)
	return nil
}

func (c *CachedProductRepository) Restock(ctx context.Context, id primitive.ObjectID, quantity int) (*models.Product, error) {
	product, err := c.realRepo.Restock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	c.InvalidateProduct(ctx, id, product.VendorID)
	return product, nil
}

// InvalidateProduct drops the cached document and both list keys, the vendor
// listing included. Called by the order paths after every quantity
// adjustment.
func (c *CachedProductRepository) InvalidateProduct(ctx context.Context, productID, vendorID primitive.ObjectID) {
	c.del(ctx, productKey(productID), keyAllProducts, vendorKey(vendorID))
}

func (c *CachedProductRepository) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal for cache key %s: %v", key, err)
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("failed to cache %s: %v", key, err)
	}
}

func (c *CachedProductRepository) del(ctx context.Context, keys ...string) {
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("failed to delete cache keys %v: %v", keys, err)
	}
}

var _ repository.ProductRepository = (*CachedProductRepository)(nil)
var _ repository.ProductInvalidator = (*CachedProductRepository)(nil)
