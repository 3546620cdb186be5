// Package catalog serves product reads (search, popular, trending,
// category and brand browsing) and product creation.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/stats"
	"storefront/internal/store"

	"github.com/lib/pq"
	"golang.org/x/sync/singleflight"
)

const placeholderImage = "https://via.placeholder.com/150"

type Catalog struct {
	store   store.Store
	cache   ListCache
	logger  *logger.Logger
	tracker stats.Tracker
	sfg     singleflight.Group // prevents cache stampede on hot lists
}

func New(st store.Store, cache ListCache, log *logger.Logger, tracker stats.Tracker) *Catalog {
	return &Catalog{
		store:   st,
		cache:   cache,
		logger:  log,
		tracker: tracker,
	}
}

// Get returns a single product. View recording is the caller's concern;
// a fetch must succeed even when stat recording fails.
func (c *Catalog) Get(ctx context.Context, id string) (*models.Product, error) {
	return c.store.LoadProduct(ctx, id)
}

// Random returns up to n products in no particular order.
func (c *Catalog) Random(ctx context.Context, n int) ([]models.Product, error) {
	return c.store.RandomProducts(ctx, n)
}

// Search matches the query case-insensitively against name, category
// and brand.
func (c *Catalog) Search(ctx context.Context, query string) ([]models.Product, error) {
	return c.store.SearchProducts(ctx, query)
}

// Popular returns up to n products flagged popular, best sellers first.
func (c *Catalog) Popular(ctx context.Context, n int) ([]models.Product, error) {
	return c.cachedList(ctx, fmt.Sprintf("popular:%d", n), func(ctx context.Context) ([]models.Product, error) {
		return c.store.PopularProducts(ctx, n)
	})
}

// Trending returns up to n products flagged trending, most viewed first.
func (c *Catalog) Trending(ctx context.Context, n int) ([]models.Product, error) {
	return c.cachedList(ctx, fmt.Sprintf("trending:%d", n), func(ctx context.Context) ([]models.Product, error) {
		return c.store.TrendingProducts(ctx, n)
	})
}

// ByCategory matches any word of the category name, most viewed first.
func (c *Catalog) ByCategory(ctx context.Context, category string, n int) ([]models.Product, error) {
	return c.store.ProductsByCategory(ctx, category, n)
}

// ByBrand matches any word of the brand name, most viewed first.
func (c *Catalog) ByBrand(ctx context.Context, brand string, n int) ([]models.Product, error) {
	return c.store.ProductsByBrand(ctx, brand, n)
}

// Facet is a category or brand with a representative image.
type Facet struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Categories lists distinct categories, each illustrated by the first
// product found in it.
func (c *Catalog) Categories(ctx context.Context) ([]Facet, error) {
	names, err := c.store.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	return c.facets(ctx, names, c.store.FirstInCategory)
}

// Brands lists distinct brands, each illustrated by the first product
// of that brand.
func (c *Catalog) Brands(ctx context.Context) ([]Facet, error) {
	names, err := c.store.DistinctBrands(ctx)
	if err != nil {
		return nil, err
	}
	return c.facets(ctx, names, c.store.FirstOfBrand)
}

func (c *Catalog) facets(ctx context.Context, names []string, first func(context.Context, string) (*models.Product, error)) ([]Facet, error) {
	facets := make([]Facet, 0, len(names))
	for i, name := range names {
		image := placeholderImage
		product, err := first(ctx, name)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if product != nil && len(product.Images) > 0 {
			image = product.Images[0]
		}
		facets = append(facets, Facet{ID: i + 1, Name: name, Image: image})
	}
	return facets, nil
}

// CreateInput is the caller-supplied product definition. Counters may
// start at a non-zero value (e.g. imported catalogs).
type CreateInput struct {
	Name          string         `json:"name" binding:"required"`
	Description   *string        `json:"description"`
	Brand         *string        `json:"brand"`
	Category      *string        `json:"category"`
	Price         float64        `json:"price" binding:"required,gt=0"`
	DiscountPrice *float64       `json:"discount_price"`
	Stock         int            `json:"stock"`
	Images        []string       `json:"images"`
	Rating        *models.Rating `json:"rating"`
	Views         int64          `json:"views"`
	Sales         int64          `json:"sales"`
}

// Create stores a new product. The discount percent is derived from the
// prices, and the classification flags from the initial counters, so
// neither can start out inconsistent.
func (c *Catalog) Create(ctx context.Context, in CreateInput) (*models.Product, error) {
	product := &models.Product{
		Name:          in.Name,
		Description:   in.Description,
		Brand:         in.Brand,
		Category:      in.Category,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		Stock:         in.Stock,
		Images:        pq.StringArray(in.Images),
		Views:         in.Views,
		Sales:         in.Sales,
	}
	if in.DiscountPrice != nil && in.Price > 0 {
		product.DiscountPricePercent = int(math.Round((in.Price - *in.DiscountPrice) / in.Price * 100))
	}
	if in.Rating != nil {
		product.Rating = *in.Rating
	}
	c.tracker.Refresh(product)

	if err := c.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (c *Catalog) cachedList(ctx context.Context, key string, load func(context.Context) ([]models.Product, error)) ([]models.Product, error) {
	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		products, err := c.cache.Get(ctx, key)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("cache get %s: %v", key, err)
		}

		products, err = load(ctx)
		if err != nil {
			return nil, err
		}

		if err := c.cache.Set(ctx, key, products); err != nil {
			c.logger.Warn("cache set %s: %v", key, err)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Product), nil
}
