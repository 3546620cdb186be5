// Package store is the persistence boundary for user and product
// records. Services depend on the Store interface, not on gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
)

var (
	// ErrNotFound means the referenced user or product does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrPersistence means the backing store rejected a read or write.
	// All storage failures other than ErrNotFound wrap it so callers can
	// classify without string matching.
	ErrPersistence = errors.New("persistence failure")
)

type Store interface {
	LoadUser(ctx context.Context, id string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	LoadProduct(ctx context.Context, id string) (*models.Product, error)
	SaveProduct(ctx context.Context, product *models.Product) error

	CreateProduct(ctx context.Context, product *models.Product) error
	RandomProducts(ctx context.Context, n int) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	PopularProducts(ctx context.Context, n int) ([]models.Product, error)
	TrendingProducts(ctx context.Context, n int) ([]models.Product, error)
	ProductsByCategory(ctx context.Context, category string, n int) ([]models.Product, error)
	ProductsByBrand(ctx context.Context, brand string, n int) ([]models.Product, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	FirstInCategory(ctx context.Context, category string) (*models.Product, error)
	FirstOfBrand(ctx context.Context, brand string) (*models.Product, error)
}

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrPersistence, err)
}
