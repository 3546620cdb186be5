package store

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/models"

	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewGorm returns a Store backed by the given gorm connection.
func NewGorm(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) LoadUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistence("load user", err)
	}
	return &user, nil
}

func (s *gormStore) SaveUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return persistence("save user", err)
	}
	return nil
}

func (s *gormStore) LoadProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistence("load product", err)
	}
	return &product, nil
}

func (s *gormStore) SaveProduct(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return persistence("save product", err)
	}
	return nil
}

func (s *gormStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return persistence("create product", err)
	}
	return nil
}

func (s *gormStore) RandomProducts(ctx context.Context, n int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(n).
		Find(&products).Error
	if err != nil {
		return nil, persistence("random products", err)
	}
	return products, nil
}

func (s *gormStore) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + query + "%"
	err := s.db.WithContext(ctx).
		Where("name ILIKE ? OR category ILIKE ? OR brand ILIKE ?", pattern, pattern, pattern).
		Find(&products).Error
	if err != nil {
		return nil, persistence("search products", err)
	}
	return products, nil
}

func (s *gormStore) PopularProducts(ctx context.Context, n int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("is_popular = ?", true).
		Order("sales DESC").
		Limit(n).
		Find(&products).Error
	if err != nil {
		return nil, persistence("popular products", err)
	}
	return products, nil
}

func (s *gormStore) TrendingProducts(ctx context.Context, n int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("is_trending = ?", true).
		Order("views DESC").
		Limit(n).
		Find(&products).Error
	if err != nil {
		return nil, persistence("trending products", err)
	}
	return products, nil
}

func (s *gormStore) ProductsByCategory(ctx context.Context, category string, n int) ([]models.Product, error) {
	return s.byField(ctx, "category", category, n)
}

func (s *gormStore) ProductsByBrand(ctx context.Context, brand string, n int) ([]models.Product, error) {
	return s.byField(ctx, "brand", brand, n)
}

// byField matches any word of the value case-insensitively, ordered by
// view count.
func (s *gormStore) byField(ctx context.Context, column, value string, n int) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	cond := s.db.Session(&gorm.Session{NewDB: true})
	for _, word := range strings.Fields(value) {
		cond = cond.Or(column+" ILIKE ?", "%"+word+"%")
	}

	var products []models.Product
	err := query.Where(cond).
		Order("views DESC").
		Limit(n).
		Find(&products).Error
	if err != nil {
		return nil, persistence("products by "+column, err)
	}
	return products, nil
}

func (s *gormStore) DistinctCategories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

func (s *gormStore) DistinctBrands(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "brand")
}

func (s *gormStore) distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct().
		Where(column + " IS NOT NULL").
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, persistence("distinct "+column, err)
	}
	return values, nil
}

func (s *gormStore) FirstInCategory(ctx context.Context, category string) (*models.Product, error) {
	return s.firstWhere(ctx, "category = ?", category)
}

func (s *gormStore) FirstOfBrand(ctx context.Context, brand string) (*models.Product, error) {
	return s.firstWhere(ctx, "brand = ?", brand)
}

func (s *gormStore) firstWhere(ctx context.Context, cond, value string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, cond, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistence("first product", err)
	}
	return &product, nil
}
