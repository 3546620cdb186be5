package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Product struct {
	ID                   string         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name                 string         `json:"name" gorm:"not null"`
	Description          *string        `json:"description"`
	Brand                *string        `json:"brand"`
	Category             *string        `json:"category"`
	Price                float64        `json:"price" gorm:"type:decimal(10,2)"`
	DiscountPrice        *float64       `json:"discount_price" gorm:"type:decimal(10,2)"`
	DiscountPricePercent int            `json:"discount_price_percent"`
	Stock                int            `json:"stock"`
	Images               pq.StringArray `json:"images" gorm:"type:text[]"`
	Rating               Rating         `json:"rating" gorm:"type:jsonb;serializer:json"`

	// Running counters and the flags derived from them. The flags are
	// recomputed by the stats tracker on every counter change.
	Views      int64 `json:"views"`
	Sales      int64 `json:"sales"`
	IsPopular  bool  `json:"is_popular"`
	IsTrending bool  `json:"is_trending"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Rating struct {
	Average     float64  `json:"average"`
	RatingCount int      `json:"rating_count"`
	Reviews     []Review `json:"reviews"`
}

type Review struct {
	UserID  string  `json:"user_id"`
	Stars   float64 `json:"stars"`
	Comment string  `json:"comment"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
