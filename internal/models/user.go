package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type User struct {
	ID    string `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email string `json:"email" gorm:"unique;not null"`
	Name  string `json:"name" gorm:"not null"`

	// Cart keeps quantity per product; the entry order is most recently
	// touched first. KeepShoppingFor and Wishlist are plain recency lists
	// of product IDs.
	Cart            []CartEntry    `json:"cart" gorm:"type:jsonb;serializer:json"`
	KeepShoppingFor pq.StringArray `json:"keep_shopping_for" gorm:"type:text[]"`
	Wishlist        pq.StringArray `json:"wishlist" gorm:"type:text[]"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartEntry struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
