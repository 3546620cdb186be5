package service

import "errors"

var (
	// ErrNotInCart distinguishes "product was never there" from a
	// persistence failure on cart removal.
	ErrNotInCart = errors.New("product not in cart")

	// ErrNotInWishlist is the wishlist counterpart of ErrNotInCart.
	ErrNotInWishlist = errors.New("product not in wishlist")
)
