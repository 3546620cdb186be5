// Package service applies qualifying events (views, sales, cart and
// wishlist actions) to user and product records. Each operation is one
// atomic read-modify-write against a single record, guarded by a
// per-record lock.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/recency"
	"storefront/internal/stats"
	"storefront/internal/store"
	"storefront/internal/tasks"
)

const (
	saveAttempts  = 3
	saveBackoff   = 100 * time.Millisecond
	attemptWindow = 3 * time.Second
)

type Activity struct {
	store   store.Store
	logger  *logger.Logger
	runner  *tasks.Runner
	tracker stats.Tracker

	cart            recency.List[models.CartEntry]
	keepShoppingFor recency.List[string]
	wishlist        recency.List[string]

	keepShoppingForOnView bool

	userLocks    recordLocks
	productLocks recordLocks
}

func NewActivity(cfg *config.Config, st store.Store, log *logger.Logger, runner *tasks.Runner) *Activity {
	return &Activity{
		store:  st,
		logger: log,
		runner: runner,
		tracker: stats.Tracker{
			PopularityThreshold: cfg.PopularityThreshold,
			TrendingThreshold:   cfg.TrendingThreshold,
		},
		cart: recency.List[models.CartEntry]{
			Key:      func(e models.CartEntry) string { return e.ProductID },
			Capacity: cfg.CartCapacity,
		},
		keepShoppingFor:       recency.IDs(cfg.KeepShoppingForCapacity),
		wishlist:              recency.IDs(cfg.WishlistCapacity),
		keepShoppingForOnView: cfg.KeepShoppingForOnView,
	}
}

// RecordProductEvent applies one view or sale to a product. A missing
// product is a logged no-op: stat recording must never fail the action
// that triggered it. An unknown event kind is reported to the caller
// and changes nothing.
func (a *Activity) RecordProductEvent(ctx context.Context, productID string, event stats.Event) error {
	switch event {
	case stats.EventView, stats.EventSale:
	default:
		// Don't load anything for an event we cannot apply.
		return fmt.Errorf("%w: %q", stats.ErrUnknownEvent, event)
	}

	mu := a.productLocks.locker(productID)
	mu.Lock()
	defer mu.Unlock()

	product, err := a.store.LoadProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.logger.Warn("stats: product %s not found, skipping %s", productID, event)
			return nil
		}
		return err
	}

	if err := a.tracker.Record(product, event); err != nil {
		return err
	}

	return a.saveProduct(ctx, product)
}

// ProductViewed records a view in the background. When the viewer is
// known and the feature is on, their keep-shopping-for list is touched
// as well. The caller never waits on either update.
func (a *Activity) ProductViewed(productID, userID string) {
	a.runner.Submit("record view", func(ctx context.Context) error {
		return a.RecordProductEvent(ctx, productID, stats.EventView)
	})

	if userID != "" && a.keepShoppingForOnView {
		a.runner.Submit("keep shopping for", func(ctx context.Context) error {
			err := a.KeepShoppingForTouch(ctx, userID, productID)
			if errors.Is(err, store.ErrNotFound) {
				a.logger.Warn("keep shopping for: user %s not found", userID)
				return nil
			}
			return err
		})
	}
}

// ProductPurchased records a sale in the background.
func (a *Activity) ProductPurchased(productID string) {
	a.runner.Submit("record sale", func(ctx context.Context) error {
		return a.RecordProductEvent(ctx, productID, stats.EventSale)
	})
}

// CartAdd puts the product at the front of the user's cart, bumping the
// quantity when it is already there.
func (a *Activity) CartAdd(ctx context.Context, userID, productID string) error {
	return a.withUser(ctx, userID, func(user *models.User) error {
		entry := models.CartEntry{ProductID: productID, Quantity: 1, AddedAt: time.Now()}
		if existing, ok := a.cart.Find(user.Cart, productID); ok {
			entry.Quantity = existing.Quantity + 1
		}
		user.Cart = a.cart.Touch(user.Cart, entry)
		return nil
	})
}

// CartRemove drops the product from the cart entirely. Returns
// ErrNotInCart when it was not there.
func (a *Activity) CartRemove(ctx context.Context, userID, productID string) error {
	return a.withUser(ctx, userID, func(user *models.User) error {
		items, found := a.cart.Remove(user.Cart, productID)
		if !found {
			return ErrNotInCart
		}
		user.Cart = items
		return nil
	})
}

// WishlistToggle adds the product when absent and removes it when
// present, reporting whether it ended up on the list.
func (a *Activity) WishlistToggle(ctx context.Context, userID, productID string) (bool, error) {
	var present bool
	err := a.withUser(ctx, userID, func(user *models.User) error {
		user.Wishlist, present = a.wishlist.Toggle(user.Wishlist, productID)
		return nil
	})
	return present, err
}

// WishlistRemove drops the product from the wishlist. Returns
// ErrNotInWishlist when it was not there.
func (a *Activity) WishlistRemove(ctx context.Context, userID, productID string) error {
	return a.withUser(ctx, userID, func(user *models.User) error {
		items, found := a.wishlist.Remove(user.Wishlist, productID)
		if !found {
			return ErrNotInWishlist
		}
		user.Wishlist = items
		return nil
	})
}

// KeepShoppingForTouch moves the product to the front of the user's
// keep-shopping-for list, evicting the oldest entry over capacity.
func (a *Activity) KeepShoppingForTouch(ctx context.Context, userID, productID string) error {
	return a.withUser(ctx, userID, func(user *models.User) error {
		user.KeepShoppingFor = a.keepShoppingFor.Touch(user.KeepShoppingFor, productID)
		return nil
	})
}

// Cart returns the user's cart, most recently touched first.
func (a *Activity) Cart(ctx context.Context, userID string) ([]models.CartEntry, error) {
	user, err := a.store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

// Wishlist returns the user's wishlist.
func (a *Activity) Wishlist(ctx context.Context, userID string) ([]string, error) {
	user, err := a.store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}

// KeepShoppingFor returns the user's keep-shopping-for list.
func (a *Activity) KeepShoppingFor(ctx context.Context, userID string) ([]string, error) {
	user, err := a.store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.KeepShoppingFor, nil
}

// withUser runs mutate inside the user's exclusive read-modify-write
// cycle and persists the result.
func (a *Activity) withUser(ctx context.Context, userID string, mutate func(*models.User) error) error {
	mu := a.userLocks.locker(userID)
	mu.Lock()
	defer mu.Unlock()

	user, err := a.store.LoadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := mutate(user); err != nil {
		return err
	}
	return a.saveUser(ctx, user)
}

func (a *Activity) saveUser(ctx context.Context, user *models.User) error {
	return a.saveWithRetry(ctx, "user "+user.ID, func(ctx context.Context) error {
		return a.store.SaveUser(ctx, user)
	})
}

func (a *Activity) saveProduct(ctx context.Context, product *models.Product) error {
	return a.saveWithRetry(ctx, "product "+product.ID, func(ctx context.Context) error {
		return a.store.SaveProduct(ctx, product)
	})
}

// saveWithRetry bounds each attempt with its own deadline and retries a
// fixed number of times on persistence failure, never indefinitely.
func (a *Activity) saveWithRetry(ctx context.Context, what string, save func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptWindow)
		err = save(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrPersistence) {
			return err
		}
		a.logger.Warn("save %s failed (attempt %d/%d): %v", what, attempt, saveAttempts, err)

		if attempt < saveAttempts {
			select {
			case <-time.After(saveBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}
