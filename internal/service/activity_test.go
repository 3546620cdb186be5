package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/stats"
	"storefront/internal/store"
	"storefront/internal/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	store.Store

	m        sync.Mutex
	users    map[string]*models.User
	products map[string]*models.Product

	userSaves    int
	productSaves int

	failSaves int // fail this many saves with ErrPersistence before succeeding
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    make(map[string]*models.User),
		products: make(map[string]*models.Product),
	}
}

func (m *mockStore) LoadUser(_ context.Context, id string) (*models.User, error) {
	m.m.Lock()
	defer m.m.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockStore) SaveUser(_ context.Context, user *models.User) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.userSaves++
	if m.failSaves > 0 {
		m.failSaves--
		return store.ErrPersistence
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockStore) LoadProduct(_ context.Context, id string) (*models.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockStore) SaveProduct(_ context.Context, product *models.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.productSaves++
	if m.failSaves > 0 {
		m.failSaves--
		return store.ErrPersistence
	}
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		CartCapacity:            0,
		KeepShoppingForCapacity: 5,
		WishlistCapacity:        0,
		PopularityThreshold:     1,
		TrendingThreshold:       1,
		KeepShoppingForOnView:   true,
	}
}

func newTestActivity(t *testing.T, cfg *config.Config, st *mockStore) *Activity {
	t.Helper()
	runner := tasks.NewRunner(logger.New("error"), 64, 2, time.Second)
	t.Cleanup(runner.Close)
	return NewActivity(cfg, st, logger.New("error"), runner)
}

func TestCartAdd_NewProduct(t *testing.T) {
	st := newMockStore()
	st.users["u1"] = &models.User{ID: "u1"}
	a := newTestActivity(t, testConfig(), st)

	require.NoError(t, a.CartAdd(context.Background(), "u1", "p1"))

	cart, err := a.Cart(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "p1", cart[0].ProductID)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestCartAdd_RepeatBumpsQuantityAndMovesToFront(t *testing.T) {
	st := newMockStore()
	st.users["u1"] = &models.User{ID: "u1"}
	a := newTestActivity(t, testConfig(), st)

	ctx := context.Background()
	require.NoError(t, a.CartAdd(ctx, "u1", "p1"))
	require.NoError(t, a.CartAdd(ctx, "u1", "p2"))
	require.NoError(t, a.CartAdd(ctx, "u1", "p1"))

	cart, err := a.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart, 2)
	assert.Equal(t, "p1", cart[0].ProductID)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, "p2", cart[1].ProductID)
}

func TestCartAdd_UnknownUser(t *testing.T) {
	a := newTestActivity(t, testConfig(), newMockStore())

	err := a.CartAdd(context.Background(), "ghost", "p1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCartRemove(t *testing.T) {
	st := newMockStore()
	st.users["u1"] = &models.User{ID: "u1"}
	a := newTestActivity(t, testConfig(), st)

	ctx := context.Background()
	require.NoError(t, a.CartAdd(ctx, "u1", "p1"))
	require.NoError(t, a.CartRemove(ctx, "u1", "p1"))

	cart, err := a.Cart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	assert.ErrorIs(t, a.CartRemove(ctx, "u1", "p1"), ErrNotInCart)
}

func TestWishlistToggle(t *testing.T) {
	st := newMockStore()
	st.users["u1"] = &models.User{ID: "u1"}
	a := newTestActivity(t, testConfig(), st)

	ctx := context.Background()
	present, err := a.WishlistToggle(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, present)

	present, err = a.WishlistToggle(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, present)

	list, err := a.Wishlist(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWishlistRemove_NotPresent(t *testing.T) {
	st := newMockStore()
	st.users["u1"] = &models.User{ID: "u1"}
	a := newTestActivity(t, testConfig(), st)

	assert.ErrorIs(t, a.WishlistRemove(context.Background(), "u1", "p1"), ErrNotInWishlist)
}

func TestKeepShoppingFor_CapacityEviction(t *testing.T) {
	st := newMockStore()
	st.users["u1"] = &models.User{ID: "u1"}
	a := newTestActivity(t, testConfig(), st)

	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		require.NoError(t, a.KeepShoppingForTouch(ctx, "u1", id))
	}

	list, err := a.KeepShoppingFor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"f", "e", "d", "c", "b"}, []string(list))
}

func TestRecordProductEvent_UpdatesCountersAndFlags(t *testing.T) {
	st := newMockStore()
	st.products["p1"] = &models.Product{ID: "p1"}
	a := newTestActivity(t, testConfig(), st)

	ctx := context.Background()
	require.NoError(t, a.RecordProductEvent(ctx, "p1", stats.EventView))
	require.NoError(t, a.RecordProductEvent(ctx, "p1", stats.EventView))

	p := st.products["p1"]
	assert.Equal(t, int64(2), p.Views)
	assert.Equal(t, int64(0), p.Sales)
	assert.True(t, p.IsTrending)
	assert.False(t, p.IsPopular)
}

func TestRecordProductEvent_MissingProductIsNoOp(t *testing.T) {
	st := newMockStore()
	a := newTestActivity(t, testConfig(), st)

	err := a.RecordProductEvent(context.Background(), "ghost", stats.EventView)

	require.NoError(t, err)
	assert.Zero(t, st.productSaves)
}

func TestRecordProductEvent_UnknownEvent(t *testing.T) {
	st := newMockStore()
	st.products["p1"] = &models.Product{ID: "p1"}
	a := newTestActivity(t, testConfig(), st)

	err := a.RecordProductEvent(context.Background(), "p1", stats.Event("favorite"))

	require.ErrorIs(t, err, stats.ErrUnknownEvent)
	assert.Equal(t, int64(0), st.products["p1"].Views)
}

func TestRecordProductEvent_ConcurrentViewsNotLost(t *testing.T) {
	st := newMockStore()
	st.products["p1"] = &models.Product{ID: "p1"}
	a := newTestActivity(t, testConfig(), st)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, a.RecordProductEvent(context.Background(), "p1", stats.EventView))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(n), st.products["p1"].Views)
}

func TestSave_RetriesOnPersistenceFailure(t *testing.T) {
	st := newMockStore()
	st.users["u1"] = &models.User{ID: "u1"}
	st.failSaves = 2
	a := newTestActivity(t, testConfig(), st)

	require.NoError(t, a.CartAdd(context.Background(), "u1", "p1"))
	assert.Equal(t, 3, st.userSaves)
}

func TestSave_GivesUpAfterBoundedRetries(t *testing.T) {
	st := newMockStore()
	st.users["u1"] = &models.User{ID: "u1"}
	st.failSaves = 10
	a := newTestActivity(t, testConfig(), st)

	err := a.CartAdd(context.Background(), "u1", "p1")

	require.ErrorIs(t, err, store.ErrPersistence)
	assert.Equal(t, 3, st.userSaves)
}

func TestProductViewed_BackgroundViewAndKeepShoppingFor(t *testing.T) {
	st := newMockStore()
	st.users["u1"] = &models.User{ID: "u1"}
	st.products["p1"] = &models.Product{ID: "p1"}

	runner := tasks.NewRunner(logger.New("error"), 64, 2, time.Second)
	a := NewActivity(testConfig(), st, logger.New("error"), runner)

	a.ProductViewed("p1", "u1")
	runner.Close() // drain

	assert.Equal(t, int64(1), st.products["p1"].Views)
	assert.Equal(t, []string{"p1"}, []string(st.users["u1"].KeepShoppingFor))
}

func TestProductViewed_AnonymousSkipsKeepShoppingFor(t *testing.T) {
	st := newMockStore()
	st.products["p1"] = &models.Product{ID: "p1"}

	runner := tasks.NewRunner(logger.New("error"), 64, 2, time.Second)
	a := NewActivity(testConfig(), st, logger.New("error"), runner)

	a.ProductViewed("p1", "")
	runner.Close()

	assert.Equal(t, int64(1), st.products["p1"].Views)
	assert.Zero(t, st.userSaves)
}

func TestProductPurchased_RecordsSale(t *testing.T) {
	st := newMockStore()
	st.products["p1"] = &models.Product{ID: "p1"}

	runner := tasks.NewRunner(logger.New("error"), 64, 2, time.Second)
	a := NewActivity(testConfig(), st, logger.New("error"), runner)

	a.ProductPurchased("p1")
	a.ProductPurchased("p1")
	runner.Close()

	p := st.products["p1"]
	assert.Equal(t, int64(2), p.Sales)
	assert.True(t, p.IsPopular)
}
