package worker

import (
	"context"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/stats"
	"storefront/internal/store"
	"storefront/internal/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureStore struct {
	store.Store
	user    *models.User
	product *models.Product
}

func (f *fixtureStore) LoadUser(context.Context, string) (*models.User, error) {
	if f.user == nil {
		return nil, store.ErrNotFound
	}
	cp := *f.user
	return &cp, nil
}

func (f *fixtureStore) SaveUser(_ context.Context, u *models.User) error {
	cp := *u
	f.user = &cp
	return nil
}

func (f *fixtureStore) LoadProduct(context.Context, string) (*models.Product, error) {
	if f.product == nil {
		return nil, store.ErrNotFound
	}
	cp := *f.product
	return &cp, nil
}

func (f *fixtureStore) SaveProduct(_ context.Context, p *models.Product) error {
	cp := *p
	f.product = &cp
	return nil
}

func newTestWorker(t *testing.T, st store.Store) *Worker {
	t.Helper()
	cfg := &config.Config{
		PopularityThreshold:   1,
		TrendingThreshold:     1,
		KeepShoppingForOnView: true,
	}
	runner := tasks.NewRunner(logger.New("error"), 8, 1, time.Second)
	t.Cleanup(runner.Close)
	activity := service.NewActivity(cfg, st, logger.New("error"), runner)

	// No reader: process() is driven directly.
	return &Worker{config: cfg, logger: logger.New("error"), activity: activity}
}

func TestProcess_ViewEvent(t *testing.T) {
	st := &fixtureStore{
		user:    &models.User{ID: "u1"},
		product: &models.Product{ID: "p1"},
	}
	w := newTestWorker(t, st)

	err := w.process(events.Event{Type: events.TypeView, ProductID: "p1", UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), st.product.Views)
	assert.Equal(t, []string{"p1"}, []string(st.user.KeepShoppingFor))
}

func TestProcess_SaleEvent(t *testing.T) {
	st := &fixtureStore{product: &models.Product{ID: "p1", Sales: 1}}
	w := newTestWorker(t, st)

	err := w.process(events.Event{Type: events.TypeSale, ProductID: "p1"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), st.product.Sales)
	assert.True(t, st.product.IsPopular)
}

func TestProcess_UnknownEventType(t *testing.T) {
	st := &fixtureStore{product: &models.Product{ID: "p1"}}
	w := newTestWorker(t, st)

	err := w.process(events.Event{Type: "favorite", ProductID: "p1"})

	require.ErrorIs(t, err, stats.ErrUnknownEvent)
	assert.Equal(t, int64(0), st.product.Views)
}

func TestProcess_MissingUserIsTolerated(t *testing.T) {
	st := &fixtureStore{product: &models.Product{ID: "p1"}}
	w := newTestWorker(t, st)

	err := w.process(events.Event{Type: events.TypeView, ProductID: "p1", UserID: "ghost"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), st.product.Views)
}
