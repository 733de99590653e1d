package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbeecher/beerworks/internal/domain"
	"github.com/mbeecher/beerworks/internal/logger"
	"github.com/mbeecher/beerworks/internal/orders"
)

type orderStore struct {
	byID    map[string]domain.Order
	created *domain.Order
	updated *domain.Order
	err     error
}

func (s *orderStore) GetByID(_ context.Context, id string) (domain.Order, error) {
	o, ok := s.byID[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (s *orderStore) List(_ context.Context, limit, offset int) ([]domain.Order, int64, error) {
	return nil, 0, nil
}

func (s *orderStore) Create(_ context.Context, o domain.Order) (domain.Order, error) {
	if s.err != nil {
		return domain.Order{}, s.err
	}
	o.ID = "o-created"
	s.created = &o
	return o, nil
}

func (s *orderStore) UpdateAggregate(_ context.Context, o domain.Order) (domain.Order, error) {
	if s.err != nil {
		return domain.Order{}, s.err
	}
	o.Version++
	s.updated = &o
	return o, nil
}

func (s *orderStore) Delete(_ context.Context, id string) error { return s.err }

type nopCache struct {
	entityDrops     []string
	collectionDrops int
}

func (c *nopCache) GetEntity(context.Context, string, string, any) bool     { return false }
func (c *nopCache) PutEntity(context.Context, string, string, any)          {}
func (c *nopCache) GetCollection(context.Context, string, string, any) bool { return false }
func (c *nopCache) PutCollection(context.Context, string, string, any)      {}
func (c *nopCache) InvalidateEntity(_ context.Context, kind, id string) {
	c.entityDrops = append(c.entityDrops, kind+":"+id)
}
func (c *nopCache) InvalidateCollection(context.Context, string) { c.collectionDrops++ }

func newOrderService(st *orderStore, c *nopCache) *orders.Service {
	cs, bs := fixtures()
	return orders.NewService(st, cs, bs, c, logger.NewNop())
}

func TestCreateResolvesEverythingBeforePersisting(t *testing.T) {
	t.Parallel()
	st := &orderStore{}
	svc := newOrderService(st, &nopCache{})

	saved, err := svc.Create(context.Background(), orders.CreateRequest{
		CustomerID:  "c1",
		CustomerRef: "po-7",
		Lines: []orders.LineCreate{
			{BeerID: "b1", OrderQuantity: 3},
			{BeerID: "b2", OrderQuantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "o-created", saved.ID)

	require.NotNil(t, st.created)
	assert.Equal(t, "c1", st.created.CustomerID)
	assert.Equal(t, "po-7", st.created.CustomerRef)
	require.Len(t, st.created.Lines, 2)
	for _, l := range st.created.Lines {
		assert.Equal(t, domain.LineStatusNew, l.Status)
	}
}

func TestCreateUnknownBeerPersistsNothing(t *testing.T) {
	t.Parallel()
	st := &orderStore{}
	svc := newOrderService(st, &nopCache{})

	_, err := svc.Create(context.Background(), orders.CreateRequest{
		CustomerID: "c1",
		Lines: []orders.LineCreate{
			{BeerID: "b1", OrderQuantity: 3},
			{BeerID: "nope", OrderQuantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, st.created)
}

func TestUpdateReconcilesThenPersists(t *testing.T) {
	t.Parallel()
	st := &orderStore{byID: map[string]domain.Order{
		"o1": {
			ID:         "o1",
			Version:    2,
			CustomerID: "c1",
			Lines:      []domain.OrderLine{{ID: "l1", BeerID: "b1", OrderQuantity: 1}},
		},
	}}
	c := &nopCache{}
	svc := newOrderService(st, c)

	saved, err := svc.Update(context.Background(), "o1", orders.UpdateRequest{
		CustomerID: "c1",
		Lines: []orders.LineUpdate{
			{ID: "l1", BeerID: "b1", OrderQuantity: 3},
			{BeerID: "b2", OrderQuantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), saved.Version)
	require.Len(t, saved.Lines, 2)

	assert.Equal(t, []string{"beer-order:o1"}, c.entityDrops)
	assert.Equal(t, 1, c.collectionDrops)
}

func TestUpdateReconcileFailureSkipsPersistAndInvalidation(t *testing.T) {
	t.Parallel()
	st := &orderStore{byID: map[string]domain.Order{
		"o1": {ID: "o1", CustomerID: "c1"},
	}}
	c := &nopCache{}
	svc := newOrderService(st, c)

	_, err := svc.Update(context.Background(), "o1", orders.UpdateRequest{CustomerID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, st.updated)
	assert.Empty(t, c.entityDrops)
	assert.Zero(t, c.collectionDrops)
}

func TestUpdateConflictPropagates(t *testing.T) {
	t.Parallel()
	st := &orderStore{
		byID: map[string]domain.Order{"o1": {ID: "o1", Version: 2, CustomerID: "c1"}},
		err:  &domain.ConflictError{Current: 3},
	}
	c := &nopCache{}
	svc := newOrderService(st, c)

	_, err := svc.Update(context.Background(), "o1", orders.UpdateRequest{CustomerID: "c1"})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(3), conflict.Current)
	assert.Empty(t, c.entityDrops, "a lost race must not touch the cache")
}

func TestDeleteInvalidates(t *testing.T) {
	t.Parallel()
	c := &nopCache{}
	svc := newOrderService(&orderStore{}, c)

	require.NoError(t, svc.DeleteByID(context.Background(), "o1"))
	assert.Equal(t, []string{"beer-order:o1"}, c.entityDrops)
	assert.Equal(t, 1, c.collectionDrops)
}
