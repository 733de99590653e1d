package customers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbeecher/beerworks/internal/customers"
	"github.com/mbeecher/beerworks/internal/domain"
	"github.com/mbeecher/beerworks/internal/logger"
)

type customerStore struct {
	byID    map[string]domain.Customer
	updated *domain.Customer
	err     error
}

func (s *customerStore) GetByID(_ context.Context, id string) (domain.Customer, error) {
	c, ok := s.byID[id]
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *customerStore) List(context.Context, int, int) ([]domain.Customer, int64, error) {
	return nil, 0, nil
}

func (s *customerStore) Insert(_ context.Context, c domain.Customer) (domain.Customer, error) {
	if s.err != nil {
		return domain.Customer{}, s.err
	}
	c.ID = "c-created"
	return c, nil
}

func (s *customerStore) Update(_ context.Context, c domain.Customer) (domain.Customer, error) {
	if s.err != nil {
		return domain.Customer{}, s.err
	}
	c.Version++
	s.updated = &c
	return c, nil
}

func (s *customerStore) Delete(context.Context, string) error { return s.err }

type spyCache struct {
	entityDrops     []string
	collectionDrops int
}

func (c *spyCache) GetEntity(context.Context, string, string, any) bool     { return false }
func (c *spyCache) PutEntity(context.Context, string, string, any)          {}
func (c *spyCache) GetCollection(context.Context, string, string, any) bool { return false }
func (c *spyCache) PutCollection(context.Context, string, string, any)      {}
func (c *spyCache) InvalidateEntity(_ context.Context, kind, id string) {
	c.entityDrops = append(c.entityDrops, kind+":"+id)
}
func (c *spyCache) InvalidateCollection(context.Context, string) { c.collectionDrops++ }

func TestCreateRequiresName(t *testing.T) {
	t.Parallel()
	svc := customers.NewService(&customerStore{}, &spyCache{}, logger.NewNop())

	_, err := svc.Create(context.Background(), domain.Customer{Email: "joe@example.com"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestCreateFlushesCollections(t *testing.T) {
	t.Parallel()
	c := &spyCache{}
	svc := customers.NewService(&customerStore{}, c, logger.NewNop())

	saved, err := svc.Create(context.Background(), domain.Customer{Name: "Joe"})
	require.NoError(t, err)
	assert.Equal(t, "c-created", saved.ID)
	assert.Equal(t, 1, c.collectionDrops)
	assert.Empty(t, c.entityDrops)
}

func TestPatchAppliesOnlyProvidedFields(t *testing.T) {
	t.Parallel()
	st := &customerStore{byID: map[string]domain.Customer{
		"c1": {ID: "c1", Version: 2, Name: "Joe", Email: "joe@example.com"},
	}}
	c := &spyCache{}
	svc := customers.NewService(st, c, logger.NewNop())

	email := "joe@new.example.com"
	saved, err := svc.PatchByID(context.Background(), "c1", customers.Patch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Joe", saved.Name)
	assert.Equal(t, email, saved.Email)
	assert.Equal(t, []string{"customer:c1"}, c.entityDrops)
	assert.Equal(t, 1, c.collectionDrops)
}

func TestUpdateConflictPropagatesWithoutInvalidation(t *testing.T) {
	t.Parallel()
	st := &customerStore{err: &domain.ConflictError{Current: 4}}
	c := &spyCache{}
	svc := customers.NewService(st, c, logger.NewNop())

	_, err := svc.Update(context.Background(), "c1", domain.Customer{Name: "Joe", Version: 2})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(4), conflict.Current)
	assert.Empty(t, c.entityDrops)
	assert.Zero(t, c.collectionDrops)
}
