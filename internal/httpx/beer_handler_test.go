package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbeecher/beerworks/internal/beers"
	"github.com/mbeecher/beerworks/internal/domain"
	"github.com/mbeecher/beerworks/internal/logger"
)

type handlerStore struct {
	beers map[string]domain.Beer
	lastQ domain.BeerQuery
	err   error
}

func (f *handlerStore) GetByID(_ context.Context, id string) (domain.Beer, error) {
	if f.err != nil {
		return domain.Beer{}, f.err
	}
	b, ok := f.beers[id]
	if !ok {
		return domain.Beer{}, domain.ErrNotFound
	}
	return b, nil
}

func (f *handlerStore) List(_ context.Context, q domain.BeerQuery) ([]domain.Beer, int64, error) {
	f.lastQ = q
	out := make([]domain.Beer, 0, len(f.beers))
	for _, b := range f.beers {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (f *handlerStore) Insert(_ context.Context, b domain.Beer) (domain.Beer, error) {
	if f.err != nil {
		return domain.Beer{}, f.err
	}
	b.ID = "b-created"
	return b, nil
}

func (f *handlerStore) Update(_ context.Context, b domain.Beer) (domain.Beer, error) {
	if f.err != nil {
		return domain.Beer{}, f.err
	}
	return b, nil
}

func (f *handlerStore) Delete(context.Context, string) error { return f.err }

type noCache struct{}

func (noCache) GetEntity(context.Context, string, string, any) bool     { return false }
func (noCache) PutEntity(context.Context, string, string, any)          {}
func (noCache) GetCollection(context.Context, string, string, any) bool { return false }
func (noCache) PutCollection(context.Context, string, string, any)      {}
func (noCache) InvalidateEntity(context.Context, string, string)        {}
func (noCache) InvalidateCollection(context.Context, string)            {}

type recordingAuditor struct{ principals []string }

func (a *recordingAuditor) Publish(_ domain.Beer, _, principal string) {
	a.principals = append(a.principals, principal)
}

func testRouter(st *handlerStore, a *recordingAuditor) http.Handler {
	svc := beers.NewService(st, noCache{}, a, logger.NewNop())
	r := NewRouter()
	(&BeerHandler{Svc: svc}).Register(r)
	return r
}

func TestBeerGetNotFoundIs404(t *testing.T) {
	t.Parallel()
	r := testRouter(&handlerStore{beers: map[string]domain.Beer{}}, &recordingAuditor{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, BeerPath+"/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBeerListQueryParamsReachThePlan(t *testing.T) {
	t.Parallel()
	st := &handlerStore{beers: map[string]domain.Beer{}}
	r := testRouter(st, &recordingAuditor{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		BeerPath+"?beerName=galaxy&beerStyle=pale+ale&pageNumber=2&pageSize=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "galaxy", st.lastQ.Name)
	assert.True(t, st.lastQ.HasName)
	assert.Equal(t, domain.StylePaleAle, st.lastQ.Style)
	assert.True(t, st.lastQ.HasStyle)
	assert.Equal(t, 10, st.lastQ.Limit)
	assert.Equal(t, 10, st.lastQ.Offset)
}

func TestBeerCreateSetsLocationAndPrincipal(t *testing.T) {
	t.Parallel()
	a := &recordingAuditor{}
	r := testRouter(&handlerStore{}, a)

	body := `{"beer_name":"Galaxy Cat","beer_style":"PALE_ALE","upc":"0631234200036","price":"12.95"}`
	req := httptest.NewRequest(http.MethodPost, BeerPath, strings.NewReader(body))
	req.Header.Set("X-Principal", "joe")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, BeerPath+"/b-created", rec.Header().Get("Location"))
	assert.Equal(t, []string{"joe"}, a.principals)

	var saved domain.Beer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "b-created", saved.ID)
}

func TestBeerCreateRejectsInvalidBody(t *testing.T) {
	t.Parallel()
	r := testRouter(&handlerStore{}, &recordingAuditor{})

	t.Run("bad json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, BeerPath, strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad style", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := `{"beer_name":"X","beer_style":"MALORT","upc":"1","price":"1"}`
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, BeerPath, strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBeerUpdateConflictIs409(t *testing.T) {
	t.Parallel()
	st := &handlerStore{err: &domain.ConflictError{Current: 5}}
	r := testRouter(st, &recordingAuditor{})

	body := `{"beer_name":"Galaxy Cat","beer_style":"PALE_ALE","upc":"0631234200036","price":"12.95","version":3}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, BeerPath+"/b1", strings.NewReader(body)))

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp struct {
		CurrentVersion int64 `json:"current_version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.CurrentVersion)
}
