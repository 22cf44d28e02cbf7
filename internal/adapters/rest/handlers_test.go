package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/collo670/NAPANGA-APP/internal/adapters/rest"
	"github.com/collo670/NAPANGA-APP/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUseCases реализует все порты use case поверх заранее заданных ответов
type fakeUseCases struct {
	addedID      string
	addErr       error
	record       *domain.Property
	getErr       error
	updateErr    error
	deleteErr    error
	filtered     []domain.Property
	filterErr    error
	lastCriteria domain.FilterCriteria
	stats        map[string]domain.CountryStatistics
	statsErr     error
}

func (f *fakeUseCases) Execute(ctx context.Context, draft domain.PropertyDraft) (string, error) {
	return f.addedID, f.addErr
}

type fakeGetUC struct{ f *fakeUseCases }

func (g fakeGetUC) Execute(ctx context.Context, id string) (*domain.Property, error) {
	return g.f.record, g.f.getErr
}

type fakeUpdateUC struct{ f *fakeUseCases }

func (u fakeUpdateUC) Execute(ctx context.Context, record domain.Property) error {
	return u.f.updateErr
}

type fakeDeleteUC struct{ f *fakeUseCases }

func (d fakeDeleteUC) Execute(ctx context.Context, id string) error { return d.f.deleteErr }

type fakeFilterUC struct{ f *fakeUseCases }

func (l fakeFilterUC) Execute(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Property, error) {
	l.f.lastCriteria = criteria
	return l.f.filtered, l.f.filterErr
}

type fakeStatsUC struct{ f *fakeUseCases }

func (s fakeStatsUC) Execute(ctx context.Context) (map[string]domain.CountryStatistics, error) {
	return s.f.stats, s.f.statsErr
}

func newTestRouter(f *fakeUseCases) http.Handler {
	handler := rest.NewPropertyHandler(f, fakeGetUC{f}, fakeUpdateUC{f}, fakeDeleteUC{f}, fakeFilterUC{f}, fakeStatsUC{f})

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/properties", handler.ListProperties)
		r.Post("/properties", handler.AddProperty)
		r.Get("/properties/{propertyID}", handler.GetProperty)
		r.Put("/properties/{propertyID}", handler.UpdateProperty)
		r.Delete("/properties/{propertyID}", handler.DeleteProperty)
		r.Get("/stats/countries", handler.CountryStats)
	})
	return r
}

func TestAddPropertyHandler(t *testing.T) {
	t.Run("valid draft returns created id", func(t *testing.T) {
		f := &fakeUseCases{addedID: "KE-2026-001"}
		body := `{"country":"Kenya","title":"Apartment","type":"apartment","price":85000}`

		rec := httptest.NewRecorder()
		newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/properties", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp rest.AddPropertyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "KE-2026-001", resp.ID)
	})

	t.Run("draft without required fields is rejected by schema", func(t *testing.T) {
		f := &fakeUseCases{addedID: "KE-2026-001"}
		body := `{"city":"Nairobi"}`

		rec := httptest.NewRecorder()
		newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/properties", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("broken json body", func(t *testing.T) {
		f := &fakeUseCases{}

		rec := httptest.NewRecorder()
		newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/properties", strings.NewReader("{oops")))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("write conflict maps to 409", func(t *testing.T) {
		f := &fakeUseCases{addErr: domain.ErrWriteConflict}
		body := `{"country":"Kenya","title":"Apartment","type":"apartment","price":85000}`

		rec := httptest.NewRecorder()
		newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/properties", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetPropertyHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := &fakeUseCases{record: &domain.Property{ID: "KE-2026-001", Title: "Apartment"}}

		rec := httptest.NewRecorder()
		newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties/KE-2026-001", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var got domain.Property
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "KE-2026-001", got.ID)
	})

	t.Run("missing record is 404", func(t *testing.T) {
		f := &fakeUseCases{}

		rec := httptest.NewRecorder()
		newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties/KE-2026-404", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("storage error is 503", func(t *testing.T) {
		f := &fakeUseCases{getErr: domain.ErrStoreUnavailable}

		rec := httptest.NewRecorder()
		newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties/KE-2026-001", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestListPropertiesHandlerParsesCriteria(t *testing.T) {
	f := &fakeUseCases{filtered: []domain.Property{}}

	target := "/api/v1/properties?country=Kenya&city=Nairobi&minPrice=1000&maxPrice=90000&bedrooms=4%2B&amenities=WiFi,Parking&featured=true"
	rec := httptest.NewRecorder()
	newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Kenya", f.lastCriteria.Country)
	assert.Equal(t, "Nairobi", f.lastCriteria.City)
	require.NotNil(t, f.lastCriteria.MinPrice)
	assert.Equal(t, 1000, *f.lastCriteria.MinPrice)
	require.NotNil(t, f.lastCriteria.MaxPrice)
	assert.Equal(t, 90000, *f.lastCriteria.MaxPrice)
	assert.Equal(t, domain.BedroomsFourPlus, f.lastCriteria.Bedrooms)
	assert.Equal(t, []string{"WiFi", "Parking"}, f.lastCriteria.Amenities)
	require.NotNil(t, f.lastCriteria.Featured)
	assert.True(t, *f.lastCriteria.Featured)
}

func TestListPropertiesHandlerRejectsBadNumbers(t *testing.T) {
	f := &fakeUseCases{}

	rec := httptest.NewRecorder()
	newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties?minPrice=cheap", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPropertiesHandlerEmptyResultIsArray(t *testing.T) {
	f := &fakeUseCases{filtered: nil}

	rec := httptest.NewRecorder()
	newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestCountryStatsHandler(t *testing.T) {
	f := &fakeUseCases{stats: map[string]domain.CountryStatistics{
		"Kenya": {Total: 2, Available: 1, Rented: 1, Featured: 1, TotalValue: 235000},
	}}

	rec := httptest.NewRecorder()
	newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats/countries", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]domain.CountryStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got["Kenya"].Total)
}

func TestDeletePropertyHandler(t *testing.T) {
	f := &fakeUseCases{}

	rec := httptest.NewRecorder()
	newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/properties/KE-2026-001", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted")
}

func TestUpdatePropertyHandlerUsesPathID(t *testing.T) {
	f := &fakeUseCases{}
	body := `{"id":"SOMETHING-ELSE","title":"Renamed"}`

	rec := httptest.NewRecorder()
	newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/properties/KE-2026-001", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
}
