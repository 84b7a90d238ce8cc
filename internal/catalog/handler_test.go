package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HerbHall/rigplanner/internal/engine"
	"github.com/HerbHall/rigplanner/internal/metrics"
	"github.com/HerbHall/rigplanner/internal/server"
	"github.com/HerbHall/rigplanner/internal/testutil"
	pkgcatalog "github.com/HerbHall/rigplanner/pkg/catalog"
	"github.com/HerbHall/rigplanner/pkg/models"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T, m *metrics.Metrics) *http.ServeMux {
	t.Helper()
	e := engine.New(pkgcatalog.NewCatalog(), engine.Options{Currency: "PHP", Workers: 2})
	h := NewHandler(NewService(e, m), testutil.Logger(t))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandleBrowse(t *testing.T) {
	m := metrics.New()
	mux := newTestMux(t, m)

	w := do(t, mux, http.MethodGet, "/api/v1/catalog/components?type=cpu&facet.Socket=AM5&max_price=25000", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res BrowseResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, models.SlotCPU, res.Type)
	require.Equal(t, 2, res.Count)
	assert.Equal(t, "cpu-ryzen-5-7600", res.Items[0].ID)
	assert.Equal(t, "cpu-ryzen-7-7800x3d", res.Items[1].ID)
	assert.Contains(t, res.Facets["Socket"], "LGA1700", "facet options come from the unfiltered slot")
	assert.Equal(t, models.ManufacturerAll, res.Manufacturers[0])

	assert.Equal(t, float64(1), promtest.ToFloat64(m.CatalogQueries.WithLabelValues("cpu")))
}

func TestHandleBrowse_CommaSeparatedFacet(t *testing.T) {
	mux := newTestMux(t, nil)

	w := do(t, mux, http.MethodGet, "/api/v1/catalog/components?type=cpu&facet.Socket=AM5,%20LGA4677", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res BrowseResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, 4, res.Count)
	assert.Equal(t, []string{"AM5", "LGA4677"}, res.Filter.UniqueSelections["Socket"])
}

func TestHandleBrowse_StockOnly(t *testing.T) {
	mux := newTestMux(t, nil)

	w := do(t, mux, http.MethodGet, "/api/v1/catalog/components?type=cpu&stock_only=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res BrowseResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	for _, c := range res.Items {
		assert.NotEqual(t, "cpu-core-i7-14700k", c.ID, "out-of-stock part listed")
		assert.Positive(t, c.StockCount)
	}
}

func TestHandleBrowse_BadRequests(t *testing.T) {
	mux := newTestMux(t, nil)

	tests := []struct {
		name   string
		target string
	}{
		{"missing type", "/api/v1/catalog/components"},
		{"unknown type", "/api/v1/catalog/components?type=monitor"},
		{"bad price", "/api/v1/catalog/components?type=gpu&max_price=cheap"},
		{"negative price", "/api/v1/catalog/components?type=gpu&max_price=-5"},
		{"bad stock flag", "/api/v1/catalog/components?type=gpu&stock_only=maybe"},
		{"unknown facet", "/api/v1/catalog/components?type=gpu&facet.Socket=AM5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, mux, http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
		})
	}
}

func TestHandleFacets(t *testing.T) {
	mux := newTestMux(t, nil)

	w := do(t, mux, http.MethodGet, "/api/v1/catalog/facets?type=cpu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res FacetResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, []string{"Socket", "Core Count", "Series"}, res.Attributes)
	assert.Equal(t, []string{"AM5", "LGA1700", "LGA4677"}, res.Facets["Socket"])
}

func TestHandleComponent(t *testing.T) {
	mux := newTestMux(t, nil)

	w := do(t, mux, http.MethodGet, "/api/v1/catalog/components/psu-rm650e", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var c models.Component
	require.NoError(t, json.NewDecoder(w.Body).Decode(&c))
	assert.Equal(t, models.SlotPSU, c.Type)

	w = do(t, mux, http.MethodGet, "/api/v1/catalog/components/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSimilar(t *testing.T) {
	mux := newTestMux(t, nil)

	w := do(t, mux, http.MethodGet, "/api/v1/catalog/components/cpu-ryzen-5-7600/similar?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.Component
	require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
	require.Len(t, items, 2)
	for _, c := range items {
		assert.Equal(t, models.SlotCPU, c.Type)
		assert.NotEqual(t, "cpu-ryzen-5-7600", c.ID)
	}

	w = do(t, mux, http.MethodGet, "/api/v1/catalog/components/cpu-ryzen-5-7600/similar?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePrebuilts(t *testing.T) {
	mux := newTestMux(t, nil)

	w := do(t, mux, http.MethodGet, "/api/v1/catalog/prebuilts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.Prebuilt
	require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
	assert.Len(t, items, 3)
}

func TestHandleCompare(t *testing.T) {
	m := metrics.New()
	mux := newTestMux(t, m)

	w := do(t, mux, http.MethodPost, "/api/v1/compare", CompareRequest{
		IDs: []string{"cpu-ryzen-5-7600", "unknown", "cpu-ryzen-9-7950x"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cmp engine.Comparison
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cmp))
	require.Len(t, cmp.Items, 2)
	assert.Equal(t, "cpu-ryzen-5-7600", cmp.Items[0].ID)
	assert.Equal(t, "Price", cmp.Rows[0].Key)
	require.NotNil(t, cmp.Rows[0].BestIndex)
	assert.Equal(t, 0, *cmp.Rows[0].BestIndex)
	assert.Equal(t, "cpu-ryzen-9-7950x", cmp.Winner.ID)
	assert.Equal(t, float64(1), promtest.ToFloat64(m.Comparisons))
}

func TestHandleCompare_Errors(t *testing.T) {
	mux := newTestMux(t, nil)

	w := do(t, mux, http.MethodPost, "/api/v1/compare", CompareRequest{IDs: []string{"nope"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var p server.Problem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, server.ProblemTypeUnprocessable, p.Type)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestService_PrebuiltsWithoutSource(t *testing.T) {
	type plainAccessor struct{ pkgcatalog.Accessor }
	acc := plainAccessor{testutil.NewStaticCatalog(testutil.NewComponent())}
	svc := NewService(engine.New(acc, engine.Options{}), nil)

	items, err := svc.Prebuilts(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestHandleBrowse_SQLiteCatalog(t *testing.T) {
	e := engine.New(testutil.NewComponentRepository(t), engine.Options{Currency: "PHP"})
	mux := http.NewServeMux()
	NewHandler(NewService(e, nil), testutil.Logger(t)).RegisterRoutes(mux)

	w := do(t, mux, http.MethodGet, "/api/v1/catalog/components?type=cpu&facet.Socket=AM5&max_price=25000", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res BrowseResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	require.Equal(t, 2, res.Count)
	assert.Equal(t, "cpu-ryzen-5-7600", res.Items[0].ID, "imported order is preserved")
	assert.Equal(t, "cpu-ryzen-7-7800x3d", res.Items[1].ID)

	w = do(t, mux, http.MethodGet, "/api/v1/catalog/prebuilts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var prebuilts []models.Prebuilt
	require.NoError(t, json.NewDecoder(w.Body).Decode(&prebuilts))
	assert.Len(t, prebuilts, 3)
}
