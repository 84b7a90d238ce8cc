package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/HerbHall/rigplanner/internal/compare"
	"github.com/HerbHall/rigplanner/internal/server"
	pkgcatalog "github.com/HerbHall/rigplanner/pkg/catalog"
	"github.com/HerbHall/rigplanner/pkg/models"
	"go.uber.org/zap"
)

// facetParamPrefix marks query parameters that select facet values,
// e.g. facet.Socket=AM5,LGA1700. Parameters may also repeat.
const facetParamPrefix = "facet."

// CompareRequest is the body of POST /api/v1/compare.
type CompareRequest struct {
	IDs []string `json:"ids"`
}

// Handler serves the catalog and comparison API.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new catalog API handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/catalog/components", h.handleBrowse)
	mux.HandleFunc("GET /api/v1/catalog/components/{id}", h.handleComponent)
	mux.HandleFunc("GET /api/v1/catalog/components/{id}/similar", h.handleSimilar)
	mux.HandleFunc("GET /api/v1/catalog/facets", h.handleFacets)
	mux.HandleFunc("GET /api/v1/catalog/prebuilts", h.handlePrebuilts)
	mux.HandleFunc("POST /api/v1/compare", h.handleCompare)
}

// handleBrowse returns the components of one slot kind that match the filter.
//
//	@Summary		Browse catalog components
//	@Description	Filters one slot kind by search text, price ceiling, manufacturer, stock and facet values.
//	@Tags			catalog
//	@Produce		json
//	@Param			type query string true "Slot kind (cpu, motherboard, ram, gpu, storage, psu, case, cooler)"
//	@Param			q query string false "Case-insensitive search text"
//	@Param			max_price query number false "Price ceiling, 0 for none"
//	@Param			manufacturer query string false "Manufacturer, All for none"
//	@Param			stock_only query bool false "Only parts in stock"
//	@Success		200 {object} BrowseResult
//	@Failure		400 {object} server.Problem
//	@Router			/catalog/components [get]
func (h *Handler) handleBrowse(w http.ResponseWriter, r *http.Request) {
	fs, err := parseFilter(r)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	res, err := h.service.Browse(r.Context(), fs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, res)
}

// handleFacets returns the facet option lists of a slot kind.
//
//	@Summary		List facet options
//	@Tags			catalog
//	@Produce		json
//	@Param			type query string true "Slot kind"
//	@Success		200 {object} FacetResult
//	@Failure		400 {object} server.Problem
//	@Router			/catalog/facets [get]
func (h *Handler) handleFacets(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseSlotKind(r.URL.Query().Get("type"))
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	res, err := h.service.Facets(r.Context(), kind)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, res)
}

// handleComponent returns a single component.
//
//	@Summary		Get a component
//	@Tags			catalog
//	@Produce		json
//	@Param			id path string true "Component ID"
//	@Success		200 {object} models.Component
//	@Failure		404 {object} server.Problem
//	@Router			/catalog/components/{id} [get]
func (h *Handler) handleComponent(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Component(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, c)
}

// handleSimilar returns other components of the same slot kind.
//
//	@Summary		List similar components
//	@Tags			catalog
//	@Produce		json
//	@Param			id path string true "Component ID"
//	@Param			limit query int false "Maximum results" default(4)
//	@Success		200 {array} models.Component
//	@Failure		404 {object} server.Problem
//	@Router			/catalog/components/{id}/similar [get]
func (h *Handler) handleSimilar(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			server.BadRequest(w, "limit must be a non-negative integer", r.URL.Path)
			return
		}
		limit = n
	}
	items, err := h.service.Similar(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, items)
}

// handlePrebuilts returns the prebuilt series.
//
//	@Summary		List prebuilt series
//	@Tags			catalog
//	@Produce		json
//	@Success		200 {array} models.Prebuilt
//	@Router			/catalog/prebuilts [get]
func (h *Handler) handlePrebuilts(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Prebuilts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, items)
}

// handleCompare builds a comparison table for the requested IDs.
//
//	@Summary		Compare components
//	@Description	Resolves IDs in request order, skipping unknown ones, and returns the comparison rows and overall winner.
//	@Tags			compare
//	@Accept			json
//	@Produce		json
//	@Param			request body CompareRequest true "Component IDs"
//	@Success		200 {object} engine.Comparison
//	@Failure		400 {object} server.Problem
//	@Failure		422 {object} server.Problem
//	@Router			/compare [post]
func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	cmp, err := h.service.Compare(r.Context(), req.IDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, cmp)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isClientError(err):
		server.BadRequest(w, err.Error(), r.URL.Path)
	case errors.Is(err, pkgcatalog.ErrNotFound):
		server.NotFound(w, err.Error(), r.URL.Path)
	case errors.Is(err, compare.ErrEmptyComparison):
		server.Unprocessable(w, err.Error(), r.URL.Path)
	default:
		h.logger.Error("catalog request failed", zap.String("path", r.URL.Path), zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
	}
}

// parseFilter reads a FilterState from the query string.
func parseFilter(r *http.Request) (models.FilterState, error) {
	q := r.URL.Query()
	kind, err := models.ParseSlotKind(q.Get("type"))
	if err != nil {
		return models.FilterState{}, err
	}
	fs := models.FilterState{
		Slot:         kind,
		Query:        q.Get("q"),
		Manufacturer: q.Get("manufacturer"),
	}
	if s := q.Get("max_price"); s != "" {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil || p < 0 {
			return models.FilterState{}, errors.New("max_price must be a non-negative number")
		}
		fs.MaxPrice = p
	}
	if s := q.Get("stock_only"); s != "" {
		on, err := strconv.ParseBool(s)
		if err != nil {
			return models.FilterState{}, errors.New("stock_only must be a boolean")
		}
		fs.StockOnly = on
	}
	for key, values := range q {
		attr, ok := strings.CutPrefix(key, facetParamPrefix)
		if !ok || attr == "" {
			continue
		}
		if fs.UniqueSelections == nil {
			fs.UniqueSelections = map[string][]string{}
		}
		for _, v := range values {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					fs.UniqueSelections[attr] = append(fs.UniqueSelections[attr], part)
				}
			}
		}
	}
	return fs, nil
}
