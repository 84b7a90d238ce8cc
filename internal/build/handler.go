package build

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HerbHall/rigplanner/internal/metrics"
	"github.com/HerbHall/rigplanner/internal/server"
	"github.com/HerbHall/rigplanner/pkg/catalog"
	"github.com/HerbHall/rigplanner/pkg/models"
	"go.uber.org/zap"
)

// SelectRequest is the body of PUT /api/v1/build/{slot}.
type SelectRequest struct {
	ID string `json:"id"`
}

// SaveRequest is the body of POST /api/v1/build/save.
type SaveRequest struct {
	Name string `json:"name"`
}

// Handler serves the build API over one Store.
type Handler struct {
	store   *Store
	catalog catalog.Accessor
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a build API handler. m may be nil.
func NewHandler(store *Store, acc catalog.Accessor, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{store: store, catalog: acc, metrics: m, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/build", h.handleGet)
	mux.HandleFunc("DELETE /api/v1/build", h.handleClear)
	mux.HandleFunc("PUT /api/v1/build/{slot}", h.handleSelect)
	mux.HandleFunc("DELETE /api/v1/build/{slot}", h.handleRemove)
	mux.HandleFunc("POST /api/v1/build/prebuilt/{slug}", h.handlePrebuilt)
	mux.HandleFunc("POST /api/v1/build/save", h.handleSave)
	mux.HandleFunc("GET /api/v1/build/saved", h.handleSaved)
}

// handleGet returns the current build snapshot.
//
//	@Summary		Get the current build
//	@Tags			build
//	@Produce		json
//	@Success		200 {object} Snapshot
//	@Router			/build [get]
func (h *Handler) handleGet(w http.ResponseWriter, _ *http.Request) {
	server.WriteJSON(w, http.StatusOK, h.store.Snapshot())
}

// handleSelect places a catalog component in a slot.
//
//	@Summary		Select a part
//	@Tags			build
//	@Accept			json
//	@Produce		json
//	@Param			slot path string true "Slot kind"
//	@Param			request body SelectRequest true "Component ID"
//	@Success		200 {object} Snapshot
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Router			/build/{slot} [put]
func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseSlotKind(r.PathValue("slot"))
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		server.BadRequest(w, "body must be a JSON object with an id", r.URL.Path)
		return
	}
	c, err := catalog.FindByID(r.Context(), h.catalog, req.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.store.Select(kind, c)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, snap)
}

// handleRemove empties a slot.
//
//	@Summary		Remove a part
//	@Tags			build
//	@Produce		json
//	@Param			slot path string true "Slot kind"
//	@Success		200 {object} Snapshot
//	@Failure		400 {object} server.Problem
//	@Router			/build/{slot} [delete]
func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseSlotKind(r.PathValue("slot"))
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	snap, err := h.store.Remove(kind)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, snap)
}

// handleClear empties every slot.
//
//	@Summary		Clear the build
//	@Tags			build
//	@Produce		json
//	@Success		200 {object} Snapshot
//	@Router			/build [delete]
func (h *Handler) handleClear(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, h.store.Clear())
}

// handlePrebuilt replaces the build with a prebuilt series.
//
//	@Summary		Apply a prebuilt
//	@Tags			build
//	@Produce		json
//	@Param			slug path string true "Prebuilt slug"
//	@Success		200 {object} Snapshot
//	@Failure		404 {object} server.Problem
//	@Router			/build/prebuilt/{slug} [post]
func (h *Handler) handlePrebuilt(w http.ResponseWriter, r *http.Request) {
	src, ok := h.catalog.(catalog.PrebuiltSource)
	if !ok {
		server.NotFound(w, "catalog has no prebuilt series", r.URL.Path)
		return
	}
	p, err := catalog.FindPrebuilt(r.Context(), src, r.PathValue("slug"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.store.ApplyPrebuilt(r.Context(), h.catalog, p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respond(w, snap)
}

// handleSave records the current build under a name.
//
//	@Summary		Save the build
//	@Tags			build
//	@Accept			json
//	@Produce		json
//	@Param			request body SaveRequest false "Build name"
//	@Success		201 {object} models.SavedBuildSummary
//	@Router			/build/save [post]
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			server.BadRequest(w, "invalid JSON body", r.URL.Path)
			return
		}
	}
	summary := h.store.Save(req.Name)
	h.logger.Info("build saved",
		zap.String("id", summary.ID),
		zap.String("name", summary.Name),
		zap.Float64("total", summary.Total),
	)
	server.WriteJSON(w, http.StatusCreated, summary)
}

// handleSaved lists the saved builds of the session.
//
//	@Summary		List saved builds
//	@Tags			build
//	@Produce		json
//	@Success		200 {array} models.SavedBuildSummary
//	@Router			/build/saved [get]
func (h *Handler) handleSaved(w http.ResponseWriter, _ *http.Request) {
	server.WriteJSON(w, http.StatusOK, h.store.Saved())
}

func (h *Handler) respond(w http.ResponseWriter, snap Snapshot) {
	h.metrics.ObserveBuild(snap.Watts, len(snap.Warnings))
	server.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownSlot), errors.Is(err, ErrSlotMismatch):
		server.BadRequest(w, err.Error(), r.URL.Path)
	case errors.Is(err, catalog.ErrNotFound):
		server.NotFound(w, err.Error(), r.URL.Path)
	default:
		h.logger.Error("build request failed", zap.String("path", r.URL.Path), zap.Error(err))
		server.InternalError(w, "failed to update build", r.URL.Path)
	}
}
