// Package http provides http transport for clarification dialogues
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"autoscrum/internal/modkit/httpkit"
	perr "autoscrum/internal/platform/errors"
	"autoscrum/internal/services/clarify/domain"
	svc "autoscrum/internal/services/clarify/service"
)

// Register mounts clarify endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.StepInput](r, "/step", h.step)
	httpkit.Get(r, "/{feature_id}", h.get)
	httpkit.Delete(r, "/{feature_id}", h.reset)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /clarify/step Clarify clarifyStep
// @Summary Advance a clarification dialogue by one turn
// @Tags Clarify
// @Accept json
// @Produce json
// @Param payload body domain.StepInput true "Dialogue turn"
// @Success 200 {object} domain.StepOutput "ok"
// @Router /clarify/step [post]
func (h *handlers) step(r *stdhttp.Request, in domain.StepInput) (any, error) {
	return h.svc.Step(r.Context(), in)
}

// swagger:route GET /clarify/{feature_id} Clarify clarifyGet
// @Summary Current clarification context for a feature
// @Tags Clarify
// @Produce json
// @Param feature_id path string true "Feature id"
// @Success 200 {object} domain.FeatureContext "ok"
// @Router /clarify/{feature_id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "feature_id")
	if id == "" {
		return nil, perr.InvalidArgf("feature_id is required")
	}
	fc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if fc == nil {
		return nil, perr.NotFoundf("no context for feature %s", id)
	}
	return fc, nil
}

// swagger:route DELETE /clarify/{feature_id} Clarify clarifyReset
// @Summary Reset a clarification dialogue
// @Tags Clarify
// @Produce json
// @Param feature_id path string true "Feature id"
// @Success 200 {object} map[string]bool "ok"
// @Router /clarify/{feature_id} [delete]
func (h *handlers) reset(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "feature_id")
	if id == "" {
		return nil, perr.InvalidArgf("feature_id is required")
	}
	if err := h.svc.Reset(r.Context(), id); err != nil {
		return nil, err
	}
	return map[string]bool{"reset": true}, nil
}
