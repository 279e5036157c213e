// Package http provides http transport for story generation
package http

import (
	stdhttp "net/http"

	"autoscrum/internal/modkit/httpkit"
	"autoscrum/internal/services/stories/domain"
	svc "autoscrum/internal/services/stories/service"
)

// Register mounts story endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.GenerateInput](r, "/generate", h.generate)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /stories/generate Stories storiesGenerate
// @Summary Generate a backlog from a clarified feature context
// @Tags Stories
// @Accept json
// @Produce json
// @Param payload body domain.GenerateInput true "Feature reference"
// @Success 200 {object} domain.Backlog "ok"
// @Router /stories/generate [post]
func (h *handlers) generate(r *stdhttp.Request, in domain.GenerateInput) (any, error) {
	return h.svc.Generate(r.Context(), in)
}
