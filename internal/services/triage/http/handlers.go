// Package http provides http transport for transcript triage
package http

import (
	stdhttp "net/http"
	"strconv"

	"autoscrum/internal/modkit/httpkit"
	"autoscrum/internal/services/triage/domain"
	svc "autoscrum/internal/services/triage/service"
)

// Register mounts triage endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.RunInput](r, "/run", h.run)
	httpkit.Get(r, "/decisions", h.decisions)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /triage/run Triage triageRun
// @Summary Triage a sprint window of standup transcripts
// @Tags Triage
// @Accept json
// @Produce json
// @Param payload body domain.RunInput true "Transcript batch"
// @Success 200 {object} domain.RunOutput "ok"
// @Router /triage/run [post]
func (h *handlers) run(r *stdhttp.Request, in domain.RunInput) (any, error) {
	return h.svc.Run(r.Context(), in)
}

// swagger:route GET /triage/decisions Triage triageDecisions
// @Summary Recent triage decisions, newest first
// @Tags Triage
// @Produce json
// @Param limit query int false "Max rows, default 100"
// @Success 200 {array} domain.Decision "ok"
// @Router /triage/decisions [get]
func (h *handlers) decisions(r *stdhttp.Request) (any, error) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	return h.svc.Decisions(r.Context(), limit)
}
