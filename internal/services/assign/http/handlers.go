// Package http provides http transport for assignment planning
package http

import (
	stdhttp "net/http"

	"autoscrum/internal/modkit/httpkit"
	"autoscrum/internal/services/assign/domain"
	svc "autoscrum/internal/services/assign/service"
)

// Register mounts assignment endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.PlanInput](r, "/plan", h.plan)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /assign/plan Assign assignPlan
// @Summary Plan story assignments across the team
// @Tags Assign
// @Accept json
// @Produce json
// @Param payload body domain.PlanInput true "Stories and roster"
// @Success 200 {object} domain.PlanOutput "ok"
// @Router /assign/plan [post]
func (h *handlers) plan(r *stdhttp.Request, in domain.PlanInput) (any, error) {
	return h.svc.Plan(r.Context(), in)
}
