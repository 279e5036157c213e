package module

import (
	"context"

	"autoscrum/internal/adapters/jira"
	assigndom "autoscrum/internal/services/assign/domain"
	assignsvc "autoscrum/internal/services/assign/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptPlannerPort adapts the assign service to the domain port interface
type adaptPlannerPort struct{ svc assignsvc.Service }

// Plan implements the domain PlannerPort interface
func (a adaptPlannerPort) Plan(ctx context.Context, in assigndom.PlanInput) (assigndom.PlanOutput, error) {
	return a.svc.Plan(ctx, in)
}

// boardRoster resolves a board id into team members via the jira capacity
// endpoint
type boardRoster struct{ client *jira.Client }

// Roster implements the domain RosterPort interface
func (b boardRoster) Roster(ctx context.Context, boardID int) ([]assigndom.TeamMember, error) {
	team, err := b.client.BoardCapacity(ctx, boardID)
	if err != nil {
		return nil, err
	}
	out := make([]assigndom.TeamMember, 0, len(team))
	for _, m := range team {
		out = append(out, assigndom.TeamMember{
			ID:              m.ID,
			Name:            m.Name,
			Email:           m.Email,
			JobTitle:        m.JobTitle,
			ExperienceLevel: m.ExperienceLevel,
			Skills:          m.Skills,
			MaxCapacity:     m.MaxCapacity,
			CurrentLoad:     m.CurrentLoad,
		})
	}
	return out, nil
}
