package domain

import "context"

// PlannerPort produces an assignment plan for one run
type PlannerPort interface {
	Plan(ctx context.Context, in PlanInput) (PlanOutput, error)
}

// RosterPort fetches a team roster from the ticket system
type RosterPort interface {
	Roster(ctx context.Context, boardID int) ([]TeamMember, error)
}
