package module

import (
	"context"

	"autoscrum/internal/adapters/jira"
	"autoscrum/internal/adapters/servicenow"
	triagedom "autoscrum/internal/services/triage/domain"
	triagesvc "autoscrum/internal/services/triage/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptTriagePort adapts the triage service to the domain port interface
type adaptTriagePort struct{ svc triagesvc.Service }

// Run implements the domain TriagePort interface
func (a adaptTriagePort) Run(ctx context.Context, in triagedom.RunInput) (triagedom.RunOutput, error) {
	return a.svc.Run(ctx, in)
}

// Decisions implements the domain TriagePort interface
func (a adaptTriagePort) Decisions(ctx context.Context, limit int) ([]triagedom.Decision, error) {
	return a.svc.Decisions(ctx, limit)
}

// incidentDispatch adapts the servicenow client to the Incidents port
type incidentDispatch struct{ client *servicenow.Client }

// CreateIncident implements the domain Incidents interface
func (d incidentDispatch) CreateIncident(ctx context.Context, in triagedom.IncidentRequest) triagedom.DispatchOutcome {
	res := d.client.CreateIncident(ctx, servicenow.IncidentInput{
		ShortDescription: in.ShortDescription,
		Description:      in.Description,
		AssignmentGroup:  in.AssignmentGroup,
		Priority:         in.Priority,
		CallerID:         in.CallerID,
		ContactType:      in.ContactType,
	})
	return triagedom.DispatchOutcome{Success: res.Success, Ref: res.Number, Error: res.Error}
}

// issueDispatch adapts the jira client to the Issues port
type issueDispatch struct{ client *jira.Client }

// CreateIssue implements the domain Issues interface
func (d issueDispatch) CreateIssue(ctx context.Context, in triagedom.IssueRequest) triagedom.DispatchOutcome {
	res := d.client.CreateIssue(ctx, jira.IssueInput{
		ProjectKey:  in.ProjectKey,
		Summary:     in.Summary,
		Description: in.Description,
		StoryPoints: in.StoryPoints,
		Assignee:    in.Assignee,
	})
	return triagedom.DispatchOutcome{Success: res.Success, Ref: res.Key, Error: res.Error}
}
