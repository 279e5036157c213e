package domain

import "context"

// TriagePort defines the service contract for transcript triage
type TriagePort interface {
	Run(ctx context.Context, in RunInput) (RunOutput, error)
	Decisions(ctx context.Context, limit int) ([]Decision, error)
}

// IncidentRequest asks the incident system to open an access ticket
type IncidentRequest struct {
	ShortDescription string
	Description      string
	AssignmentGroup  string
	Priority         string
	CallerID         string
	ContactType      string
}

// IssueRequest asks the ticket system to open a helper story
type IssueRequest struct {
	ProjectKey  string
	Summary     string
	Description string
	StoryPoints int
	Assignee    string
}

// DispatchOutcome is what either dispatcher reports back
type DispatchOutcome struct {
	Success bool
	Ref     string
	Error   string
}

// Incidents files access incidents
type Incidents interface {
	CreateIncident(ctx context.Context, in IncidentRequest) DispatchOutcome
}

// Issues files helper stories
type Issues interface {
	CreateIssue(ctx context.Context, in IssueRequest) DispatchOutcome
}
