// Package domain defines the types and interfaces for the triage service
package domain

// TeamMember is one roster entry available for buddy assignment
type TeamMember struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	AvailableCapacity int    `json:"available_capacity"`
}

// Participant is one speaker in a day's standup transcript
type Participant struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	SpokenText []string `json:"spoken_text"`
}

// Day is one dated transcript in a sprint window
type Day struct {
	Date         string        `json:"date"`
	Participants []Participant `json:"participants"`
}

// RunInput is one triage batch: a sprint window of transcripts plus the team
type RunInput struct {
	SprintID    string       `json:"sprint_id"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	ProjectKey  string       `json:"project_key"`
	Team        []TeamMember `json:"team"`
	Transcripts []Day        `json:"transcripts" validate:"required"`
}

// DispatchResult is the outcome of one outbound action
type DispatchResult struct {
	Action   string `json:"action,omitempty"` // created_incident|created_and_assigned|created_unassigned
	Target   string `json:"target,omitempty"` // servicenow|jira
	Ref      string `json:"ref,omitempty"`    // incident number or issue key
	Assignee string `json:"assignee,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Decision is the audit record for one timeline entry in one run
type Decision struct {
	ID         string          `json:"id"`
	SprintID   string          `json:"sprint_id,omitempty"`
	Person     string          `json:"person"`
	Story      string          `json:"story,omitempty"`
	Diagnosis  string          `json:"diagnosis"`
	Confidence float64         `json:"confidence"`
	Excerpt    string          `json:"excerpt,omitempty"`
	ActionKey  string          `json:"action_key"`
	Dispatched bool            `json:"dispatched"`
	SkipReason string          `json:"skip_reason,omitempty"`
	Result     *DispatchResult `json:"result,omitempty"`
	CreatedAt  string          `json:"created_at,omitempty"`
}

// RunSummary counts what one run did
type RunSummary struct {
	Entries    int `json:"entries"`
	Dispatched int `json:"dispatched"`
	Skipped    int `json:"skipped"`
}

// RunOutput is the full result of one triage batch
type RunOutput struct {
	SprintID   string     `json:"sprint_id,omitempty"`
	ProjectKey string     `json:"project_key"`
	Summary    RunSummary `json:"summary"`
	Decisions  []Decision `json:"decisions"`
}
