// Package domain defines the types and interfaces for the assignment service
package domain

// Story is one backlog item to place
type Story struct {
	ID                 string   `json:"id,omitempty"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
	StoryPoints        int      `json:"story_points"`
	Priority           string   `json:"priority"` // high|medium|low
	Dependencies       []string `json:"dependencies,omitempty"`
	Order              int      `json:"order,omitempty"`
}

// TeamMember is one roster entry with capacity and skills
// EffectiveCapacity and LoadRatio are derived at the start of a run and
// mutated in place as stories land
type TeamMember struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Email           string   `json:"email,omitempty"`
	JobTitle        string   `json:"job_title,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"` // junior|mid|senior
	Skills          []string `json:"skills,omitempty"`
	MaxCapacity     int      `json:"max_capacity"`
	CurrentLoad     int      `json:"current_load"`

	EffectiveCapacity float64 `json:"effective_capacity,omitempty"`
	LoadRatio         float64 `json:"load_ratio,omitempty"`
}

// Assignment binds one story to one member for this run
type Assignment struct {
	StoryID       string  `json:"story_id"`
	StoryTitle    string  `json:"story_title"`
	StoryPoints   int     `json:"story_points"`
	Priority      string  `json:"priority"`
	Assignee      string  `json:"assignee"`
	AssigneeEmail string  `json:"assignee_email,omitempty"`
	AssigneeID    string  `json:"assignee_id,omitempty"`
	Confidence    float64 `json:"confidence"`
}

// MemberLoad is the per-member slice of the team load report
type MemberLoad struct {
	CurrentLoad     int     `json:"current_load"`
	MaxCapacity     int     `json:"max_capacity"`
	LoadPercentage  float64 `json:"load_percentage"`
	AssignedStories int     `json:"assigned_stories"`
}

// TeamLoad aggregates the post-run load distribution
type TeamLoad struct {
	Members           map[string]MemberLoad `json:"team_members"`
	TotalLoad         int                   `json:"total_load"`
	TotalCapacity     int                   `json:"total_capacity"`
	AvgLoadPercentage float64               `json:"avg_load_percentage"`
	TeamSize          int                   `json:"team_size"`
}

// PlanInput carries one assignment run's stories and roster
// When Members is empty and BoardID is set, the roster is fetched from the
// ticket system's capacity endpoint
type PlanInput struct {
	Stories        []Story      `json:"stories"`
	Members        []TeamMember `json:"team_members"`
	BoardID        int          `json:"board_id,omitempty"`
	SprintCapacity int          `json:"sprint_capacity,omitempty"`
}

// PlanOutput is the full assignment plan
type PlanOutput struct {
	Assignments []Assignment `json:"assignments"`
	Unassigned  []Story      `json:"unassigned_stories"`
	TeamLoad    TeamLoad     `json:"team_load"`
	Warnings    []string     `json:"warnings"`
}
