// Package domain defines the types and interfaces for the story service
package domain

// Summary is the six-list structured context block produced by clarification
type Summary struct {
	Goals                []string `json:"goals"`
	UserPersonas         []string `json:"user_personas"`
	KeyFeatures          []string `json:"key_features"`
	AcceptanceCriteria   []string `json:"acceptance_criteria"`
	TechnicalConstraints []string `json:"technical_constraints"`
	SuccessMetrics       []string `json:"success_metrics"`
}

// Context is the clarified feature context stories are generated from.
// Older contexts may carry the six lists at the top level instead of under
// context_summary; Normalize reconciles both shapes
type Context struct {
	FeatureName        string   `json:"feature_name"`
	FeatureDescription string   `json:"feature_description"`
	IsComplete         bool     `json:"is_complete"`
	Summary            *Summary `json:"context_summary,omitempty"`

	Goals                []string `json:"goals,omitempty"`
	UserPersonas         []string `json:"user_personas,omitempty"`
	KeyFeatures          []string `json:"key_features,omitempty"`
	AcceptanceCriteria   []string `json:"acceptance_criteria,omitempty"`
	TechnicalConstraints []string `json:"technical_constraints,omitempty"`
	SuccessMetrics       []string `json:"success_metrics,omitempty"`
}

// Story is one generated backlog item
type Story struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	StoryPoints        int      `json:"story_points"`
	Priority           string   `json:"priority"`
	Dependencies       []string `json:"dependencies"`
	Order              int      `json:"order"`
}

// Epic summarizes the whole feature above its stories
type Epic struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Objectives  []string `json:"objectives"`
}

// Backlog is the full generation result for one feature
type Backlog struct {
	FeatureID        string  `json:"feature_id"`
	Epic             *Epic   `json:"epic,omitempty"`
	Stories          []Story `json:"stories"`
	TotalStoryPoints int     `json:"total_story_points"`
	StoryCount       int     `json:"story_count"`
}

// GenerateInput drives Generate over a stored context
type GenerateInput struct {
	FeatureID    string `json:"feature_id" validate:"required"`
	GenerateEpic *bool  `json:"generate_epic,omitempty"` // nil means true
}
