// Package domain defines the types and interfaces for the clarification service
package domain

// Turn is one message in the clarification dialogue
type Turn struct {
	Role    string `json:"role"` // user|assistant
	Content string `json:"content"`
}

// Summary is the structured context produced when clarification completes.
// All six lists are always present on a completed context
type Summary struct {
	Goals                []string `json:"goals"`
	UserPersonas         []string `json:"user_personas"`
	KeyFeatures          []string `json:"key_features"`
	AcceptanceCriteria   []string `json:"acceptance_criteria"`
	TechnicalConstraints []string `json:"technical_constraints"`
	SuccessMetrics       []string `json:"success_metrics"`
}

// FeatureContext is the persisted dialogue state for one feature
type FeatureContext struct {
	FeatureName        string   `json:"feature_name"`
	FeatureDescription string   `json:"feature_description"`
	QuestionsAsked     int      `json:"questions_asked"`
	IsComplete         bool     `json:"is_complete"`
	ForcedCompletion   bool     `json:"forced_completion,omitempty"`
	Summary            *Summary `json:"context_summary,omitempty"`
}

// StepInput carries one dialogue turn
// History is the full conversation so far, round-tripped by the caller
type StepInput struct {
	FeatureID          string `json:"feature_id" validate:"required"`
	FeatureName        string `json:"feature_name"`
	FeatureDescription string `json:"feature_description"`
	UserResponse       string `json:"user_response"`
	History            []Turn `json:"conversation_history"`
}

// StepOutput is the dialogue response: either the next question or the
// completed summary, never both
type StepOutput struct {
	FeatureID        string   `json:"feature_id"`
	Question         string   `json:"question,omitempty"`
	IsComplete       bool     `json:"is_complete"`
	Summary          *Summary `json:"context_summary,omitempty"`
	History          []Turn   `json:"conversation_history"`
	ForcedCompletion bool     `json:"forced_completion,omitempty"`
	CompletionReason string   `json:"completion_reason,omitempty"`
}
