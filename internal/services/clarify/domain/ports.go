package domain

import "context"

// ClarifyPort defines the service contract for feature clarification
type ClarifyPort interface {
	Step(ctx context.Context, in StepInput) (StepOutput, error)
	Get(ctx context.Context, featureID string) (*FeatureContext, error)
	Reset(ctx context.Context, featureID string) error
}

// Reasoner is the narrow slice of the reasoning client the dialogue needs
type Reasoner interface {
	GenerateStructured(ctx context.Context, prompt, systemMessage string, temperature float64) (map[string]any, error)
}
