package domain

import "context"

// StoriesPort defines the service contract for story generation
type StoriesPort interface {
	Generate(ctx context.Context, in GenerateInput) (Backlog, error)
	GenerateFrom(ctx context.Context, featureID string, fc Context, generateEpic bool) (Backlog, error)
}

// ContextSource loads a stored feature context, nil when none exists
type ContextSource interface {
	Context(ctx context.Context, featureID string) (*Context, error)
}

// Reasoner is the narrow slice of the reasoning client generation needs
type Reasoner interface {
	GenerateStructured(ctx context.Context, prompt, systemMessage string, temperature float64) (map[string]any, error)
}
