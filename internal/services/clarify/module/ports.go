package module

import (
	"context"

	clarifydom "autoscrum/internal/services/clarify/domain"
	clarifysvc "autoscrum/internal/services/clarify/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptClarifyPort adapts the clarify service to the domain port interface
type adaptClarifyPort struct{ svc clarifysvc.Service }

// Step implements the domain ClarifyPort interface
func (a adaptClarifyPort) Step(ctx context.Context, in clarifydom.StepInput) (clarifydom.StepOutput, error) {
	return a.svc.Step(ctx, in)
}

// Get implements the domain ClarifyPort interface
func (a adaptClarifyPort) Get(ctx context.Context, featureID string) (*clarifydom.FeatureContext, error) {
	return a.svc.Get(ctx, featureID)
}

// Reset implements the domain ClarifyPort interface
func (a adaptClarifyPort) Reset(ctx context.Context, featureID string) error {
	return a.svc.Reset(ctx, featureID)
}
