package module

import (
	"context"

	storiesdom "autoscrum/internal/services/stories/domain"
	storiessvc "autoscrum/internal/services/stories/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptStoriesPort adapts the stories service to the domain port interface
type adaptStoriesPort struct{ svc storiessvc.Service }

// Generate implements the domain StoriesPort interface
func (a adaptStoriesPort) Generate(ctx context.Context, in storiesdom.GenerateInput) (storiesdom.Backlog, error) {
	return a.svc.Generate(ctx, in)
}

// GenerateFrom implements the domain StoriesPort interface
func (a adaptStoriesPort) GenerateFrom(
	ctx context.Context,
	featureID string,
	fc storiesdom.Context,
	generateEpic bool,
) (storiesdom.Backlog, error) {
	return a.svc.GenerateFrom(ctx, featureID, fc, generateEpic)
}
