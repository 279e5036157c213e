// Package service implements story generation over a clarified context
package service

import (
	"context"
	"fmt"
	"strings"

	perr "autoscrum/internal/platform/errors"
	"autoscrum/internal/platform/logger"
	"autoscrum/internal/services/stories/domain"
)

const systemPrompt = `You are an expert Agile Story Writer who creates well-structured user stories.

For each feature, you should:
1. Break it down into logical user stories following the format: "As a [persona], I want [goal] so that [benefit]"
2. Create detailed acceptance criteria for each story
3. Estimate story points (1, 2, 3, 5, 8, 13)
4. Identify dependencies between stories
5. Organize stories into epics if needed

Focus on clarity, testability, and completeness.`

// pointScale is the allowed story point values, ascending
var pointScale = []int{1, 2, 3, 5, 8, 13}

const defaultPoints = 3

// Service defines the service contract for story generation
type Service interface{ domain.StoriesPort }

// Svc implements the Service interface
type Svc struct {
	contexts domain.ContextSource
	reasoner domain.Reasoner
	log      logger.Logger
}

// New creates a new story generation service
func New(contexts domain.ContextSource, reasoner domain.Reasoner) *Svc {
	if contexts == nil {
		panic("stories.Service requires a non nil context source")
	}
	if reasoner == nil {
		panic("stories.Service requires a non nil reasoner")
	}
	return &Svc{contexts: contexts, reasoner: reasoner, log: *logger.Named("stories")}
}

// Generate loads the stored context for a feature and produces its backlog
func (s *Svc) Generate(ctx context.Context, in domain.GenerateInput) (domain.Backlog, error) {
	fc, err := s.contexts.Context(ctx, in.FeatureID)
	if err != nil {
		return domain.Backlog{}, err
	}
	if fc == nil {
		return domain.Backlog{}, perr.IncompleteContextf("no context found for feature %s", in.FeatureID)
	}
	epic := true
	if in.GenerateEpic != nil {
		epic = *in.GenerateEpic
	}
	return s.GenerateFrom(ctx, in.FeatureID, *fc, epic)
}

// GenerateFrom produces a backlog from an already loaded context
func (s *Svc) GenerateFrom(
	ctx context.Context,
	featureID string,
	fc domain.Context,
	generateEpic bool,
) (domain.Backlog, error) {
	norm, err := normalize(featureID, fc)
	if err != nil {
		return domain.Backlog{}, err
	}

	resp, err := s.reasoner.GenerateStructured(ctx, buildPrompt(norm, generateEpic), systemPrompt, 0.6)
	if err != nil {
		return domain.Backlog{}, err
	}

	out := domain.Backlog{FeatureID: featureID, Stories: []domain.Story{}}
	if generateEpic {
		out.Epic = epicFrom(resp["epic"])
	}

	raw, _ := resp["stories"].([]any)
	for idx, it := range raw {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		st := storyFrom(m, idx)
		out.Stories = append(out.Stories, st)
		out.TotalStoryPoints += st.StoryPoints
	}
	out.StoryCount = len(out.Stories)

	s.log.Info().
		Str("feature_id", featureID).
		Int("stories", out.StoryCount).
		Int("total_points", out.TotalStoryPoints).
		Msg("backlog generated")
	return out, nil
}

// normalize enforces the completeness precondition, accepting legacy
// contexts where the six summary lists sit at the top level or only inside
// context_summary without the completion flag
func normalize(featureID string, fc domain.Context) (domain.Context, error) {
	if !fc.IsComplete {
		switch {
		case fc.Summary != nil:
			fc.IsComplete = true
		case fc.Goals != nil && fc.UserPersonas != nil && fc.KeyFeatures != nil &&
			fc.AcceptanceCriteria != nil && fc.TechnicalConstraints != nil && fc.SuccessMetrics != nil:
			fc.IsComplete = true
		default:
			return fc, perr.IncompleteContextf("feature %s context is not complete", featureID)
		}
	}
	if s := fc.Summary; s != nil {
		// summary block wins over stale top-level lists
		fc.Goals = pick(s.Goals, fc.Goals)
		fc.UserPersonas = pick(s.UserPersonas, fc.UserPersonas)
		fc.KeyFeatures = pick(s.KeyFeatures, fc.KeyFeatures)
		fc.AcceptanceCriteria = pick(s.AcceptanceCriteria, fc.AcceptanceCriteria)
		fc.TechnicalConstraints = pick(s.TechnicalConstraints, fc.TechnicalConstraints)
		fc.SuccessMetrics = pick(s.SuccessMetrics, fc.SuccessMetrics)
	}
	return fc, nil
}

func pick(primary, fallback []string) []string {
	if len(primary) > 0 {
		return primary
	}
	return fallback
}

func buildPrompt(fc domain.Context, generateEpic bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert Agile story writer. Based on the feature context below, generate high-quality user stories.

Feature Context:
Name: %s
Description: %s

Goals: %s
User Personas: %s
Key Features: %s
Technical Constraints: %s
Success Metrics: %s
Acceptance Criteria: %s

Instructions:
1. Generate AT LEAST 5-8 comprehensive user stories
2. Each story should follow the format: "As a [persona], I want [goal] so that [benefit]"
3. Include detailed acceptance criteria for each story
4. Estimate story points (1, 2, 3, 5, 8, or 13)
5. Assign priorities (high, medium, low)
6. The stories should cover all key features and goals mentioned above

IMPORTANT: The "stories" array MUST NOT be empty. Generate at least 5 stories.`,
		orUnknown(fc.FeatureName),
		fc.FeatureDescription,
		safeJoin(fc.Goals),
		safeJoin(fc.UserPersonas),
		safeJoin(fc.KeyFeatures),
		safeJoin(fc.TechnicalConstraints),
		safeJoin(fc.SuccessMetrics),
		safeJoin(fc.AcceptanceCriteria),
	)

	if generateEpic {
		b.WriteString(`

Please respond ONLY with valid JSON in this exact format:
{
    "epic": {
        "title": "Epic title summarizing the entire feature",
        "description": "Comprehensive description of the epic",
        "objectives": ["objective1", "objective2", "objective3"]
    },
    "stories": [
        {
            "title": "User story title (As a... I want... so that...)",
            "description": "Detailed description of what needs to be implemented",
            "acceptance_criteria": ["criteria1", "criteria2", "criteria3"],
            "story_points": 5,
            "priority": "high",
            "dependencies": []
        }
    ]
}

CRITICAL: Include at least 5-8 stories in the array.`)
	} else {
		b.WriteString(`

Please respond ONLY with valid JSON:
{
    "stories": [
        {
            "title": "User story title",
            "description": "Detailed description",
            "acceptance_criteria": ["criteria1", "criteria2"],
            "story_points": 5,
            "priority": "high",
            "dependencies": []
        }
    ]
}

CRITICAL: Include at least 5-8 stories.`)
	}
	return b.String()
}

func storyFrom(m map[string]any, idx int) domain.Story {
	return domain.Story{
		Title:              str(m["title"]),
		Description:        str(m["description"]),
		AcceptanceCriteria: strList(m["acceptance_criteria"]),
		StoryPoints:        clampPoints(m["story_points"]),
		Priority:           normPriority(str(m["priority"])),
		Dependencies:       strList(m["dependencies"]),
		Order:              idx + 1,
	}
}

func epicFrom(v any) *domain.Epic {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	return &domain.Epic{
		Title:       str(m["title"]),
		Description: str(m["description"]),
		Objectives:  strList(m["objectives"]),
	}
}

// clampPoints snaps a returned estimate onto the point scale.
// Absent or non-numeric values get the default, out-of-scale values snap
// to the nearest allowed value with ties going low
func clampPoints(v any) int {
	f, ok := v.(float64)
	if !ok {
		return defaultPoints
	}
	p := int(f)
	if p <= 0 {
		return defaultPoints
	}
	best := pointScale[0]
	for _, s := range pointScale {
		if abs(p-s) < abs(p-best) {
			best = s
		}
	}
	return best
}

func normPriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high":
		return "high"
	case "low":
		return "low"
	default:
		return "medium"
	}
}

func safeJoin(items []string) string {
	if len(items) == 0 {
		return "Not specified"
	}
	return strings.Join(items, ", ")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
