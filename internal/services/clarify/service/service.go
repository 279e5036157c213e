// Package service implements the bounded clarification dialogue
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"autoscrum/internal/platform/logger"
	"autoscrum/internal/services/clarify/domain"
	"autoscrum/internal/services/clarify/repo"
)

// MaxQuestions is the hard ceiling on clarifying questions per feature.
// Once reached the dialogue is force-completed
const MaxQuestions = 5

const systemPrompt = `You are an expert Scrum Master and Product Owner who helps clarify feature requirements.

Your goal is to understand the feature deeply by asking targeted questions about:
1. User personas and target audience
2. Key goals and success metrics
3. Core functionality and edge cases
4. Dependencies and technical constraints
5. Acceptance criteria and definition of done

Ask one question at a time. Be conversational and natural.
When you have enough information, indicate completion.`

const (
	finalizeQuestion = "Thanks for the detailed response! To finalize the clarification, " +
		"could you summarize the goals, key user personas, core features, " +
		"acceptance criteria, technical constraints, and success metrics?"

	followUpQuestion = "Could you provide more details about the remaining aspects? " +
		"Please share information about the goals, user personas, key features, " +
		"acceptance criteria, technical constraints, and success metrics."

	forcedReason = "Maximum question limit reached (5 questions)"
)

// Service defines the service contract for clarification
type Service interface{ domain.ClarifyPort }

// Svc implements the Service interface
type Svc struct {
	repo     repo.Contexts
	reasoner domain.Reasoner
	log      logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a new clarification service
func New(contexts repo.Contexts, reasoner domain.Reasoner) *Svc {
	if contexts == nil {
		panic("clarify.Service requires a non nil context repo")
	}
	if reasoner == nil {
		panic("clarify.Service requires a non nil reasoner")
	}
	return &Svc{
		repo:     contexts,
		reasoner: reasoner,
		log:      *logger.Named("clarify"),
		locks:    map[string]*sync.Mutex{},
	}
}

// Step advances the dialogue for one feature by one turn.
// Concurrent steps for the same feature are serialized so the question
// counter never skips
func (s *Svc) Step(ctx context.Context, in domain.StepInput) (domain.StepOutput, error) {
	lock := s.featureLock(in.FeatureID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.repo.Get(ctx, in.FeatureID)
	if err != nil {
		return domain.StepOutput{}, err
	}
	if state == nil {
		state = &domain.FeatureContext{}
	}

	if state.QuestionsAsked >= MaxQuestions {
		s.log.Warn().
			Str("feature_id", in.FeatureID).
			Int("questions_asked", state.QuestionsAsked).
			Msg("question limit reached, forcing completion")
		return s.forceCompletion(ctx, in.FeatureID, state, in.History)
	}

	if len(in.History) == 0 {
		return s.firstQuestion(ctx, in, state)
	}
	return s.nextTurn(ctx, in, state)
}

// Get returns the current dialogue state for a feature, nil when none exists
func (s *Svc) Get(ctx context.Context, featureID string) (*domain.FeatureContext, error) {
	return s.repo.Get(ctx, featureID)
}

// Reset discards the dialogue state for a feature
func (s *Svc) Reset(ctx context.Context, featureID string) error {
	return s.repo.Delete(ctx, featureID)
}

func (s *Svc) firstQuestion(
	ctx context.Context,
	in domain.StepInput,
	state *domain.FeatureContext,
) (domain.StepOutput, error) {
	prompt := fmt.Sprintf(`Feature Name: %s
Feature Description: %s

Please ask the first clarifying question to understand this feature better.`, in.FeatureName, in.FeatureDescription)

	sys := systemPrompt + "\n\nRespond in JSON format: {\"question\": \"your question here\", \"is_complete\": false}"

	question := followUpQuestion
	resp, err := s.reasoner.GenerateStructured(ctx, prompt, sys, 0.7)
	if err != nil {
		s.log.Warn().Err(err).Str("feature_id", in.FeatureID).Msg("reasoner unavailable, using canned question")
	} else if q, _ := resp["question"].(string); q != "" {
		question = q
	}

	history := append(in.History,
		domain.Turn{Role: "user", Content: fmt.Sprintf("Feature: %s\nDescription: %s", in.FeatureName, in.FeatureDescription)},
		domain.Turn{Role: "assistant", Content: question},
	)

	state.FeatureName = in.FeatureName
	state.FeatureDescription = in.FeatureDescription
	state.QuestionsAsked = 1
	state.IsComplete = false
	if err := s.repo.Put(ctx, in.FeatureID, *state); err != nil {
		return domain.StepOutput{}, err
	}

	return domain.StepOutput{
		FeatureID: in.FeatureID,
		Question:  question,
		History:   history,
	}, nil
}

func (s *Svc) nextTurn(
	ctx context.Context,
	in domain.StepInput,
	state *domain.FeatureContext,
) (domain.StepOutput, error) {
	history := append(in.History, domain.Turn{Role: "user", Content: in.UserResponse})

	recent := history
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}

	prompt := fmt.Sprintf(`Feature Name: %s
Feature Description (brief): %s...

Recent conversation (last 3 exchanges):
%s

User's latest response: %s

Based on this conversation so far, decide:
1. If you have enough information, set is_complete: true and provide a comprehensive context_summary
2. If you need more information, ask the next clarifying question and set is_complete: false

Respond in JSON format:
{
    "question": "next question or null if complete",
    "is_complete": true/false,
    "context_summary": {
        "goals": ["goal1", "goal2"],
        "user_personas": ["persona1"],
        "key_features": ["feature1", "feature2"],
        "acceptance_criteria": ["criteria1", "criteria2"],
        "technical_constraints": ["constraint1"],
        "success_metrics": ["metric1"]
    } or null if not complete
}`,
		orFallback(state.FeatureName, "Unknown"),
		truncate(state.FeatureDescription, 400),
		formatConversation(recent),
		in.UserResponse,
	)

	var (
		isComplete bool
		question   string
		summary    *domain.Summary
	)
	resp, err := s.reasoner.GenerateStructured(ctx, prompt, systemPrompt, 0.7)
	if err != nil {
		s.log.Warn().Err(err).Str("feature_id", in.FeatureID).Msg("reasoner unavailable, using canned question")
	} else {
		isComplete, _ = resp["is_complete"].(bool)
		question, _ = resp["question"].(string)
		summary = summaryFrom(resp["context_summary"])
	}

	if isComplete && summary == nil {
		summary = s.synthesize(ctx, history)
		if summary == nil {
			isComplete = false
			question = finalizeQuestion
		}
	}
	if !isComplete && question == "" {
		question = followUpQuestion
	}
	if !isComplete && question != "" {
		history = append(history, domain.Turn{Role: "assistant", Content: question})
	}

	if isComplete {
		state.Summary = summary
		state.IsComplete = true
	} else {
		state.IsComplete = false
	}
	state.QuestionsAsked++
	if err := s.repo.Put(ctx, in.FeatureID, *state); err != nil {
		return domain.StepOutput{}, err
	}

	out := domain.StepOutput{
		FeatureID:  in.FeatureID,
		IsComplete: isComplete,
		History:    history,
	}
	if isComplete {
		out.Summary = summary
	} else {
		out.Question = question
	}
	return out, nil
}

// forceCompletion closes the dialogue at the question ceiling. When no
// summary can be synthesized from the conversation a minimal one is used
func (s *Svc) forceCompletion(
	ctx context.Context,
	featureID string,
	state *domain.FeatureContext,
	history []domain.Turn,
) (domain.StepOutput, error) {
	summary := s.synthesize(ctx, history)
	if summary == nil {
		summary = &domain.Summary{
			Goals:                []string{"Feature implementation and delivery"},
			UserPersonas:         []string{"End users"},
			KeyFeatures:          []string{orFallback(state.FeatureName, "Feature")},
			AcceptanceCriteria:   []string{"Feature meets basic requirements"},
			TechnicalConstraints: []string{"Standard web application constraints"},
			SuccessMetrics:       []string{"Successful deployment and user adoption"},
		}
		s.log.Warn().Str("feature_id", featureID).Msg("minimal context summary used at question limit")
	}

	state.Summary = summary
	state.IsComplete = true
	state.ForcedCompletion = true
	if err := s.repo.Put(ctx, featureID, *state); err != nil {
		return domain.StepOutput{}, err
	}

	return domain.StepOutput{
		FeatureID:        featureID,
		IsComplete:       true,
		Summary:          summary,
		History:          history,
		ForcedCompletion: true,
		CompletionReason: forcedReason,
	}, nil
}

// synthesize derives a summary from the conversation when the model omitted
// one. Returns nil when the reasoner fails or produces nothing usable
func (s *Svc) synthesize(ctx context.Context, history []domain.Turn) *domain.Summary {
	if len(history) == 0 {
		return nil
	}
	recent := history
	if len(recent) > 8 {
		recent = recent[len(recent)-8:]
	}

	prompt := fmt.Sprintf(`Based on this conversation, produce the structured context summary as JSON with the following keys:
{
    "goals": ["goal1", "goal2"],
    "user_personas": ["persona1"],
    "key_features": ["feature1"],
    "acceptance_criteria": ["criteria1"],
    "technical_constraints": ["constraint1"],
    "success_metrics": ["metric1"]
}

Conversation (recent):
%s

Respond with valid JSON only.`, formatConversation(recent))

	resp, err := s.reasoner.GenerateStructured(
		ctx,
		prompt,
		"You are an expert Scrum Master summarizing the conversation. Respond with the requested JSON.",
		0.3,
	)
	if err != nil {
		s.log.Warn().Err(err).Msg("summary synthesis failed")
		return nil
	}
	if nested, ok := resp["context_summary"].(map[string]any); ok {
		return summaryFrom(nested)
	}
	return summaryFrom(resp)
}

func (s *Svc) featureLock(featureID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lk, ok := s.locks[featureID]
	if !ok {
		lk = &sync.Mutex{}
		s.locks[featureID] = lk
	}
	return lk
}

// summaryFrom converts a loose JSON object into a Summary.
// An empty or non-map value counts as absent
func summaryFrom(v any) *domain.Summary {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	return &domain.Summary{
		Goals:                stringList(m["goals"]),
		UserPersonas:         stringList(m["user_personas"]),
		KeyFeatures:          stringList(m["key_features"]),
		AcceptanceCriteria:   stringList(m["acceptance_criteria"]),
		TechnicalConstraints: stringList(m["technical_constraints"]),
		SuccessMetrics:       stringList(m["success_metrics"]),
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		if s, ok := v.(string); ok && s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func formatConversation(turns []domain.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		role := t.Role
		if role != "" {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		lines = append(lines, role+": "+t.Content)
	}
	return strings.Join(lines, "\n\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func orFallback(s, alt string) string {
	if s == "" {
		return alt
	}
	return s
}
