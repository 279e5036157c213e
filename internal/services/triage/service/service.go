// Package service implements transcript triage and action dispatch
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"autoscrum/internal/core/transcript"
	"autoscrum/internal/modkit/repokit"
	"autoscrum/internal/platform/logger"
	"autoscrum/internal/services/triage/domain"
	"autoscrum/internal/services/triage/repo"
)

const (
	excerptLimit      = 800
	fallbackProject   = "PROJ"
	accessGroup       = "Developer Support"
	accessPriority    = "2"
	accessContactType = "email"
)

// Service defines the service contract for triage
type Service interface{ domain.TriagePort }

// Svc implements the Service interface
type Svc struct {
	Repo      repo.Repo
	binder    repokit.Binder[repo.Repo]
	db        repokit.TxRunner
	analyses  *repo.Analyses
	incidents domain.Incidents
	issues    domain.Issues
	log       logger.Logger
}

// New creates a new triage service. Dispatchers may be nil when the ticket
// systems are not configured; decisions are still recorded
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Repo],
	analyses *repo.Analyses,
	incidents domain.Incidents,
	issues domain.Issues,
) *Svc {
	if db == nil {
		panic("triage.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("triage.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:      binder.Bind(db),
		binder:    binder,
		db:        db,
		analyses:  analyses,
		incidents: incidents,
		issues:    issues,
		log:       *logger.Named("triage"),
	}
}

// Run triages one sprint window of transcripts and dispatches actions.
// The action ledger makes re-running the same batch a no-op: a decision
// whose key was already claimed is recorded as skipped, never re-dispatched
func (s *Svc) Run(ctx context.Context, in domain.RunInput) (domain.RunOutput, error) {
	projectKey := in.ProjectKey
	if strings.TrimSpace(projectKey) == "" {
		projectKey = fallbackProject
	}

	var events []transcript.Event
	for _, day := range in.Transcripts {
		for _, p := range day.Participants {
			for _, txt := range p.SpokenText {
				events = append(events, transcript.Scan(day.Date, p.Name, p.Email, txt))
			}
		}
	}

	out := domain.RunOutput{
		SprintID:   in.SprintID,
		ProjectKey: projectKey,
		Decisions:  []domain.Decision{},
	}

	for _, entry := range transcript.Group(events) {
		person := entry.Email
		if person == "" {
			person = entry.Name
		}

		excerpt := entry.Excerpt(excerptLimit)
		signals := entry.Aggregate()
		confidence := transcript.Confidence(entry.Ref != "", signals)
		diagnosis := transcript.Diagnose(signals, confidence)
		actionKey := transcript.ActionKey(person, entry.Ref, diagnosis, excerpt)

		dec := domain.Decision{
			ID:         uuid.NewString(),
			SprintID:   in.SprintID,
			Person:     person,
			Story:      entry.Ref,
			Diagnosis:  string(diagnosis),
			Confidence: confidence,
			Excerpt:    excerpt,
			ActionKey:  actionKey,
		}
		out.Summary.Entries++

		payload, _ := json.Marshal(map[string]any{
			"person":     person,
			"story":      entry.Ref,
			"excerpt":    excerpt,
			"confidence": confidence,
		})

		claimed, err := s.Repo.InsertAction(ctx, repo.ActionRow{
			ActionKey:  actionKey,
			Person:     person,
			Story:      entry.Ref,
			Diagnosis:  string(diagnosis),
			Confidence: confidence,
			Payload:    payload,
		})
		if err != nil {
			return domain.RunOutput{}, err
		}
		if !claimed {
			s.log.Info().
				Str("action_key", actionKey).
				Str("person", person).
				Str("story", entry.Ref).
				Str("diagnosis", string(diagnosis)).
				Msg("skipping duplicate action")
			dec.SkipReason = "duplicate"
			out.Summary.Skipped++
			s.record(ctx, dec)
			out.Decisions = append(out.Decisions, dec)
			continue
		}

		result := s.dispatch(ctx, in, projectKey, person, entry.Ref, excerpt, confidence, diagnosis)
		dec.Result = &result
		dec.Dispatched = result.Error == ""
		if dec.Dispatched {
			out.Summary.Dispatched++
		}

		if resp, err := json.Marshal(result); err == nil {
			if err := s.Repo.SetActionResponse(ctx, actionKey, resp); err != nil {
				s.log.Error().Err(err).Str("action_key", actionKey).Msg("action response persist failed")
			}
		}
		s.record(ctx, dec)
		out.Decisions = append(out.Decisions, dec)
	}

	s.cache(ctx, in.SprintID, out)
	return out, nil
}

// Decisions lists recent audit rows, newest first
func (s *Svc) Decisions(ctx context.Context, limit int) ([]domain.Decision, error) {
	rows, err := s.Repo.RecentDecisions(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Decision, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Decision{
			ID:         r.ID,
			SprintID:   r.SprintID,
			Person:     r.Person,
			Story:      r.Story,
			Diagnosis:  r.Diagnosis,
			Confidence: r.Confidence,
			ActionKey:  r.ActionKey,
			Dispatched: r.Dispatched,
			SkipReason: r.SkipReason,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out, nil
}

// dispatch routes one claimed decision to the right ticket system.
// Failures come back inside the result; the batch never aborts on them
func (s *Svc) dispatch(
	ctx context.Context,
	in domain.RunInput,
	projectKey, person, story, excerpt string,
	confidence float64,
	diagnosis transcript.Diagnosis,
) domain.DispatchResult {
	if diagnosis == transcript.DiagnosisAccess {
		return s.fileIncident(ctx, projectKey, person, story, excerpt, confidence)
	}
	return s.fileHelper(ctx, in.Team, projectKey, person, story, excerpt, confidence)
}

func (s *Svc) fileIncident(
	ctx context.Context,
	projectKey, person, story, excerpt string,
	confidence float64,
) domain.DispatchResult {
	target := story
	if target == "" {
		target = projectKey
	}
	if s.incidents == nil {
		return domain.DispatchResult{Target: "servicenow", Error: "incident dispatcher not configured"}
	}
	outcome := s.incidents.CreateIncident(ctx, domain.IncidentRequest{
		ShortDescription: fmt.Sprintf("Access issue reported by %s for %s", person, target),
		Description:      fmt.Sprintf("Auto-detected from scrum transcript. Excerpt: %s\nConfidence: %.2f", excerpt, confidence),
		AssignmentGroup:  accessGroup,
		Priority:         accessPriority,
		CallerID:         person,
		ContactType:      accessContactType,
	})
	if !outcome.Success {
		return domain.DispatchResult{Target: "servicenow", Error: outcome.Error}
	}
	return domain.DispatchResult{Action: "created_incident", Target: "servicenow", Ref: outcome.Ref}
}

func (s *Svc) fileHelper(
	ctx context.Context,
	team []domain.TeamMember,
	projectKey, person, story, excerpt string,
	confidence float64,
) domain.DispatchResult {
	if s.issues == nil {
		return domain.DispatchResult{Target: "jira", Error: "issue dispatcher not configured"}
	}

	task := story
	if task == "" {
		task = "unknown task"
	}
	req := domain.IssueRequest{
		ProjectKey:  helperProject(story, projectKey),
		Summary:     fmt.Sprintf("Assist %s on %s (AutoScrum)", person, task),
		Description: fmt.Sprintf("Auto-suggested help: Excerpt: %s\nConfidence: %.2f", excerpt, confidence),
		StoryPoints: 0,
	}

	if buddy := pickBuddy(team, person); buddy != "" {
		assigned := req
		assigned.Assignee = buddy
		outcome := s.issues.CreateIssue(ctx, assigned)
		if outcome.Success {
			return domain.DispatchResult{
				Action:   "created_and_assigned",
				Target:   "jira",
				Ref:      outcome.Ref,
				Assignee: buddy,
			}
		}
		s.log.Warn().Str("assignee", buddy).Str("error", outcome.Error).Msg("assigned helper failed, retrying unassigned")
	}

	outcome := s.issues.CreateIssue(ctx, req)
	if !outcome.Success {
		return domain.DispatchResult{Target: "jira", Error: outcome.Error}
	}
	return domain.DispatchResult{Action: "created_unassigned", Target: "jira", Ref: outcome.Ref}
}

// helperProject derives the project key from the story ref prefix when one
// exists, falling back to the batch project
func helperProject(story, projectKey string) string {
	if story != "" {
		if i := strings.Index(story, "-"); i > 0 {
			return story[:i]
		}
	}
	if strings.TrimSpace(projectKey) == "" {
		return fallbackProject
	}
	return projectKey
}

// pickBuddy returns the teammate with the most spare capacity who is not
// the person being helped. When nobody has capacity left the first other
// member is returned so the helper ticket still lands on a person
func pickBuddy(team []domain.TeamMember, person string) string {
	best := ""
	bestCap := 0
	fallback := ""
	for _, m := range team {
		id := m.Email
		if id == "" {
			id = m.Name
		}
		if id == "" || id == person {
			continue
		}
		if fallback == "" {
			fallback = id
		}
		if m.AvailableCapacity > bestCap {
			best = id
			bestCap = m.AvailableCapacity
		}
	}
	if best != "" {
		return best
	}
	return fallback
}

func (s *Svc) record(ctx context.Context, dec domain.Decision) {
	err := s.Repo.InsertDecision(ctx, repo.DecisionRow{
		ID:         dec.ID,
		SprintID:   dec.SprintID,
		Person:     dec.Person,
		Story:      dec.Story,
		Diagnosis:  dec.Diagnosis,
		Confidence: dec.Confidence,
		ActionKey:  dec.ActionKey,
		Dispatched: dec.Dispatched,
		SkipReason: dec.SkipReason,
	})
	if err != nil {
		s.log.Error().Err(err).Str("action_key", dec.ActionKey).Msg("decision persist failed")
	}
}

func (s *Svc) cache(ctx context.Context, sprintID string, out domain.RunOutput) {
	if s.analyses == nil || sprintID == "" {
		return
	}
	b, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := s.analyses.Put(ctx, sprintID, b); err != nil {
		s.log.Warn().Err(err).Str("sprint_id", sprintID).Msg("analysis cache write failed")
	}
}
