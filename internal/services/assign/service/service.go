// Package service implements the capacity-constrained assignment engine
package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"autoscrum/internal/core/skills"
	"autoscrum/internal/platform/logger"
	"autoscrum/internal/services/assign/domain"
)

const (
	// MaxPointsPerPerson is the hard per-sprint cap a candidate must stay
	// under to be considered for a story
	MaxPointsPerPerson = 5

	defaultMaxCapacity = 40
	fallbackConfidence = 0.3
)

var priorityWeight = map[string]float64{
	"high":   3,
	"medium": 2,
	"low":    1,
}

var experienceBonus = map[string]float64{
	"junior": 0.8,
	"mid":    1.0,
	"senior": 1.2,
}

// Service defines the service contract for assignment planning
type Service interface{ domain.PlannerPort }

// Svc implements the Service interface
type Svc struct {
	roster domain.RosterPort // optional, used when PlanInput carries no members
	log    logger.Logger
}

// New creates a new assignment planner. roster may be nil when board lookups
// are not configured
func New(roster domain.RosterPort) *Svc {
	return &Svc{roster: roster, log: *logger.Named("assign")}
}

// Plan produces a full assignment plan for one run. The roster copy is
// mutated in place as stories land so later picks see earlier loads
func (s *Svc) Plan(ctx context.Context, in domain.PlanInput) (domain.PlanOutput, error) {
	members := cloneMembers(in.Members)
	if len(members) == 0 && in.BoardID > 0 && s.roster != nil {
		fetched, err := s.roster.Roster(ctx, in.BoardID)
		if err != nil {
			return domain.PlanOutput{}, err
		}
		members = cloneMembers(fetched)
	}

	out := domain.PlanOutput{
		Assignments: make([]domain.Assignment, 0, len(in.Stories)),
		Unassigned:  []domain.Story{},
		Warnings:    []string{},
	}

	if len(members) == 0 {
		s.log.Warn().Int("stories", len(in.Stories)).Msg("assignment run with empty roster")
		out.Unassigned = append(out.Unassigned, in.Stories...)
		out.TeamLoad = teamLoad(nil, nil)
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("no team members available; %d stories left unassigned", len(in.Stories)))
		return out, nil
	}

	prepare(members)

	stories := orderByPriority(in.Stories)
	assignedPer := make(map[string]int, len(members))

	for _, st := range stories {
		idx := s.pickCandidate(st, members)
		conf := 0.0
		if idx < 0 {
			idx = fallbackIndex(members)
			conf = fallbackConfidence
			s.log.Debug().
				Str("story", st.Title).
				Str("assignee", members[idx].Name).
				Msg("no candidate under cap, falling back to least loaded")
		} else {
			conf = clamp01(compositeScore(st, members[idx]))
		}

		m := &members[idx]
		m.CurrentLoad += st.StoryPoints
		m.EffectiveCapacity -= float64(st.StoryPoints)
		if m.EffectiveCapacity < 0 {
			m.EffectiveCapacity = 0
		}
		assignedPer[m.Name]++

		out.Assignments = append(out.Assignments, domain.Assignment{
			StoryID:       storyID(st),
			StoryTitle:    st.Title,
			StoryPoints:   st.StoryPoints,
			Priority:      st.Priority,
			Assignee:      m.Name,
			AssigneeEmail: m.Email,
			AssigneeID:    m.ID,
			Confidence:    conf,
		})
	}

	out.TeamLoad = teamLoad(members, assignedPer)
	out.Warnings = warnings(members, in.Stories, in.SprintCapacity, len(out.Unassigned))
	return out, nil
}

// pickCandidate returns the index of the best-scoring member who can take
// the story without breaching the per-person cap, or -1 when none qualifies.
// Candidates are considered in descending effective-capacity order, so a
// score tie lands on the member with the most room left
func (s *Svc) pickCandidate(st domain.Story, members []domain.TeamMember) int {
	required := skills.Required(st.Title, st.Description)

	order := make([]int, len(members))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return members[order[a]].EffectiveCapacity > members[order[b]].EffectiveCapacity
	})

	best := -1
	bestScore := 0.0
	for _, i := range order {
		m := &members[i]
		if m.CurrentLoad+st.StoryPoints > MaxPointsPerPerson {
			continue
		}
		if m.EffectiveCapacity < float64(st.StoryPoints) {
			continue
		}
		score := scoreWith(required, *m)
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

func compositeScore(st domain.Story, m domain.TeamMember) float64 {
	return scoreWith(skills.Required(st.Title, st.Description), m)
}

// scoreWith blends skill fit, load balance and experience into one score.
// Skill fit dominates, balance keeps the spread even, experience nudges
func scoreWith(required []string, m domain.TeamMember) float64 {
	memberSkills := skills.MemberSet(m.Skills, m.JobTitle)

	skillScore := 0.5
	roleBonus := 1.0
	if len(required) > 0 {
		overlap := skills.Overlap(memberSkills, required)
		skillScore = float64(overlap) / float64(len(required))
		if overlap > 0 {
			roleBonus = 2.0
		}
	}

	balance := 1 - float64(m.CurrentLoad)/float64(MaxPointsPerPerson)
	if balance < 0 {
		balance = 0
	}

	exp, ok := experienceBonus[m.ExperienceLevel]
	if !ok {
		exp = 1.0
	}

	return skillScore*roleBonus*0.6 + balance*0.3 + exp*0.1
}

// orderByPriority sorts a copy of stories by descending urgency score.
// The sort is stable so equal scores keep input order
func orderByPriority(stories []domain.Story) []domain.Story {
	out := make([]domain.Story, len(stories))
	copy(out, stories)
	sort.SliceStable(out, func(i, j int) bool {
		return urgency(out[i]) > urgency(out[j])
	})
	return out
}

func urgency(st domain.Story) float64 {
	w, ok := priorityWeight[st.Priority]
	if !ok {
		w = priorityWeight["medium"]
	}
	score := w * 100
	if len(st.Dependencies) > 0 {
		score -= 10
	}
	score -= 0.5 * float64(st.StoryPoints)
	return score
}

func fallbackIndex(members []domain.TeamMember) int {
	best := 0
	for i := 1; i < len(members); i++ {
		if members[i].CurrentLoad < members[best].CurrentLoad {
			best = i
		}
	}
	return best
}

func prepare(members []domain.TeamMember) {
	for i := range members {
		m := &members[i]
		if m.MaxCapacity <= 0 {
			m.MaxCapacity = defaultMaxCapacity
		}
		ratio := float64(m.CurrentLoad) / float64(m.MaxCapacity)
		if ratio > 1 {
			ratio = 1
		}
		m.LoadRatio = ratio
		m.EffectiveCapacity = float64(m.MaxCapacity) * (1 - ratio)
		if m.EffectiveCapacity < 0 {
			m.EffectiveCapacity = 0
		}
	}
}

func teamLoad(members []domain.TeamMember, assignedPer map[string]int) domain.TeamLoad {
	tl := domain.TeamLoad{
		Members:  make(map[string]domain.MemberLoad, len(members)),
		TeamSize: len(members),
	}
	sum := 0.0
	for _, m := range members {
		pct := float64(m.CurrentLoad) / float64(m.MaxCapacity) * 100
		tl.Members[m.Name] = domain.MemberLoad{
			CurrentLoad:     m.CurrentLoad,
			MaxCapacity:     m.MaxCapacity,
			LoadPercentage:  pct,
			AssignedStories: assignedPer[m.Name],
		}
		tl.TotalLoad += m.CurrentLoad
		tl.TotalCapacity += m.MaxCapacity
		sum += pct
	}
	if len(members) > 0 {
		tl.AvgLoadPercentage = sum / float64(len(members))
	}
	return tl
}

func warnings(members []domain.TeamMember, stories []domain.Story, sprintCapacity, unassigned int) []string {
	warns := []string{}
	for _, m := range members {
		pct := float64(m.CurrentLoad) / float64(m.MaxCapacity) * 100
		switch {
		case m.CurrentLoad > MaxPointsPerPerson:
			warns = append(warns,
				fmt.Sprintf("%s exceeds capacity (%d/%d points)", m.Name, m.CurrentLoad, MaxPointsPerPerson))
		case pct > 90:
			warns = append(warns, fmt.Sprintf("%s is overloaded (%.1f%% capacity)", m.Name, pct))
		case pct > 80:
			warns = append(warns, fmt.Sprintf("%s is near capacity (%.1f%%)", m.Name, pct))
		case pct < 50:
			warns = append(warns, fmt.Sprintf("%s has available capacity (%.1f%%)", m.Name, pct))
		}
	}
	if unassigned > 0 {
		warns = append(warns,
			fmt.Sprintf("%d stories could not be assigned due to capacity constraints", unassigned))
	}
	if sprintCapacity > 0 {
		total := 0
		for _, st := range stories {
			total += st.StoryPoints
		}
		if total > sprintCapacity {
			warns = append(warns,
				fmt.Sprintf("total story points (%d) exceed sprint capacity (%d)", total, sprintCapacity))
		}
	}
	return warns
}

func cloneMembers(in []domain.TeamMember) []domain.TeamMember {
	out := make([]domain.TeamMember, len(in))
	copy(out, in)
	for i := range out {
		out[i].Skills = append([]string(nil), in[i].Skills...)
	}
	return out
}

func storyID(st domain.Story) string {
	if st.ID != "" {
		return st.ID
	}
	if st.Order > 0 {
		return strconv.Itoa(st.Order)
	}
	return st.Title
}

func clamp01(f float64) float64 {
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}
