package transcript

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Diagnosis classifies one timeline entry
type Diagnosis string

// Diagnosis values in priority order
const (
	DiagnosisAccess    Diagnosis = "access"
	DiagnosisNeedsHelp Diagnosis = "needs_help"
	DiagnosisPace      Diagnosis = "pace"
	DiagnosisVerify    Diagnosis = "verify"
)

// Signals are the aggregated flags of a timeline entry
type Signals struct {
	Access   bool
	Help     bool
	Pace     bool
	Mentions int
}

// Aggregate ORs the flags across the entry's events
func (en Entry) Aggregate() Signals {
	s := Signals{Mentions: len(en.Events)}
	for _, e := range en.Events {
		s.Access = s.Access || e.Access
		s.Help = s.Help || e.Help
		s.Pace = s.Pace || e.Pace
	}
	return s
}

// Confidence scores the entry and normalizes to 0..1
// score = 1.2 for a ticket ref + 1.0 access + 0.9 help + 0.7 pace
// + 0.2 per mention beyond the first, capped at score/3
func Confidence(hasRef bool, s Signals) float64 {
	score := 0.0
	if hasRef {
		score += 1.2
	}
	if s.Access {
		score += 1.0
	}
	if s.Help {
		score += 0.9
	}
	if s.Pace {
		score += 0.7
	}
	if s.Mentions > 1 {
		score += 0.2 * float64(s.Mentions-1)
	}
	c := score / 3.0
	if c > 1.0 {
		c = 1.0
	}
	return c
}

// Diagnose picks the diagnosis for aggregated signals at a confidence level
// Access and help fire from 0.3, pace needs 0.7, everything else is verify
func Diagnose(s Signals, confidence float64) Diagnosis {
	switch {
	case s.Access && confidence >= 0.3:
		return DiagnosisAccess
	case s.Help && confidence >= 0.3:
		return DiagnosisNeedsHelp
	case s.Pace && confidence >= 0.7:
		return DiagnosisPace
	default:
		return DiagnosisVerify
	}
}

// noStory stands in for the ticket reference when an entry has none
const noStory = "NO_STORY"

// ActionKey derives the deterministic dedup key for one dispatch decision
func ActionKey(person, ref string, d Diagnosis, excerpt string) string {
	if ref == "" {
		ref = noStory
	}
	if len(excerpt) > 200 {
		excerpt = excerpt[:200]
	}
	sum := sha256.Sum256(fmt.Appendf(nil, "%s||%s||%s||%s", person, ref, d, excerpt))
	return hex.EncodeToString(sum[:])
}
