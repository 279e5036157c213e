// Package transcript extracts triage signals from standup transcript text
package transcript

import (
	"regexp"
	"strings"

	"autoscrum/internal/core/textnorm"
)

// ticketRe matches Jira-style ticket references like PROJ-123
var ticketRe = regexp.MustCompile(`\b([A-Z][A-Z0-9]+-\d+)\b`)

var (
	accessKeywords = []string{
		"access", "permission", "403", "401", "credentials", "vpn",
		"can't clone", "forbidden", "blocked", "cannot access", "no access",
	}
	helpKeywords = []string{
		"help", "pair", "review", "can someone", "assist",
		"please help", "need help", "assign",
	}
	paceKeywords = []string{
		"later", "not a priority", "will do later", "busy", "lack of time",
		"taking too long", "slow", "delay", "behind schedule",
		"haven't made progress", "no progress",
	}
)

// Event is one utterance with its extracted signals
type Event struct {
	Date   string
	Name   string
	Email  string
	Text   string
	Refs   []string
	Access bool
	Help   bool
	Pace   bool
}

// Scan builds an Event from one utterance
func Scan(date, name, email, text string) Event {
	return Event{
		Date:   date,
		Name:   name,
		Email:  email,
		Text:   text,
		Refs:   TicketRefs(text),
		Access: containsAny(text, accessKeywords),
		Help:   containsAny(text, helpKeywords),
		Pace:   containsAny(text, paceKeywords),
	}
}

// TicketRefs returns the distinct ticket references in text, in order of
// first appearance
func TicketRefs(text string) []string {
	ms := ticketRe.FindAllStringSubmatch(text, -1)
	if len(ms) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ms))
	var out []string
	for _, m := range ms {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Speaker returns the folded identity of the event's speaker, preferring
// email over display name
func (e Event) Speaker() string {
	if e.Email != "" {
		return textnorm.Fold(e.Email)
	}
	return textnorm.Fold(e.Name)
}

func containsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}
