// Package skills maps free text and job titles onto the skill tags the
// assignment engine scores against
package skills

import "strings"

// bucket ties trigger substrings to the tags they imply
type bucket struct {
	triggers []string
	tags     []string
}

// story text buckets; matching is plain substring over the lowercased text
var storyBuckets = []bucket{
	{
		triggers: []string{"develop", "code", "implement", "backend", "frontend", "api", "database", "feature"},
		tags:     []string{"development", "developer"},
	},
	{
		triggers: []string{"test", "qa", "quality", "verify", "validation", "automat"},
		tags:     []string{"testing", "qa", "tester"},
	},
	{
		triggers: []string{"deploy", "devops", "infrastructure", "ci/cd", "pipeline", "monitor", "alert"},
		tags:     []string{"devops", "infrastructure"},
	},
	{
		triggers: []string{"ui", "ux", "design", "interface", "user experience", "dashboard"},
		tags:     []string{"frontend", "ui"},
	},
	{
		triggers: []string{"architect", "design", "scalab", "system design", "integration"},
		tags:     []string{"architecture", "senior"},
	},
}

// job title buckets, applied on top of a member's explicit skill list
var titleBuckets = []bucket{
	{triggers: []string{"developer", "engineer"}, tags: []string{"developer", "development"}},
	{triggers: []string{"qa", "test"}, tags: []string{"qa", "testing", "tester"}},
	{triggers: []string{"devops"}, tags: []string{"devops", "infrastructure"}},
	{triggers: []string{"architect"}, tags: []string{"architecture", "senior"}},
}

// Required extracts the skill tags a story calls for from its title and
// description. Order is stable (bucket order) and tags are deduplicated
func Required(title, description string) []string {
	text := strings.ToLower(title + " " + description)
	return collect(storyBuckets, text)
}

// FromTitle infers role tags from a member's job title
func FromTitle(jobTitle string) []string {
	return collect(titleBuckets, strings.ToLower(jobTitle))
}

// MemberSet combines a member's declared skills with the tags inferred from
// their job title into a lookup set
func MemberSet(declared []string, jobTitle string) map[string]bool {
	set := make(map[string]bool, len(declared)+4)
	for _, s := range declared {
		set[strings.ToLower(s)] = true
	}
	for _, s := range FromTitle(jobTitle) {
		set[s] = true
	}
	return set
}

// Overlap counts how many of the required tags the member set covers
func Overlap(memberSet map[string]bool, required []string) int {
	n := 0
	for _, r := range required {
		if memberSet[r] {
			n++
		}
	}
	return n
}

func collect(buckets []bucket, text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, b := range buckets {
		if !containsAny(text, b.triggers) {
			continue
		}
		for _, tag := range b.tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}

func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
