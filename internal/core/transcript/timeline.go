package transcript

// Entry groups every utterance of one speaker about one ticket reference
// (or about no ticket at all) across a multi-day window
type Entry struct {
	Speaker string // folded identity
	Email   string // raw email of the first contributing event
	Name    string // raw display name of the first contributing event
	Ref     string // ticket reference, empty when none
	Events  []Event
}

// Group builds timeline entries from events. An event naming several tickets
// contributes to each ticket's entry; an event naming none contributes to
// the speaker's no-ticket entry. Entry order follows first appearance
func Group(events []Event) []Entry {
	type key struct {
		speaker string
		ref     string
	}
	idx := make(map[key]int)
	var out []Entry

	add := func(k key, e Event) {
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Entry{
				Speaker: k.speaker,
				Email:   e.Email,
				Name:    e.Name,
				Ref:     k.ref,
			})
		}
		out[i].Events = append(out[i].Events, e)
	}

	for _, e := range events {
		speaker := e.Speaker()
		if len(e.Refs) == 0 {
			add(key{speaker, ""}, e)
			continue
		}
		for _, ref := range e.Refs {
			add(key{speaker, ref}, e)
		}
	}
	return out
}

// Excerpt returns the text of the entry's most recent event, bounded
func (en Entry) Excerpt(limit int) string {
	if len(en.Events) == 0 {
		return ""
	}
	text := en.Events[len(en.Events)-1].Text
	if limit > 0 && len(text) > limit {
		return text[:limit]
	}
	return text
}
