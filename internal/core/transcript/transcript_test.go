package transcript

import (
	"strings"
	"testing"
)

func TestTicketRefs(t *testing.T) {
	refs := TicketRefs("blocked on AIOPSCF-13842, also see PROJ-1 and AIOPSCF-13842 again")
	if len(refs) != 2 {
		t.Fatalf("refs = %v", refs)
	}
	if refs[0] != "AIOPSCF-13842" || refs[1] != "PROJ-1" {
		t.Fatalf("order not preserved: %v", refs)
	}
	if got := TicketRefs("no tickets here, just lowercase proj-1"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestScanFlags(t *testing.T) {
	e := Scan("2026-03-02", "Dana", "dana@example.com", "I cannot access the VPN for PROJ-9")
	if !e.Access {
		t.Fatalf("expected access flag")
	}
	if e.Help || e.Pace {
		t.Fatalf("unexpected flags: %+v", e)
	}
	if len(e.Refs) != 1 || e.Refs[0] != "PROJ-9" {
		t.Fatalf("refs = %v", e.Refs)
	}
}

func TestGroup_ByTicketAndSpeaker(t *testing.T) {
	events := []Event{
		Scan("d1", "Dana", "dana@example.com", "PROJ-1 is slow going"),
		Scan("d2", "Dana", "DANA@example.com", "still behind schedule on PROJ-1"),
		Scan("d1", "Raj", "raj@example.com", "need help reviewing"),
	}
	entries := Group(events)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Ref != "PROJ-1" || len(entries[0].Events) != 2 {
		t.Fatalf("dana's PROJ-1 entry should merge case-variant emails: %+v", entries[0])
	}
	if entries[1].Ref != "" || entries[1].Speaker != "raj@example.com" {
		t.Fatalf("raj should land in a no-ticket entry: %+v", entries[1])
	}
}

func TestGroup_MultiRefEventFansOut(t *testing.T) {
	entries := Group([]Event{
		Scan("d1", "Dana", "dana@example.com", "PROJ-1 depends on PROJ-2"),
	})
	if len(entries) != 2 {
		t.Fatalf("one event naming two tickets should produce two entries, got %d", len(entries))
	}
}

func TestConfidenceAndDiagnose(t *testing.T) {
	// ticket ref + access: (1.2 + 1.0) / 3 = 0.733..
	c := Confidence(true, Signals{Access: true, Mentions: 1})
	if c < 0.73 || c > 0.74 {
		t.Fatalf("confidence = %v", c)
	}
	if d := Diagnose(Signals{Access: true}, c); d != DiagnosisAccess {
		t.Fatalf("diagnosis = %v", d)
	}

	// pace alone never clears its 0.7 bar on a single mention
	pc := Confidence(false, Signals{Pace: true, Mentions: 1})
	if d := Diagnose(Signals{Pace: true}, pc); d != DiagnosisVerify {
		t.Fatalf("single pace mention should fall back to verify, got %v", d)
	}

	// repeated pace mentions with a ticket ref do clear it
	pc2 := Confidence(true, Signals{Pace: true, Mentions: 3})
	if d := Diagnose(Signals{Pace: true}, pc2); d != DiagnosisPace {
		t.Fatalf("diagnosis = %v at confidence %v", d, pc2)
	}

	// access beats help when both fire
	if d := Diagnose(Signals{Access: true, Help: true}, 0.9); d != DiagnosisAccess {
		t.Fatalf("access should win over help, got %v", d)
	}

	if c := Confidence(true, Signals{Access: true, Help: true, Pace: true, Mentions: 10}); c != 1.0 {
		t.Fatalf("confidence should cap at 1.0, got %v", c)
	}
}

func TestActionKey_DeterministicAndBounded(t *testing.T) {
	long := strings.Repeat("x", 300)
	k1 := ActionKey("dana@example.com", "PROJ-1", DiagnosisAccess, long)
	k2 := ActionKey("dana@example.com", "PROJ-1", DiagnosisAccess, long[:200]+"different tail")
	if k1 != k2 {
		t.Fatalf("excerpt beyond 200 chars must not affect the key")
	}
	if k1 == ActionKey("dana@example.com", "", DiagnosisAccess, long) {
		t.Fatalf("missing ref must key differently from PROJ-1")
	}
	if len(k1) != 64 {
		t.Fatalf("key length = %d", len(k1))
	}
}

func TestEntryExcerpt(t *testing.T) {
	en := Entry{Events: []Event{
		{Text: "first"},
		{Text: strings.Repeat("y", 900)},
	}}
	if got := en.Excerpt(800); len(got) != 800 {
		t.Fatalf("excerpt length = %d", len(got))
	}
	if (Entry{}).Excerpt(800) != "" {
		t.Fatalf("empty entry excerpt should be empty")
	}
}
